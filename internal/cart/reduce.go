package cart

import "github.com/utafrali/storefront/internal/domain"

// Reduce returns the state that results from applying cmd to state. It never
// modifies state; a command that does not apply returns state unchanged.
func Reduce(state domain.CartState, cmd Command) domain.CartState {
	next, _ := transition(state, cmd)
	return next
}

// transition is Reduce plus a flag telling whether anything changed.
func transition(state domain.CartState, cmd Command) (domain.CartState, bool) {
	switch c := cmd.(type) {
	case Add:
		return add(state, c)
	case Remove:
		return remove(state, c)
	case UpdateQuantity:
		return updateQuantity(state, c)
	case Clear:
		return domain.EmptyCart(), true
	default:
		return state, false
	}
}

func add(state domain.CartState, c Add) (domain.CartState, bool) {
	if c.Quantity < 1 {
		return state, false
	}

	items := cloneItems(state.Items, 1)
	var price float64
	if i := state.Find(c.Item.ID); i >= 0 {
		// The snapshot taken on first add wins over the product's current data.
		items[i].Quantity += c.Quantity
		price = items[i].Price
	} else {
		items = append(items, domain.LineItemFromProduct(c.Item, c.Quantity))
		price = c.Item.Price
	}

	return settle(items,
		state.TotalItems+c.Quantity,
		state.TotalPrice+price*float64(c.Quantity),
	), true
}

func remove(state domain.CartState, c Remove) (domain.CartState, bool) {
	i := state.Find(c.ID)
	if i < 0 {
		return state, false
	}

	gone := state.Items[i]
	items := make([]domain.LineItem, 0, len(state.Items)-1)
	items = append(items, state.Items[:i]...)
	items = append(items, state.Items[i+1:]...)

	return settle(items,
		state.TotalItems-gone.Quantity,
		state.TotalPrice-gone.Subtotal(),
	), true
}

func updateQuantity(state domain.CartState, c UpdateQuantity) (domain.CartState, bool) {
	i := state.Find(c.ID)
	if i < 0 || c.Quantity < 1 {
		return state, false
	}

	old := state.Items[i]
	if old.Quantity == c.Quantity {
		return state, false
	}

	items := cloneItems(state.Items, 0)
	items[i].Quantity = c.Quantity
	delta := c.Quantity - old.Quantity

	return settle(items,
		state.TotalItems+delta,
		state.TotalPrice+float64(delta)*old.Price,
	), true
}

// settle builds the next snapshot. An empty cart gets exact zero totals so
// float residue from repeated add/remove never survives a full removal.
func settle(items []domain.LineItem, totalItems int, totalPrice float64) domain.CartState {
	if len(items) == 0 {
		return domain.EmptyCart()
	}
	return domain.CartState{Items: items, TotalItems: totalItems, TotalPrice: totalPrice}
}

func cloneItems(items []domain.LineItem, extra int) []domain.LineItem {
	out := make([]domain.LineItem, len(items), len(items)+extra)
	copy(out, items)
	return out
}
