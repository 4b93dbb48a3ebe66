package domain

import (
	"fmt"
	"math"
)

// priceTolerance bounds float drift between TotalPrice and the recomputed
// line sum, relative to the larger magnitude.
const priceTolerance = 1e-6

// LineItem is one product in the cart. Title, Price and Image are a snapshot
// taken when the product was first added.
type LineItem struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the line's contribution to the cart total.
func (li LineItem) Subtotal() float64 {
	return li.Price * float64(li.Quantity)
}

// LineItemFromProduct snapshots p into a line item with the given quantity.
func LineItemFromProduct(p Product, quantity int) LineItem {
	return LineItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Image:    p.Image,
		Quantity: quantity,
	}
}

// CartState is an immutable snapshot of the cart with its derived totals.
type CartState struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}

// EmptyCart returns the initial cart state.
func EmptyCart() CartState {
	return CartState{Items: []LineItem{}}
}

// Find returns the index of the line with id, or -1.
func (c CartState) Find(id int) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Item returns the line with id.
func (c CartState) Item(id int) (LineItem, bool) {
	if i := c.Find(id); i >= 0 {
		return c.Items[i], true
	}
	return LineItem{}, false
}

// IsEmpty reports whether the cart has no lines.
func (c CartState) IsEmpty() bool {
	return len(c.Items) == 0
}

// Check reports the first violated cart invariant, or nil.
func (c CartState) Check() error {
	seen := make(map[int]struct{}, len(c.Items))
	qty := 0
	sum := 0.0
	for _, it := range c.Items {
		if _, dup := seen[it.ID]; dup {
			return fmt.Errorf("duplicate line item id %d", it.ID)
		}
		seen[it.ID] = struct{}{}
		if it.Quantity < 1 {
			return fmt.Errorf("line item %d has quantity %d", it.ID, it.Quantity)
		}
		if it.Price < 0 || math.IsNaN(it.Price) || math.IsInf(it.Price, 0) {
			return fmt.Errorf("line item %d has invalid price %v", it.ID, it.Price)
		}
		qty += it.Quantity
		sum += it.Subtotal()
	}

	if c.TotalItems != qty {
		return fmt.Errorf("total_items is %d, lines sum to %d", c.TotalItems, qty)
	}
	if !PricesEqual(c.TotalPrice, sum) {
		return fmt.Errorf("total_price is %v, lines sum to %v", c.TotalPrice, sum)
	}
	return nil
}

// PricesEqual compares two money amounts within the float tolerance used
// for cart totals.
func PricesEqual(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= priceTolerance*scale
}
