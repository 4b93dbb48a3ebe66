package cart

import "github.com/utafrali/storefront/internal/domain"

// Command is a cart transition. The concrete types are Add, Remove,
// UpdateQuantity and Clear.
type Command interface {
	// Name is the stable identifier used in logs, metrics and events.
	Name() string
	isCommand()
}

// Add puts Quantity units of Item into the cart.
type Add struct {
	Item     domain.Product
	Quantity int
}

// Remove drops the line with ID.
type Remove struct {
	ID int
}

// UpdateQuantity sets the quantity of the line with ID.
type UpdateQuantity struct {
	ID       int
	Quantity int
}

// Clear empties the cart.
type Clear struct{}

func (Add) Name() string            { return "add_item" }
func (Remove) Name() string         { return "remove_item" }
func (UpdateQuantity) Name() string { return "update_quantity" }
func (Clear) Name() string          { return "clear_cart" }

func (Add) isCommand()            {}
func (Remove) isCommand()         {}
func (UpdateQuantity) isCommand() {}
func (Clear) isCommand()          {}
