package cart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/utafrali/storefront/internal/domain"
)

// ErrCorruptCart marks a stored cart that cannot be restored.
var ErrCorruptCart = errors.New("corrupt stored cart")

var requiredFields = []string{"items", "total_items", "total_price"}

// Encode serializes state in its storage form.
func Encode(state domain.CartState) (string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("encode cart: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored cart. Every failure wraps ErrCorruptCart: bad JSON,
// a missing top-level field, or a cart that breaks its own totals.
func Decode(raw string) (domain.CartState, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return domain.CartState{}, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	for _, f := range requiredFields {
		if _, ok := fields[f]; !ok {
			return domain.CartState{}, fmt.Errorf("%w: missing field %q", ErrCorruptCart, f)
		}
	}

	var state domain.CartState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return domain.CartState{}, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	if state.Items == nil {
		state.Items = []domain.LineItem{}
	}
	if err := state.Check(); err != nil {
		return domain.CartState{}, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	return state, nil
}
