// Package cart holds the shopping cart state machine and its persistence.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/storage"
	"github.com/utafrali/storefront/pkg/logger"
)

// StorageKey is the key the cart is persisted under.
const StorageKey = "cart"

// Observer is told about every transition that changed the cart.
type Observer func(ctx context.Context, cmd Command, state domain.CartState)

// Option configures a Store.
type Option func(*Store)

// WithObserver registers fn to run after each state-changing transition.
func WithObserver(fn Observer) Option {
	return func(s *Store) {
		if fn != nil {
			s.observers = append(s.observers, fn)
		}
	}
}

// Store owns one cart. Every mutation is applied through Reduce and then
// written to storage before the method returns. Write failures are logged
// and counted but never returned.
type Store struct {
	mu        sync.Mutex
	state     domain.CartState
	storage   storage.Storage
	logger    *slog.Logger
	observers []Observer
}

// Open creates a store and restores the cart persisted in s, if any. A
// stored cart that fails to decode is discarded and the store starts empty.
// Only a failed read from s is returned as an error.
func Open(ctx context.Context, s storage.Storage, l *slog.Logger, opts ...Option) (*Store, error) {
	if l == nil {
		l = logger.Discard()
	}
	st := &Store{
		state:   domain.EmptyCart(),
		storage: s,
		logger:  l,
	}
	for _, opt := range opts {
		opt(st)
	}

	if err := st.restore(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) restore(ctx context.Context) error {
	raw, ok, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrCorrupt) {
		s.discard(ctx, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read stored cart: %w", err)
	}
	if !ok {
		return nil
	}

	state, err := Decode(raw)
	if err != nil {
		s.discard(ctx, err)
		return nil
	}

	s.state = state
	s.persist(ctx, state)
	s.logger.DebugContext(ctx, "cart restored",
		slog.Int("lines", len(state.Items)),
		slog.Int("total_items", state.TotalItems),
	)
	return nil
}

// discard drops an unreadable stored cart so the next restore starts clean.
func (s *Store) discard(ctx context.Context, cause error) {
	RestoreFailuresTotal.Inc()
	s.logger.WarnContext(ctx, "discarding stored cart",
		slog.String("error", cause.Error()),
	)
	if err := s.storage.Remove(ctx, StorageKey); err != nil {
		s.logger.WarnContext(ctx, "failed to remove stored cart",
			slog.String("error", err.Error()),
		)
	}
}

// State returns the current snapshot.
func (s *Store) State() domain.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.state)
}

// AddItem adds quantity units of p. A quantity below 1 changes nothing.
func (s *Store) AddItem(ctx context.Context, p domain.Product, quantity int) domain.CartState {
	return s.Apply(ctx, Add{Item: p, Quantity: quantity})
}

// RemoveItem drops the line with id.
func (s *Store) RemoveItem(ctx context.Context, id int) domain.CartState {
	return s.Apply(ctx, Remove{ID: id})
}

// UpdateQuantity sets the quantity of the line with id. A quantity below 1
// changes nothing.
func (s *Store) UpdateQuantity(ctx context.Context, id, quantity int) domain.CartState {
	return s.Apply(ctx, UpdateQuantity{ID: id, Quantity: quantity})
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) domain.CartState {
	return s.Apply(ctx, Clear{})
}

// Apply runs cmd and persists the result when it changed the cart.
func (s *Store) Apply(ctx context.Context, cmd Command) domain.CartState {
	s.mu.Lock()
	next, changed := transition(s.state, cmd)
	if !changed {
		s.mu.Unlock()
		return snapshot(next)
	}
	s.state = next
	s.persist(ctx, next)
	s.mu.Unlock()

	TransitionsTotal.WithLabelValues(cmd.Name()).Inc()
	for _, fn := range s.observers {
		fn(ctx, cmd, snapshot(next))
	}
	return snapshot(next)
}

func (s *Store) persist(ctx context.Context, state domain.CartState) {
	raw, err := Encode(state)
	if err == nil {
		err = s.storage.Set(ctx, StorageKey, raw)
	}
	if err != nil {
		WriteFailuresTotal.Inc()
		s.logger.ErrorContext(ctx, "failed to persist cart",
			slog.String("error", err.Error()),
		)
	}
}

func snapshot(state domain.CartState) domain.CartState {
	state.Items = append(make([]domain.LineItem, 0, len(state.Items)), state.Items...)
	return state
}
