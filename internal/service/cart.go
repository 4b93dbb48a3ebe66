// Package service hosts one cart per browser session.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/internal/event"
	"github.com/utafrali/storefront/internal/storage"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/logger"
)

// MaxQuantityPerItem caps a single request's quantity.
const MaxQuantityPerItem = 99

var errMissingSession = apperrors.InvalidInput("session id is required")

// AddItemInput holds the parameters for adding a product to the cart.
type AddItemInput struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,min=1,max=99"`
}

// UpdateQuantityInput holds the new quantity of a cart line.
type UpdateQuantityInput struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=99"`
}

// CartService applies cart operations to the cart of a session. Each call
// opens the session's cart from storage, applies one command and persists
// the result while holding that session's lock.
type CartService struct {
	storage  storage.Storage
	catalog  catalog.Source
	producer *event.Producer
	logger   *slog.Logger
	locks    *keyLock
}

// NewCartService creates a cart service. producer may be nil to disable
// cart events.
func NewCartService(s storage.Storage, src catalog.Source, producer *event.Producer, l *slog.Logger) *CartService {
	return &CartService{
		storage:  s,
		catalog:  src,
		producer: producer,
		logger:   l,
		locks:    newKeyLock(),
	}
}

// GetCart returns the session's cart, empty if it has none.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (domain.CartState, error) {
	var out domain.CartState
	err := s.withCart(ctx, sessionID, func(st *cart.Store) error {
		out = st.State()
		return nil
	})
	return out, err
}

// AddItem looks the product up in the catalog and adds it to the cart.
func (s *CartService) AddItem(ctx context.Context, sessionID string, input AddItemInput) (domain.CartState, error) {
	if sessionID == "" {
		return domain.CartState{}, errMissingSession
	}
	if input.ProductID <= 0 {
		return domain.CartState{}, apperrors.InvalidInput("product id must be positive")
	}
	if err := checkQuantity(input.Quantity); err != nil {
		return domain.CartState{}, err
	}

	product, err := s.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.CartState{}, apperrors.NotFound("product", strconv.Itoa(input.ProductID))
		}
		return domain.CartState{}, apperrors.CatalogUnavailable("failed to load product", err)
	}

	var out domain.CartState
	err = s.withCart(ctx, sessionID, func(st *cart.Store) error {
		out = st.AddItem(ctx, *product, input.Quantity)
		return nil
	})
	if err != nil {
		return domain.CartState{}, err
	}

	s.logger.InfoContext(ctx, "item added to cart",
		slog.Int("product_id", product.ID),
		slog.Int("quantity", input.Quantity),
		slog.Int("total_items", out.TotalItems),
	)
	return out, nil
}

// UpdateQuantity sets the quantity of a line already in the cart.
func (s *CartService) UpdateQuantity(ctx context.Context, sessionID string, productID int, input UpdateQuantityInput) (domain.CartState, error) {
	if err := checkQuantity(input.Quantity); err != nil {
		return domain.CartState{}, err
	}

	var out domain.CartState
	err := s.withCart(ctx, sessionID, func(st *cart.Store) error {
		if _, ok := st.State().Item(productID); !ok {
			return apperrors.NotFound("cart item", strconv.Itoa(productID))
		}
		out = st.UpdateQuantity(ctx, productID, input.Quantity)
		return nil
	})
	return out, err
}

// RemoveItem drops a line from the cart.
func (s *CartService) RemoveItem(ctx context.Context, sessionID string, productID int) (domain.CartState, error) {
	var out domain.CartState
	err := s.withCart(ctx, sessionID, func(st *cart.Store) error {
		if _, ok := st.State().Item(productID); !ok {
			return apperrors.NotFound("cart item", strconv.Itoa(productID))
		}
		out = st.RemoveItem(ctx, productID)
		return nil
	})
	if err != nil {
		return domain.CartState{}, err
	}

	s.logger.InfoContext(ctx, "item removed from cart", slog.Int("product_id", productID))
	return out, nil
}

// ClearCart empties the session's cart.
func (s *CartService) ClearCart(ctx context.Context, sessionID string) (domain.CartState, error) {
	var out domain.CartState
	err := s.withCart(ctx, sessionID, func(st *cart.Store) error {
		out = st.ClearCart(ctx)
		return nil
	})
	return out, err
}

func (s *CartService) withCart(ctx context.Context, sessionID string, fn func(*cart.Store) error) error {
	if sessionID == "" {
		return errMissingSession
	}

	unlock := s.locks.Lock(sessionID)
	defer unlock()

	var opts []cart.Option
	if s.producer != nil {
		opts = append(opts, cart.WithObserver(s.producer.Observer(sessionID)))
	}

	l := logger.WithContext(ctx, s.logger)
	st, err := cart.Open(ctx, storage.Prefixed(s.storage, sessionID), l, opts...)
	if err != nil {
		return apperrors.Wrap(err, "open cart")
	}
	return fn(st)
}

func checkQuantity(q int) error {
	if q < 1 {
		return apperrors.InvalidInput("quantity must be at least 1")
	}
	if q > MaxQuantityPerItem {
		return apperrors.InvalidInput(fmt.Sprintf("quantity must not exceed %d", MaxQuantityPerItem))
	}
	return nil
}
