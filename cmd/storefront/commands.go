package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
)

func (c *cli) productsCmd() *cobra.Command {
	var (
		category string
		minPrice float64
		maxPrice float64
		sortBy   string
		page     int
	)

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products with optional category, price and sort filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sortOpt, err := catalog.ParseSort(sortBy)
			if err != nil {
				return err
			}
			if minPrice < 0 || maxPrice < minPrice {
				return fmt.Errorf("invalid price range %.2f - %.2f", minPrice, maxPrice)
			}

			products, err := catalog.Fetch(cmd.Context(), c.src, category)
			if err != nil {
				c.logger.ErrorContext(cmd.Context(), "failed to load products", slog.String("error", err.Error()))
				return errors.New(catalog.LoadErrorMessage)
			}

			q := catalog.Query{
				PriceRange: catalog.PriceRange{Min: minPrice, Max: maxPrice},
				Sort:       sortOpt,
				Page:       page,
			}
			renderListing(cmd.OutOrStdout(), category, q, catalog.Run(products, q))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Category name (all products when empty)")
	cmd.Flags().Float64Var(&minPrice, "min", catalog.DefaultPriceRange.Min, "Minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max", catalog.DefaultPriceRange.Max, "Maximum price")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort order (price-asc, price-desc, name-asc, popularity)")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func (c *cli) productCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePositive("product id", args[0])
			if err != nil {
				return err
			}
			p, err := c.lookup(cmd.Context(), id)
			if err != nil {
				return err
			}
			renderProduct(cmd.OutOrStdout(), *p)
			return nil
		},
	}
}

func (c *cli) categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cats, err := c.src.ListCategories(cmd.Context())
			if err != nil {
				c.logger.ErrorContext(cmd.Context(), "failed to load categories", slog.String("error", err.Error()))
				return errors.New("failed to load categories")
			}
			renderCategories(cmd.OutOrStdout(), cats)
			return nil
		},
	}
}

func (c *cli) cartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the local cart",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the cart",
			Args:  cobra.NoArgs,
			RunE: c.withCart(func(cmd *cobra.Command, store *cart.Store, _ []string) (domain.CartState, error) {
				return store.State(), nil
			}),
		},
		&cobra.Command{
			Use:   "add <id> [qty]",
			Short: "Add a product to the cart",
			Args:  cobra.RangeArgs(1, 2),
			RunE: c.withCart(func(cmd *cobra.Command, store *cart.Store, args []string) (domain.CartState, error) {
				id, err := parsePositive("product id", args[0])
				if err != nil {
					return domain.CartState{}, err
				}
				qty := 1
				if len(args) == 2 {
					if qty, err = parsePositive("quantity", args[1]); err != nil {
						return domain.CartState{}, err
					}
				}
				p, err := c.lookup(cmd.Context(), id)
				if err != nil {
					return domain.CartState{}, err
				}
				return store.AddItem(cmd.Context(), *p, qty), nil
			}),
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Remove a product from the cart",
			Args:  cobra.ExactArgs(1),
			RunE: c.withCart(func(cmd *cobra.Command, store *cart.Store, args []string) (domain.CartState, error) {
				id, err := parsePositive("product id", args[0])
				if err != nil {
					return domain.CartState{}, err
				}
				return store.RemoveItem(cmd.Context(), id), nil
			}),
		},
		&cobra.Command{
			Use:   "update <id> <qty>",
			Short: "Set the quantity of a cart line",
			Args:  cobra.ExactArgs(2),
			RunE: c.withCart(func(cmd *cobra.Command, store *cart.Store, args []string) (domain.CartState, error) {
				id, err := parsePositive("product id", args[0])
				if err != nil {
					return domain.CartState{}, err
				}
				qty, err := parsePositive("quantity", args[1])
				if err != nil {
					return domain.CartState{}, err
				}
				return store.UpdateQuantity(cmd.Context(), id, qty), nil
			}),
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: c.withCart(func(cmd *cobra.Command, store *cart.Store, _ []string) (domain.CartState, error) {
				return store.ClearCart(cmd.Context()), nil
			}),
		},
	)
	return cmd
}

type cartAction func(cmd *cobra.Command, store *cart.Store, args []string) (domain.CartState, error)

// withCart opens the stored cart, runs fn and prints the resulting cart.
func (c *cli) withCart(fn cartAction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := c.openCart(cmd.Context())
		if err != nil {
			return err
		}
		state, err := fn(cmd, store, args)
		if err != nil {
			return err
		}
		renderCart(cmd.OutOrStdout(), state)
		return nil
	}
}

// lookup fetches one product. Every failure, not-found included, reaches the
// user as the same generic message; the cause is logged.
func (c *cli) lookup(ctx context.Context, id int) (*domain.Product, error) {
	p, err := c.src.GetProduct(ctx, id)
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to load product",
			slog.Int("product_id", id),
			slog.Bool("not_found", errors.Is(err, apperrors.ErrNotFound)),
			slog.String("error", err.Error()),
		)
		return nil, errors.New(catalog.ProductLoadErrorMessage)
	}
	return p, nil
}

func parsePositive(name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return n, nil
}
