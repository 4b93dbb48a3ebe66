package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/source/fakestore"
	"github.com/utafrali/storefront/internal/storage/file"
	"github.com/utafrali/storefront/pkg/logger"
)

const defaultCartDir = "./data/cli-cart"

// cli holds the persistent flags and the dependencies built from them.
type cli struct {
	apiURL   string
	cartDir  string
	logLevel string
	timeout  time.Duration

	logger *slog.Logger
	src    catalog.Source
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the product catalog and manage a local cart",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&c.apiURL, "api-url", fakestore.DefaultBaseURL, "Catalog API base URL")
	root.PersistentFlags().StringVar(&c.cartDir, "cart-dir", defaultCartDir, "Directory holding the cart file")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().DurationVar(&c.timeout, "timeout", 30*time.Second, "Catalog request timeout")

	root.AddCommand(
		c.productsCmd(),
		c.productCmd(),
		c.categoriesCmd(),
		c.cartCmd(),
		c.shellCmd(),
	)
	return root
}

func (c *cli) init(cmd *cobra.Command) error {
	if c.timeout <= 0 {
		return fmt.Errorf("--timeout must be positive")
	}
	c.logger = logger.NewWithWriter("storefront-cli", c.logLevel, cmd.ErrOrStderr())

	cfg := fakestore.DefaultConfig()
	cfg.BaseURL = c.apiURL
	cfg.Timeout = c.timeout
	c.src = fakestore.New(cfg, c.logger)
	return nil
}

// openCart restores the cart from the cart directory.
func (c *cli) openCart(ctx context.Context) (*cart.Store, error) {
	fs, err := file.New(c.cartDir)
	if err != nil {
		return nil, fmt.Errorf("open cart dir: %w", err)
	}
	store, err := cart.Open(ctx, fs, c.logger)
	if err != nil {
		return nil, fmt.Errorf("restore cart: %w", err)
	}
	return store, nil
}
