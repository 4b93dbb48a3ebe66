package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/utafrali/storefront/internal/cart"
	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/pkg/logger"
)

const shellHelp = `Commands:
  list                     show the current page
  category [name]          switch category (no name for all products)
  price <min> <max>        filter by price
  sort [option]            price-asc, price-desc, name-asc, popularity (none to reset)
  page <n> | next | prev   move between pages
  product <id>             show one product
  add <id> [qty]           add a product to the cart
  qty <id> <n>             change a cart quantity
  remove <id>              remove a product from the cart
  clear                    empty the cart
  cart                     show the cart
  reload                   fetch the current category again
  help                     show this help
  quit                     leave the shell`

var errQuit = errors.New("quit")

// shell is one interactive browse session over a catalog browser and the
// local cart.
type shell struct {
	cli     *cli
	browser *catalog.Browser
	cart    *cart.Store
	out     io.Writer
}

func (c *cli) shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Browse the catalog and edit the cart interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logger.WithCorrelationID(cmd.Context(), uuid.NewString())

			store, err := c.openCart(ctx)
			if err != nil {
				return err
			}
			sh := &shell{
				cli:     c,
				browser: catalog.NewBrowser(c.src, c.logger),
				cart:    store,
				out:     cmd.OutOrStdout(),
			}
			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), c.timeout)
				defer cancel()
				_ = sh.browser.Close(closeCtx)
			}()

			logger.WithContext(ctx, c.logger).InfoContext(ctx, "shell started")
			return sh.run(ctx, cmd.InOrStdin())
		},
	}
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	s.browser.Load(ctx)
	s.render(ctx)

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(s.out)
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		err := s.exec(ctx, fields[0], fields[1:])
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, "error:", err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (s *shell) exec(ctx context.Context, name string, args []string) error {
	switch name {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(s.out, shellHelp)
	case "list":
		s.render(ctx)
	case "reload":
		s.browser.Load(ctx)
		s.render(ctx)
	case "category":
		s.browser.SetCategory(ctx, strings.Join(args, " "))
		s.render(ctx)
	case "price":
		return s.setPrice(ctx, args)
	case "sort":
		opt := ""
		if len(args) > 0 && args[0] != "none" {
			opt = args[0]
		}
		o, err := catalog.ParseSort(opt)
		if err != nil {
			return err
		}
		s.browser.SetSort(o)
		s.render(ctx)
	case "page":
		if len(args) != 1 {
			return errors.New("usage: page <n>")
		}
		n, err := parsePositive("page", args[0])
		if err != nil {
			return err
		}
		s.browser.SetPage(n)
		s.render(ctx)
	case "next", "prev":
		return s.step(ctx, name == "next")
	case "product":
		if len(args) != 1 {
			return errors.New("usage: product <id>")
		}
		id, err := parsePositive("product id", args[0])
		if err != nil {
			return err
		}
		p, err := s.cli.lookup(ctx, id)
		if err != nil {
			return err
		}
		renderProduct(s.out, *p)
	case "add":
		return s.add(ctx, args)
	case "qty":
		if len(args) != 2 {
			return errors.New("usage: qty <id> <n>")
		}
		id, err := parsePositive("product id", args[0])
		if err != nil {
			return err
		}
		n, err := parsePositive("quantity", args[1])
		if err != nil {
			return err
		}
		renderCart(s.out, s.cart.UpdateQuantity(ctx, id, n))
	case "remove":
		if len(args) != 1 {
			return errors.New("usage: remove <id>")
		}
		id, err := parsePositive("product id", args[0])
		if err != nil {
			return err
		}
		renderCart(s.out, s.cart.RemoveItem(ctx, id))
	case "clear":
		renderCart(s.out, s.cart.ClearCart(ctx))
	case "cart":
		renderCart(s.out, s.cart.State())
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
	return nil
}

func (s *shell) setPrice(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: price <min> <max>")
	}
	lo, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid min price %q", args[0])
	}
	hi, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid max price %q", args[1])
	}
	if lo < 0 || hi < lo {
		return fmt.Errorf("invalid price range %.2f - %.2f", lo, hi)
	}
	s.browser.SetPriceRange(catalog.PriceRange{Min: lo, Max: hi})
	s.render(ctx)
	return nil
}

func (s *shell) step(ctx context.Context, forward bool) error {
	v := s.browser.View()
	page := v.Result.Page
	if forward {
		page++
	} else {
		page--
	}
	if page < 1 || page > v.Result.TotalPages {
		return errors.New("no more pages")
	}
	s.browser.SetPage(page)
	s.render(ctx)
	return nil
}

func (s *shell) add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errors.New("usage: add <id> [qty]")
	}
	id, err := parsePositive("product id", args[0])
	if err != nil {
		return err
	}
	qty := 1
	if len(args) == 2 {
		if qty, err = parsePositive("quantity", args[1]); err != nil {
			return err
		}
	}
	p, err := s.cli.lookup(ctx, id)
	if err != nil {
		return err
	}
	renderCart(s.out, s.cart.AddItem(ctx, *p, qty))
	return nil
}

// render waits for any fetch in flight, then prints the current view.
func (s *shell) render(ctx context.Context) {
	waitCtx, cancel := context.WithTimeout(ctx, s.cli.timeout)
	defer cancel()
	if err := s.browser.Wait(waitCtx); err != nil {
		s.cli.logger.WarnContext(ctx, "catalog fetch still in flight", slog.String("error", err.Error()))
	}
	renderView(s.out, s.browser.View())
}
