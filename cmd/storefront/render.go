package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/slug"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func renderListing(w io.Writer, category string, q catalog.Query, res pagination.Result[domain.Product]) {
	if category == "" {
		category = "all"
	}
	fmt.Fprintf(w, "Category: %s | Price: $%.2f - $%.2f | Sort: %s\n",
		category, q.PriceRange.Min, q.PriceRange.Max, q.Sort.Label())

	if res.TotalCount == 0 {
		fmt.Fprintln(w, "No products found.")
		return
	}
	if len(res.Data) == 0 {
		fmt.Fprintf(w, "Page %d is empty (%d pages).\n", res.Page, res.TotalPages)
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tRATING")
	for _, p := range res.Data {
		fmt.Fprintf(tw, "%d\t%s\t$%.2f\t%.1f\n", p.ID, p.Title, p.Price, p.Rate())
	}
	_ = tw.Flush()

	fmt.Fprintf(w, "Showing %d - %d of %d products\n", res.First, res.Last, res.TotalCount)
	if pagination.ShowPagination(res.TotalCount, catalog.PageSize) {
		fmt.Fprintln(w, "Pages:", pageLine(res.Page, pagination.Window(res.Page, res.TotalPages)))
	}
}

func renderView(w io.Writer, v catalog.View) {
	switch v.Status {
	case catalog.StatusLoading:
		fmt.Fprintln(w, "Loading products...")
	case catalog.StatusError:
		fmt.Fprintln(w, v.Err)
	default:
		q := catalog.Query{PriceRange: v.PriceRange, Sort: v.Sort, Page: v.Result.Page}
		renderListing(w, v.Category, q, v.Result)
	}
}

// pageLine renders a page window with the current page bracketed.
func pageLine(current int, window []int) string {
	parts := make([]string, 0, len(window))
	for _, n := range window {
		switch n {
		case pagination.Ellipsis:
			parts = append(parts, "...")
		case current:
			parts = append(parts, "["+strconv.Itoa(n)+"]")
		default:
			parts = append(parts, strconv.Itoa(n))
		}
	}
	return strings.Join(parts, " ")
}

func renderProduct(w io.Writer, p domain.Product) {
	fmt.Fprintf(w, "%s (#%d)\n", p.Title, p.ID)
	fmt.Fprintf(w, "Price:    $%.2f (was $%.2f)\n", p.Price, p.CompareAtPrice())
	fmt.Fprintf(w, "Category: %s\n", p.Category)
	if p.Rating != nil {
		fmt.Fprintf(w, "Rating:   %.1f (%d reviews)\n", p.Rating.Rate, p.Rating.Count)
	}
	if p.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, p.Description)
	}
}

func renderCategories(w io.Writer, cats []string) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "NAME\tSLUG")
	for _, c := range cats {
		fmt.Fprintf(tw, "%s\t%s\n", c, slug.Generate(c))
	}
	_ = tw.Flush()
}

func renderCart(w io.Writer, state domain.CartState) {
	if state.IsEmpty() {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tQTY\tSUBTOTAL")
	for _, it := range state.Items {
		fmt.Fprintf(tw, "%d\t%s\t$%.2f\t%d\t$%.2f\n", it.ID, it.Title, it.Price, it.Quantity, it.Subtotal())
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Items: %d  Total: $%.2f\n", state.TotalItems, state.TotalPrice)
}
