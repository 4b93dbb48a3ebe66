// Package catalog filters, sorts and pages product listings and coordinates
// catalog fetches for a browsing session.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/pagination"
)

// PageSize is the number of products shown per page.
const PageSize = 10

// AllProductsLimit is how many products are requested when no category is
// selected.
const AllProductsLimit = 100

// Source is a remote product catalog.
type Source interface {
	ListProducts(ctx context.Context, limit int) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// Fetch lists the products for category, or all products when it is empty.
func Fetch(ctx context.Context, src Source, category string) ([]domain.Product, error) {
	if category == "" {
		return src.ListProducts(ctx, AllProductsLimit)
	}
	return src.ListProductsByCategory(ctx, category)
}

// SortOption orders the filtered products.
type SortOption string

const (
	SortNone       SortOption = ""
	SortPriceAsc   SortOption = "price-asc"
	SortPriceDesc  SortOption = "price-desc"
	SortNameAsc    SortOption = "name-asc"
	SortPopularity SortOption = "popularity"
)

// SortOptions lists every accepted option in display order.
var SortOptions = []SortOption{SortNone, SortPriceAsc, SortPriceDesc, SortNameAsc, SortPopularity}

// ParseSort validates s.
func ParseSort(s string) (SortOption, error) {
	for _, o := range SortOptions {
		if string(o) == s {
			return o, nil
		}
	}
	return SortNone, fmt.Errorf("unknown sort option %q", s)
}

// Label is the human-readable name of the option.
func (o SortOption) Label() string {
	switch o {
	case SortPriceAsc:
		return "Price: Low to High"
	case SortPriceDesc:
		return "Price: High to Low"
	case SortNameAsc:
		return "Name: A to Z"
	case SortPopularity:
		return "Most Popular"
	default:
		return "Featured"
	}
}

// PriceRange is an inclusive price filter.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DefaultPriceRange is the range selected before the shopper narrows it.
var DefaultPriceRange = PriceRange{Min: 0, Max: 1000}

// Contains reports whether price lies within r, bounds included.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

// Query selects one page of a product listing.
type Query struct {
	PriceRange PriceRange
	Sort       SortOption
	Page       int
}

// Run filters products by price, sorts them stably and returns the requested
// page. products is never modified. A page past the end yields no data.
func Run(products []domain.Product, q Query) pagination.Result[domain.Product] {
	filtered := Filter(products, q.PriceRange)
	Sort(filtered, q.Sort)
	return pagination.Paginate(filtered, pagination.NewParams(q.Page, PageSize))
}

// Filter returns a new slice with the products whose price is within r.
func Filter(products []domain.Product, r PriceRange) []domain.Product {
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if r.Contains(p.Price) {
			out = append(out, p)
		}
	}
	return out
}

// Sort orders products in place. Equal elements keep their relative order.
func Sort(products []domain.Product, o SortOption) {
	var less func(a, b domain.Product) bool

	switch o {
	case SortPriceAsc:
		less = func(a, b domain.Product) bool { return a.Price < b.Price }
	case SortPriceDesc:
		less = func(a, b domain.Product) bool { return a.Price > b.Price }
	case SortNameAsc:
		// Collators keep scratch buffers, so each sort gets its own.
		c := collate.New(language.English)
		less = func(a, b domain.Product) bool { return c.CompareString(a.Title, b.Title) < 0 }
	case SortPopularity:
		less = func(a, b domain.Product) bool { return a.Rate() > b.Rate() }
	default:
		return
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}
