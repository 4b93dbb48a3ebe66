package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/storefront/internal/catalog"
	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httputil"
	"github.com/utafrali/storefront/pkg/pagination"
	"github.com/utafrali/storefront/pkg/slug"
	"github.com/utafrali/storefront/pkg/validator"
)

// CatalogHandler serves product listings, product details and categories.
type CatalogHandler struct {
	source catalog.Source
	logger *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(src catalog.Source, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{source: src, logger: logger}
}

// --- Request/response DTOs ---

// ListProductsQuery holds the parsed query string of a product listing.
type ListProductsQuery struct {
	Category string  `json:"category"`
	MinPrice float64 `json:"min_price" validate:"gte=0"`
	MaxPrice float64 `json:"max_price" validate:"gtefield=MinPrice"`
	Sort     string  `json:"sort" validate:"omitempty,oneof=price-asc price-desc name-asc popularity"`
}

// ProductListResponse is one page of the filtered, sorted listing.
type ProductListResponse struct {
	pagination.Result[domain.Product]
	Category       string             `json:"category"`
	PriceRange     catalog.PriceRange `json:"price_range"`
	Sort           catalog.SortOption `json:"sort"`
	Pages          []int              `json:"pages"`
	ShowPagination bool               `json:"show_pagination"`
}

// ProductDetailResponse is a product plus its compare-at price.
type ProductDetailResponse struct {
	domain.Product
	CompareAtPrice float64 `json:"compare_at_price"`
}

// CategoryResponse names a category and its URL slug.
type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, ok := parseListQuery(w, r)
	if !ok {
		return
	}
	if err := validator.Validate(q); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	category, err := h.resolveCategory(r, q.Category)
	if err != nil {
		httputil.WriteError(w, r, apperrors.CatalogUnavailable("failed to load products", err), h.logger)
		return
	}

	products, err := catalog.Fetch(r.Context(), h.source, category)
	if err != nil {
		httputil.WriteError(w, r, apperrors.CatalogUnavailable("failed to load products", err), h.logger)
		return
	}

	params := pagination.FromRequest(r, catalog.PageSize)
	query := catalog.Query{
		PriceRange: catalog.PriceRange{Min: q.MinPrice, Max: q.MaxPrice},
		Sort:       catalog.SortOption(q.Sort),
		Page:       params.Page,
	}
	result := catalog.Run(products, query)

	httputil.WriteData(w, http.StatusOK, ProductListResponse{
		Result:         result,
		Category:       category,
		PriceRange:     query.PriceRange,
		Sort:           query.Sort,
		Pages:          pagination.Window(result.Page, result.TotalPages),
		ShowPagination: pagination.ShowPagination(result.TotalCount, catalog.PageSize),
	})
}

// GetProduct handles GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	p, err := h.source.GetProduct(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, apperrors.CatalogUnavailable("failed to load product", err), h.logger)
		return
	}

	httputil.WriteData(w, http.StatusOK, ProductDetailResponse{
		Product:        *p,
		CompareAtPrice: p.CompareAtPrice(),
	})
}

// ListCategories handles GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	names, err := h.source.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, r, apperrors.CatalogUnavailable("failed to load categories", err), h.logger)
		return
	}

	out := make([]CategoryResponse, len(names))
	for i, n := range names {
		out[i] = CategoryResponse{Name: n, Slug: slug.Generate(n)}
	}
	httputil.WriteData(w, http.StatusOK, out)
}

// resolveCategory maps a category slug to its name. Names and unknown
// values pass through unchanged.
func (h *CatalogHandler) resolveCategory(r *http.Request, c string) (string, error) {
	if c == "" || strings.ContainsAny(c, " '") {
		return c, nil
	}

	names, err := h.source.ListCategories(r.Context())
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if n == c {
			return n, nil
		}
	}
	for _, n := range names {
		if slug.Generate(n) == c {
			return n, nil
		}
	}
	return c, nil
}

func parseListQuery(w http.ResponseWriter, r *http.Request) (ListProductsQuery, bool) {
	v := r.URL.Query()
	q := ListProductsQuery{
		Category: strings.TrimSpace(v.Get("category")),
		MinPrice: catalog.DefaultPriceRange.Min,
		MaxPrice: catalog.DefaultPriceRange.Max,
		Sort:     v.Get("sort"),
	}

	for name, dst := range map[string]*float64{"min_price": &q.MinPrice, "max_price": &q.MaxPrice} {
		raw := v.Get(name)
		if raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "invalid " + name + ": " + raw},
			})
			return q, false
		}
		*dst = f
	}
	return q, true
}
