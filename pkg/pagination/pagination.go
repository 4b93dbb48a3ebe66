package pagination

import (
	"net/http"
	"strconv"
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Offset  int `json:"-"`
}

// DefaultParams returns sensible pagination defaults.
func DefaultParams() Params {
	return Params{
		Page:    1,
		PerPage: 20,
		Offset:  0,
	}
}

// NewParams builds Params for a 1-based page. Pages below 1 are kept as-is so
// that callers can detect and render an out-of-range request.
func NewParams(page, perPage int) Params {
	if perPage <= 0 {
		perPage = DefaultParams().PerPage
	}
	offset := (page - 1) * perPage
	if offset < 0 {
		offset = 0
	}
	return Params{Page: page, PerPage: perPage, Offset: offset}
}

// FromRequest extracts the page from an HTTP request using a fixed page size.
func FromRequest(r *http.Request, perPage int) Params {
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}
	return NewParams(page, perPage)
}

// Result wraps a paginated response.
type Result[T any] struct {
	Data       []T  `json:"data"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
	// First and Last are the 1-based indices of the items shown on this
	// page ("Showing 11 - 20 of 23"). Both are 0 when the page is empty.
	First int `json:"first"`
	Last  int `json:"last"`
}

// NewResult creates a paginated result.
func NewResult[T any](data []T, totalCount int, params Params) Result[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := TotalPages(totalCount, params.PerPage)

	r := Result[T]{
		Data:       data,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
	if len(data) > 0 {
		r.First = params.Offset + 1
		r.Last = params.Offset + len(data)
	}
	return r
}

// Paginate slices items for the requested page. A page past the end yields
// an empty Data slice; the page number is reported back unchanged.
func Paginate[T any](items []T, params Params) Result[T] {
	if params.Page < 1 || params.Offset >= len(items) {
		return NewResult[T](nil, len(items), params)
	}
	end := min(params.Offset+params.PerPage, len(items))

	page := make([]T, end-params.Offset)
	copy(page, items[params.Offset:end])
	return NewResult(page, len(items), params)
}

// TotalPages returns ceil(total/perPage), 0 for an empty set.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// ShowPagination reports whether a set of total items needs page controls.
func ShowPagination(total, perPage int) bool {
	return total > perPage
}

// Ellipsis marks a gap in a Window.
const Ellipsis = 0

// Window returns the page buttons to render around current, with Ellipsis
// standing in for collapsed ranges. Up to seven pages are listed in full.
func Window(current, total int) []int {
	if total <= 0 {
		return []int{}
	}
	if total <= 7 {
		return seq(1, total)
	}

	switch {
	case current <= 3:
		return append(seq(1, 5), Ellipsis, total)
	case current >= total-2:
		return append([]int{1, Ellipsis}, seq(total-4, total)...)
	default:
		return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, total}
	}
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}
