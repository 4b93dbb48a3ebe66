package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/storefront/internal/domain"
)

func priced(prices ...float64) []domain.Product {
	out := make([]domain.Product, len(prices))
	for i, p := range prices {
		out[i] = domain.Product{ID: i + 1, Title: fmt.Sprintf("Product %d", i+1), Price: p}
	}
	return out
}

func prices(ps []domain.Product) []float64 {
	out := make([]float64, len(ps))
	for i, p := range ps {
		out[i] = p.Price
	}
	return out
}

func ids(ps []domain.Product) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func TestRun_PriceFilterIsInclusiveForEverySort(t *testing.T) {
	products := priced(5, 15, 25, 35)

	for _, o := range SortOptions {
		t.Run(string(o), func(t *testing.T) {
			got := Run(products, Query{PriceRange: PriceRange{Min: 10, Max: 30}, Sort: o, Page: 1})
			assert.ElementsMatch(t, []float64{15, 25}, prices(got.Data))
			assert.Equal(t, 2, got.TotalCount)
		})
	}

	got := Run(products, Query{PriceRange: PriceRange{Min: 15, Max: 25}, Page: 1})
	assert.Equal(t, []float64{15, 25}, prices(got.Data))
}

func TestRun_SortOrders(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Title: "banana", Price: 20, Rating: &domain.Rating{Rate: 3.9}},
		{ID: 2, Title: "Apple", Price: 10},
		{ID: 3, Title: "cherry", Price: 30, Rating: &domain.Rating{Rate: 4.7}},
	}
	all := PriceRange{Min: 0, Max: 1000}

	tests := []struct {
		sort SortOption
		want []int
	}{
		{SortNone, []int{1, 2, 3}},
		{SortPriceAsc, []int{2, 1, 3}},
		{SortPriceDesc, []int{3, 1, 2}},
		{SortNameAsc, []int{2, 1, 3}},
		{SortPopularity, []int{3, 1, 2}},
	}

	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			got := Run(products, Query{PriceRange: all, Sort: tt.sort, Page: 1})
			assert.Equal(t, tt.want, ids(got.Data))
		})
	}
}

func TestRun_SortIsStable(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Title: "b", Price: 10},
		{ID: 2, Title: "a", Price: 5},
		{ID: 3, Title: "c", Price: 10},
		{ID: 4, Title: "d", Price: 10},
	}
	all := PriceRange{Min: 0, Max: 100}

	got := Run(products, Query{PriceRange: all, Sort: SortPriceAsc, Page: 1})
	assert.Equal(t, []int{2, 1, 3, 4}, ids(got.Data))

	got = Run(products, Query{PriceRange: all, Sort: SortPriceDesc, Page: 1})
	assert.Equal(t, []int{1, 3, 4, 2}, ids(got.Data))

	got = Run(products, Query{PriceRange: all, Sort: SortPopularity, Page: 1})
	assert.Equal(t, []int{1, 2, 3, 4}, ids(got.Data))
}

func TestRun_NameSortIsLocaleAware(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Title: "zebra"},
		{ID: 2, Title: "Éclair"},
		{ID: 3, Title: "apple"},
		{ID: 4, Title: "Banana"},
	}

	got := Run(products, Query{PriceRange: DefaultPriceRange, Sort: SortNameAsc, Page: 1})
	assert.Equal(t, []int{3, 4, 2, 1}, ids(got.Data))
}

func TestRun_Pagination(t *testing.T) {
	products := make([]domain.Product, 23)
	for i := range products {
		products[i] = domain.Product{ID: i + 1, Price: float64(i)}
	}
	q := Query{PriceRange: DefaultPriceRange}

	q.Page = 1
	first := Run(products, q)
	assert.Equal(t, 3, first.TotalPages)
	assert.Len(t, first.Data, 10)
	assert.Equal(t, 1, first.First)
	assert.Equal(t, 10, first.Last)

	q.Page = 3
	last := Run(products, q)
	require.Len(t, last.Data, 3)
	assert.Equal(t, []int{21, 22, 23}, ids(last.Data))
	assert.Equal(t, 21, last.First)
	assert.Equal(t, 23, last.Last)

	q.Page = 4
	past := Run(products, q)
	assert.Empty(t, past.Data)
	assert.NotNil(t, past.Data)
	assert.Equal(t, 4, past.Page)
	assert.Equal(t, 3, past.TotalPages)
}

func TestRun_Empty(t *testing.T) {
	got := Run(nil, Query{PriceRange: DefaultPriceRange, Page: 1})
	assert.Empty(t, got.Data)
	assert.Equal(t, 0, got.TotalPages)
	assert.Equal(t, 0, got.First)
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	products := priced(30, 10, 20)
	snapshot := append([]domain.Product(nil), products...)

	a := Run(products, Query{PriceRange: DefaultPriceRange, Sort: SortPriceAsc, Page: 1})
	b := Run(products, Query{PriceRange: DefaultPriceRange, Sort: SortPriceAsc, Page: 1})

	assert.Equal(t, snapshot, products)
	assert.Equal(t, a, b)
}

func TestParseSort(t *testing.T) {
	for _, o := range SortOptions {
		got, err := ParseSort(string(o))
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}

	_, err := ParseSort("cheapest")
	assert.Error(t, err)
}

func TestSortOption_Label(t *testing.T) {
	assert.Equal(t, "Featured", SortNone.Label())
	assert.Equal(t, "Price: Low to High", SortPriceAsc.Label())
	assert.Equal(t, "Most Popular", SortPopularity.Label())
}

func TestPriceRange_Contains(t *testing.T) {
	r := PriceRange{Min: 10, Max: 30}
	assert.True(t, r.Contains(10))
	assert.True(t, r.Contains(30))
	assert.False(t, r.Contains(9.99))
	assert.False(t, r.Contains(30.01))
}
