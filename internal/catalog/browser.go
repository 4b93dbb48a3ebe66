package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/storefront/internal/domain"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/pagination"
)

// LoadErrorMessage is shown to the shopper when a catalog fetch fails.
const LoadErrorMessage = "Failed to load products. Please try again later."

// ProductLoadErrorMessage is shown when a single product cannot be loaded,
// whatever the cause.
const ProductLoadErrorMessage = "Failed to load product. Please try again later."

// Status is the load state of a browse session.
type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

// View is what a browse session renders.
type View struct {
	Status         Status
	Err            string
	Category       string
	PriceRange     PriceRange
	Sort           SortOption
	Result         pagination.Result[domain.Product]
	Pages          []int
	ShowPagination bool
}

// Browser is the state of one shopper browsing the catalog. Changing the
// category fetches from the source; price range and sort are applied to the
// last fetched products. When fetches overlap only the latest one is
// applied.
type Browser struct {
	src    Source
	logger *slog.Logger

	mu         sync.Mutex
	category   string
	priceRange PriceRange
	sort       SortOption
	page       int
	products   []domain.Product
	status     Status
	gen        uint64
	inflight   int
	cancel     context.CancelFunc
	changed    chan struct{}
}

// NewBrowser returns a session with no category, the default price range
// and no sort. Nothing is fetched until Load or SetCategory.
func NewBrowser(src Source, l *slog.Logger) *Browser {
	if l == nil {
		l = logger.Discard()
	}
	return &Browser{
		src:        src,
		logger:     l,
		priceRange: DefaultPriceRange,
		page:       1,
		status:     StatusLoading,
		changed:    make(chan struct{}),
	}
}

// Load fetches products for the current category.
func (b *Browser) Load(ctx context.Context) {
	b.mu.Lock()
	category := b.category
	b.mu.Unlock()
	b.SetCategory(ctx, category)
}

// SetCategory switches category, resets to page 1 and starts a fetch. Any
// fetch still in flight is cancelled and its result ignored.
func (b *Browser) SetCategory(ctx context.Context, category string) {
	fetchCtx, cancel := context.WithCancel(ctx)

	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.gen++
	gen := b.gen
	b.category = category
	b.page = 1
	b.status = StatusLoading
	b.products = nil
	b.cancel = cancel
	b.inflight++
	b.notifyLocked()
	b.mu.Unlock()

	go b.fetch(fetchCtx, cancel, gen, category)
}

func (b *Browser) fetch(ctx context.Context, cancel context.CancelFunc, gen uint64, category string) {
	defer cancel()

	start := time.Now()
	products, err := Fetch(ctx, b.src, category)
	elapsed := time.Since(start).Seconds()

	b.mu.Lock()
	defer b.mu.Unlock()
	defer b.notifyLocked()
	b.inflight--

	if gen != b.gen {
		FetchDuration.WithLabelValues("stale").Observe(elapsed)
		b.logger.Debug("dropping stale catalog fetch",
			slog.String("category", category),
			slog.Uint64("generation", gen),
			slog.Uint64("latest", b.gen),
		)
		return
	}
	b.cancel = nil

	if err != nil {
		FetchDuration.WithLabelValues("error").Observe(elapsed)
		b.logger.Error("failed to fetch products",
			slog.String("category", category),
			slog.String("error", err.Error()),
		)
		b.status = StatusError
		b.products = nil
		return
	}

	FetchDuration.WithLabelValues("ok").Observe(elapsed)
	b.products = products
	b.status = StatusReady
	b.page = 1
}

// SetPriceRange narrows the listing without refetching and resets to page 1.
func (b *Browser) SetPriceRange(r PriceRange) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.priceRange = r
	b.page = 1
}

// SetSort reorders the listing without refetching and resets to page 1.
func (b *Browser) SetSort(o SortOption) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sort = o
	b.page = 1
}

// SetPage moves to page n. Out-of-range pages render empty.
func (b *Browser) SetPage(n int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.page = n
}

// View computes what to render for the current state.
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := View{
		Status:     b.status,
		Category:   b.category,
		PriceRange: b.priceRange,
		Sort:       b.sort,
	}

	if b.status != StatusReady {
		if b.status == StatusError {
			v.Err = LoadErrorMessage
		}
		v.Result = pagination.NewResult[domain.Product](nil, 0, pagination.NewParams(b.page, PageSize))
		v.Pages = []int{}
		return v
	}

	v.Result = Run(b.products, Query{PriceRange: b.priceRange, Sort: b.sort, Page: b.page})
	v.Pages = pagination.Window(v.Result.Page, v.Result.TotalPages)
	v.ShowPagination = pagination.ShowPagination(v.Result.TotalCount, PageSize)
	return v
}

// Wait blocks until no fetch is in flight or ctx is done.
func (b *Browser) Wait(ctx context.Context) error {
	for {
		b.mu.Lock()
		if b.inflight == 0 {
			b.mu.Unlock()
			return nil
		}
		ch := b.changed
		b.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close cancels the fetch in flight, if any, and waits for it to return.
func (b *Browser) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.cancel != nil {
		b.cancel()
	}
	b.mu.Unlock()
	return b.Wait(ctx)
}

func (b *Browser) notifyLocked() {
	close(b.changed)
	b.changed = make(chan struct{})
}
