// Package fakestore reads the catalog from a Fake Store API compatible
// service (https://fakestoreapi.com).
package fakestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/utafrali/storefront/internal/domain"
	apperrors "github.com/utafrali/storefront/pkg/errors"
	"github.com/utafrali/storefront/pkg/httpclient"
	"github.com/utafrali/storefront/pkg/logger"
	"github.com/utafrali/storefront/pkg/tracing"
)

const (
	// DefaultBaseURL is the public Fake Store API.
	DefaultBaseURL = "https://fakestoreapi.com"

	serviceName = "catalog"
	tracerName  = "github.com/utafrali/storefront/internal/source/fakestore"
	maxBody     = 4 << 20
)

// ErrFetch matches every error returned by Client.
var ErrFetch = errors.New("catalog fetch failed")

// FetchError describes a failed catalog call. Status is the HTTP status
// when the service answered, 0 otherwise.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes every FetchError match ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// Config configures Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// DefaultConfig talks to the public API without transport retries.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Timeout:    10 * time.Second,
		MaxRetries: 0,
	}
}

// Client implements catalog.Source over HTTP.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// New builds a client with a retrying transport behind a circuit breaker.
func New(cfg Config, l *slog.Logger) *Client {
	if l == nil {
		l = logger.Discard()
	}

	hc := httpclient.DefaultConfig()
	hc.Timeout = cfg.Timeout
	hc.MaxRetries = cfg.MaxRetries
	hc.RetryWaitMin = 200 * time.Millisecond
	hc.RetryWaitMax = 2 * time.Second

	cb := httpclient.NewCircuitBreakerClient(
		httpclient.New(hc),
		httpclient.DefaultCircuitBreakerConfig(serviceName),
		l,
	)
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    cb,
		logger:  l,
	}
}

// ListProducts returns up to limit products.
func (c *Client) ListProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	var out []domain.Product
	path := "/products?limit=" + strconv.Itoa(limit)
	if err := c.get(ctx, "list products", path, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// ListProductsByCategory returns the products in category.
func (c *Client) ListProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	path := "/products/category/" + url.PathEscape(category)
	if err := c.get(ctx, "list products by category", path, &out); err != nil {
		return nil, err
	}
	return nonNil(out), nil
}

// GetProduct returns one product. The API answers an unknown id with an
// empty 200, which is reported as a FetchError wrapping ErrNotFound.
func (c *Client) GetProduct(ctx context.Context, id int) (*domain.Product, error) {
	const op = "get product"

	var out *domain.Product
	if err := c.get(ctx, op, "/products/"+strconv.Itoa(id), &out); err != nil {
		return nil, err
	}
	if out == nil || out.ID == 0 {
		return nil, &FetchError{Op: op, Status: http.StatusNotFound, Err: apperrors.ErrNotFound}
	}
	return out, nil
}

// ListCategories returns every category name.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var out []string
	if err := c.get(ctx, "list categories", "/products/categories", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, op, path string, dst any) (err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "fakestore."+strings.ReplaceAll(op, " ", "_"),
		attribute.String("catalog.path", path),
	)
	defer func() { tracing.EndSpan(span, err) }()

	resp, err := c.http.Get(ctx, c.baseURL+path)
	if err != nil {
		var se *httpclient.StatusError
		if errors.As(err, &se) {
			return &FetchError{Op: op, Status: se.Status, Err: err}
		}
		return &FetchError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		status := resp.StatusCode
		cause := httpclient.ParseResponseError(resp, serviceName)
		lvl := slog.LevelWarn
		if httpclient.IsClientError(status) {
			lvl = slog.LevelDebug
		}
		c.logger.Log(ctx, lvl, "catalog call failed",
			slog.String("op", op),
			slog.Int("status", status),
		)
		return &FetchError{Op: op, Status: status, Err: cause}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("null")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}

	c.logger.DebugContext(ctx, "catalog call succeeded",
		slog.String("op", op),
		slog.String("path", path),
	)
	return nil
}

func nonNil(ps []domain.Product) []domain.Product {
	if ps == nil {
		return []domain.Product{}
	}
	return ps
}
