// Package catalog is the HTTP client for the FakeStore product catalog.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	appcatalog "github.com/Igorseven/Ecommerce-Web/internal/application/catalog"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/logger"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/telemetry"
)

const serviceName = "catalog"

// Client implements appcatalog.CatalogGateway against the FakeStore API
type Client struct {
	config     *Config
	httpClient *http.Client
	metrics    *telemetry.StorefrontMetrics
}

// Option configures a Client
type Option func(*Client)

// WithMetrics records outbound call durations
func WithMetrics(m *telemetry.StorefrontMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a catalog client
func NewClient(config *Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListProducts returns every product
func (c *Client) ListProducts(ctx context.Context) ([]cart.Product, error) {
	var products []cart.Product
	if _, err := c.get(ctx, "list_products", "/products", &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []cart.Product{}
	}
	return products, nil
}

// ListProductsByCategory returns the products of one category
func (c *Client) ListProductsByCategory(ctx context.Context, category string) ([]cart.Product, error) {
	var products []cart.Product
	if _, err := c.get(ctx, "list_products_by_category", "/products/category/"+url.PathEscape(category), &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []cart.Product{}
	}
	return products, nil
}

// GetProduct returns one product. FakeStore answers an unknown id with an
// empty 200, which is reported as appcatalog.ErrProductNotFound.
func (c *Client) GetProduct(ctx context.Context, id valueobject.ExternalID) (*cart.Product, error) {
	var product cart.Product
	found, err := c.get(ctx, "get_product", "/products/"+url.PathEscape(id.String()), &product)
	if err != nil {
		return nil, err
	}
	if !found || product.ID.IsZero() {
		return nil, fmt.Errorf("%w: %s", appcatalog.ErrProductNotFound, id)
	}
	return &product, nil
}

// ListCategories returns the category slugs
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if _, err := c.get(ctx, "list_categories", "/products/categories", &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

// get decodes a 2xx JSON body into out. It reports found=false for a 404 or
// an empty/null body; any other failure wraps appcatalog.ErrCatalogUnavailable.
func (c *Client) get(ctx context.Context, operation, path string, out any) (found bool, err error) {
	ctx, span := telemetry.StartClientSpan(ctx, serviceName, operation, http.MethodGet, path)
	start := time.Now()
	defer func() {
		c.metrics.RecordOutbound(ctx, serviceName, operation, time.Since(start))
		telemetry.EndSpan(span, err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("catalog: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", appcatalog.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize))
	if err != nil {
		return false, fmt.Errorf("%w: failed to read response: %v", appcatalog.ErrCatalogUnavailable, err)
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrHTTPStatusCode, resp.StatusCode)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 400:
		return false, fmt.Errorf("%w: status %d", appcatalog.ErrCatalogUnavailable, resp.StatusCode)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		return false, fmt.Errorf("%w: invalid response: %v", appcatalog.ErrCatalogUnavailable, err)
	}
	return true, nil
}

var _ appcatalog.CatalogGateway = (*Client)(nil)
