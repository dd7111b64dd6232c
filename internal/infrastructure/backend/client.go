// Package backend is the HTTP client for the order and shipping backend:
// order CRUD under /api/orders and postal code lookup under /api/cep.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/checkout"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/logger"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/telemetry"
	"github.com/google/uuid"
)

const serviceName = "order-backend"

// Client implements checkout.OrderGateway and checkout.AddressLookup
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

// NewClient creates a new backend client with the given configuration
func NewClient(config *Config, opts ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Address lookup
// ---------------------------------------------------------------------------

// Resolve looks up a postal code. An unknown code (HTTP 404, erro:true or
// found:false) yields a NotFound resolution, not an error.
func (c *Client) Resolve(ctx context.Context, postalCode valueobject.PostalCode, withShipping bool) (*checkout.AddressResolution, error) {
	path := "/api/cep/" + url.PathEscape(postalCode.String())
	query := url.Values{}
	if withShipping {
		query.Set("calculate_shipping", "true")
	}

	var resp CepResponse
	err := c.do(ctx, "resolve_postal_code", http.MethodGet, path, query, nil, nil, &resp)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return checkout.NotFound(), nil
		}
		return nil, fmt.Errorf("%w: %w", checkout.ErrLookupUnavailable, err)
	}
	if resp.notFound() {
		return checkout.NotFound(), nil
	}

	res := &checkout.AddressResolution{
		Found: true,
		Address: &checkout.ResolvedAddress{
			PostalCode:   valueobject.DigitsOnly(resp.Cep),
			Street:       resp.Street,
			Neighborhood: resp.Neighborhood,
			City:         resp.City,
			State:        resp.State,
			Complement:   resp.Complement,
		},
	}
	if res.Address.PostalCode == "" {
		res.Address.PostalCode = postalCode.String()
	}
	if resp.Shipping != nil {
		res.Shipping = &checkout.ShippingQuote{
			Cost:          resp.Shipping.FinalCost,
			Free:          resp.Shipping.FreeShipping,
			Message:       resp.Shipping.Message,
			EstimatedDays: resp.EstimatedDeliveryDays,
		}
	}
	return res, nil
}

// ---------------------------------------------------------------------------
// Orders
// ---------------------------------------------------------------------------

// CreateOrder posts a new order. Each call carries a fresh Idempotency-Key.
// A 2xx answer without a body is an accepted order; the record then echoes
// what was sent, with no id.
func (c *Client) CreateOrder(ctx context.Context, order checkout.Order) (*checkout.OrderRecord, error) {
	headers := http.Header{}
	headers.Set("Idempotency-Key", uuid.NewString())

	var raw json.RawMessage
	if err := c.do(ctx, "create_order", http.MethodPost, "/api/orders", nil, newOrderRequest(order), headers, &raw); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &checkout.OrderRecord{
			Status:        checkout.OrderStatusPending,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			CustomerPhone: order.CustomerPhone,
			Address:       checkout.RecordAddress{ShippingAddress: order.Address},
			Items:         order.Items,
		}, nil
	}
	return decodeOrder(raw)
}

// ListOrders returns all orders in backend order
func (c *Client) ListOrders(ctx context.Context) ([]checkout.OrderRecord, error) {
	var resp OrderListResponse
	if err := c.do(ctx, "list_orders", http.MethodGet, "/api/orders", nil, nil, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Orders == nil {
		resp.Orders = []checkout.OrderRecord{}
	}
	return resp.Orders, nil
}

// GetOrder returns one order
func (c *Client) GetOrder(ctx context.Context, id valueobject.ExternalID) (*checkout.OrderRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "get_order", http.MethodGet, orderPath(id), nil, nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeOrder(raw)
}

// UpdateOrder sends a patch with PUT
func (c *Client) UpdateOrder(ctx context.Context, id valueobject.ExternalID, patch checkout.OrderPatch) (*checkout.OrderRecord, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "update_order", http.MethodPut, orderPath(id), nil, patch, nil, &raw); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &checkout.OrderRecord{
			ID:            id,
			Status:        patch.Status,
			CustomerName:  patch.CustomerName,
			CustomerEmail: patch.CustomerEmail,
			CustomerPhone: patch.CustomerPhone,
		}, nil
	}
	return decodeOrder(raw)
}

// DeleteOrder removes an order
func (c *Client) DeleteOrder(ctx context.Context, id valueobject.ExternalID) error {
	return c.do(ctx, "delete_order", http.MethodDelete, orderPath(id), nil, nil, nil, nil)
}

func orderPath(id valueobject.ExternalID) string {
	return "/api/orders/" + url.PathEscape(id.String())
}

// decodeOrder accepts {"order": {...}} or a bare order object
func decodeOrder(raw json.RawMessage) (*checkout.OrderRecord, error) {
	var env OrderEnvelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Order != nil {
		return env.Order, nil
	}
	var record checkout.OrderRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: failed to parse order: %v", checkout.ErrInvalidResponse, err)
	}
	return &record, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// do sends a JSON request and decodes a 2xx body into out (when non-nil).
// Non-2xx responses become a *checkout.BackendError carrying the body message.
func (c *Client) do(
	ctx context.Context,
	operation, method, path string,
	query url.Values,
	body any,
	headers http.Header,
	out any,
) (err error) {
	ctx, span := telemetry.StartClientSpan(ctx, serviceName, operation, method, path)
	start := time.Now()
	defer func() {
		c.metrics.RecordOutbound(ctx, serviceName, operation, time.Since(start))
		telemetry.EndSpan(span, err)
	}()

	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("backend: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", checkout.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", checkout.ErrBackendUnavailable, err)
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrHTTPStatusCode, resp.StatusCode)

	if resp.StatusCode >= 400 {
		return newBackendError(resp.StatusCode, respBody)
	}

	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], respBody...)
		return nil
	}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return fmt.Errorf("%w: empty response body", checkout.ErrInvalidResponse)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: %v", checkout.ErrInvalidResponse, err)
	}
	return nil
}

func newBackendError(status int, body []byte) *checkout.BackendError {
	var er ErrorResponse
	_ = json.Unmarshal(body, &er)
	message := strings.TrimSpace(er.Message)
	if message == "" {
		message = strings.TrimSpace(er.Error)
	}

	sentinel := checkout.ErrBackendRejected
	switch {
	case status == http.StatusNotFound:
		sentinel = checkout.ErrOrderNotFound
	case status >= 500:
		sentinel = checkout.ErrBackendUnavailable
	}
	return &checkout.BackendError{StatusCode: status, Message: message, Err: sentinel}
}

func isStatus(err error, status int) bool {
	var be *checkout.BackendError
	return errors.As(err, &be) && be.StatusCode == status
}

var (
	_ checkout.OrderGateway  = (*Client)(nil)
	_ checkout.AddressLookup = (*Client)(nil)
)
