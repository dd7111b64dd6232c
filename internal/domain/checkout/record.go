package checkout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle status reported by the order backend
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanConfirm reports whether an order in this status may be confirmed.
// Unknown statuses are treated as pending.
func (s OrderStatus) CanConfirm() bool {
	return s == OrderStatusPending || !s.IsValid()
}

// RecordAddress is the address as echoed back by the backend, which may
// include the resolved street data.
type RecordAddress struct {
	ShippingAddress
	Street       string `json:"street,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
}

// OrderRecord is an order as stored by the backend
type OrderRecord struct {
	ID            valueobject.ExternalID `json:"id"`
	OrderNumber   string                 `json:"order_number,omitempty"`
	Status        OrderStatus            `json:"status"`
	CustomerName  string                 `json:"customer_name"`
	CustomerEmail string                 `json:"customer_email"`
	CustomerPhone string                 `json:"customer_phone"`
	Address       RecordAddress          `json:"address"`
	Items         []cart.LineItem        `json:"items"`
	ShippingCost  decimal.Decimal        `json:"shipping_cost"`
	TotalAmount   decimal.Decimal        `json:"total_amount"`
	CreatedAt     Timestamp              `json:"created_at"`
}

// Total returns the backend total when present, otherwise the sum of the items
func (r OrderRecord) Total() decimal.Decimal {
	if !r.TotalAmount.IsZero() {
		return r.TotalAmount
	}
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// OrderPatch is the body of an order update
type OrderPatch struct {
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	CustomerPhone string      `json:"customer_phone"`
	Status        OrderStatus `json:"status"`
}

// Timestamp accepts the date formats order backends commonly emit
// (RFC 3339, naive ISO 8601, RFC 1123) and writes RFC 3339.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseTimestamp parses s with the first matching layout; naive times are UTC
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t.UTC()}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// MarshalJSON implements json.Marshaler
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
