package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
)

// Gateway errors. Adapters wrap one of these so the application layer can
// classify failures without knowing the transport.
var (
	ErrBackendUnavailable = errors.New("order backend unavailable")
	ErrBackendRejected    = errors.New("order backend rejected the request")
	ErrOrderNotFound      = errors.New("order not found")
	ErrLookupUnavailable  = errors.New("address lookup unavailable")
	ErrInvalidResponse    = errors.New("invalid response from backend")
)

// BackendError carries the HTTP status and the human-readable message the
// backend returned, if any.
type BackendError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v (status %d): %s", e.Err, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v (status %d)", e.Err, e.StatusCode)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// BackendMessage returns the backend's message from err's chain, or ""
func BackendMessage(err error) string {
	var be *BackendError
	if errors.As(err, &be) {
		return be.Message
	}
	return ""
}

// AddressLookup resolves a postal code to an address and optional shipping quote
type AddressLookup interface {
	Resolve(ctx context.Context, postalCode valueobject.PostalCode, withShipping bool) (*AddressResolution, error)
}

// OrderGateway is the order backend
type OrderGateway interface {
	CreateOrder(ctx context.Context, order Order) (*OrderRecord, error)
	ListOrders(ctx context.Context) ([]OrderRecord, error)
	GetOrder(ctx context.Context, id valueobject.ExternalID) (*OrderRecord, error)
	UpdateOrder(ctx context.Context, id valueobject.ExternalID, patch OrderPatch) (*OrderRecord, error)
	DeleteOrder(ctx context.Context, id valueobject.ExternalID) error
}

// CartClearer takes the submitted lines out of the cart after a successful
// submission
type CartClearer interface {
	ClearSubmitted(ctx context.Context, items []cart.LineItem)
}
