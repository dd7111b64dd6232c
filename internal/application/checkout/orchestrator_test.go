package checkout

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	appcart "github.com/Igorseven/Ecommerce-Web/internal/application/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/checkout"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/backend"
	"github.com/Igorseven/Ecommerce-Web/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAddressLookup is a mock implementation of checkout.AddressLookup
type MockAddressLookup struct {
	mock.Mock
}

func (m *MockAddressLookup) Resolve(ctx context.Context, postalCode valueobject.PostalCode, withShipping bool) (*checkout.AddressResolution, error) {
	args := m.Called(ctx, postalCode, withShipping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.AddressResolution), args.Error(1)
}

// MockOrderGateway is a mock implementation of checkout.OrderGateway
type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) CreateOrder(ctx context.Context, order checkout.Order) (*checkout.OrderRecord, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.OrderRecord), args.Error(1)
}

func (m *MockOrderGateway) ListOrders(ctx context.Context) ([]checkout.OrderRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.OrderRecord), args.Error(1)
}

func (m *MockOrderGateway) GetOrder(ctx context.Context, id valueobject.ExternalID) (*checkout.OrderRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.OrderRecord), args.Error(1)
}

func (m *MockOrderGateway) UpdateOrder(ctx context.Context, id valueobject.ExternalID, patch checkout.OrderPatch) (*checkout.OrderRecord, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.OrderRecord), args.Error(1)
}

func (m *MockOrderGateway) DeleteOrder(ctx context.Context, id valueobject.ExternalID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCartClearer is a mock implementation of checkout.CartClearer
type MockCartClearer struct {
	mock.Mock
}

func (m *MockCartClearer) ClearSubmitted(ctx context.Context, items []cart.LineItem) {
	m.Called(ctx, items)
}

type fixture struct {
	lookup  *MockAddressLookup
	gateway *MockOrderGateway
	cart    *MockCartClearer
	o       *Orchestrator
}

func newFixture() *fixture {
	f := &fixture{
		lookup:  new(MockAddressLookup),
		gateway: new(MockOrderGateway),
		cart:    new(MockCartClearer),
	}
	f.o = NewOrchestrator(f.lookup, f.gateway, f.cart)
	return f
}

func found(cost string, free bool) *checkout.AddressResolution {
	return &checkout.AddressResolution{
		Found: true,
		Address: &checkout.ResolvedAddress{
			PostalCode: "01310100",
			Street:     "Avenida Paulista",
			City:       "São Paulo",
			State:      "SP",
		},
		Shipping: &checkout.ShippingQuote{Cost: decimal.RequireFromString(cost), Free: free, EstimatedDays: 5},
	}
}

func snapshot() cart.Snapshot {
	return cart.Snapshot{Items: []cart.LineItem{
		{ProductID: valueobject.NewNumericID(1), ProductName: "Widget", UnitPrice: decimal.RequireFromString("9.99"), Quantity: 2},
	}}
}

func validCustomer() checkout.CustomerInfo {
	return checkout.CustomerInfo{Name: "Ana Souza", Email: "ana@example.com", Phone: "(11) 98765-4321"}
}

func validAddress() checkout.ShippingAddress {
	return checkout.ShippingAddress{PostalCode: "01310-100", Number: "1578"}
}

func TestResolveAddress_Found(t *testing.T) {
	f := newFixture()
	pc, _ := valueobject.ParsePostalCode("01310100")
	f.lookup.On("Resolve", mock.Anything, pc, true).Return(found("15.00", false), nil)

	res, err := f.o.ResolveAddress(context.Background(), "01310100")
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "Avenida Paulista", res.Address.Street)

	summary := f.o.Summarize(snapshot().Items)
	assert.Equal(t, "19.98", summary.Subtotal.StringFixed(2))
	assert.Equal(t, "15.00", summary.Shipping.StringFixed(2))
	assert.Equal(t, "34.98", summary.Total.StringFixed(2))
	f.lookup.AssertExpectations(t)
}

func TestResolveAddress_FreeShipping(t *testing.T) {
	f := newFixture()
	f.lookup.On("Resolve", mock.Anything, mock.Anything, true).Return(found("15.00", true), nil)

	_, err := f.o.ResolveAddress(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Equal(t, "19.98", f.o.Summarize(snapshot().Items).Total.StringFixed(2))
}

func TestResolveAddress_Malformed(t *testing.T) {
	for _, raw := range []string{"123", "", "0131010a", "013101000"} {
		t.Run(raw, func(t *testing.T) {
			f := newFixture()
			_, err := f.o.ResolveAddress(context.Background(), raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrValidation)
			f.lookup.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestResolveAddress_NotFound(t *testing.T) {
	f := newFixture()
	f.lookup.On("Resolve", mock.Anything, mock.Anything, true).Return(found("15.00", false), nil).Once()
	f.lookup.On("Resolve", mock.Anything, mock.Anything, true).Return(checkout.NotFound(), nil).Once()

	_, err := f.o.ResolveAddress(context.Background(), "01310100")
	require.NoError(t, err)

	res, err := f.o.ResolveAddress(context.Background(), "99999999")
	require.NoError(t, err)
	assert.False(t, res.Found)
	// an unresolved address means no shipping cost
	assert.Equal(t, "19.98", f.o.Summarize(snapshot().Items).Total.StringFixed(2))
}

func TestResolveAddress_TransportFailure(t *testing.T) {
	f := newFixture()
	f.lookup.On("Resolve", mock.Anything, mock.Anything, true).Return(nil, checkout.ErrLookupUnavailable)

	_, err := f.o.ResolveAddress(context.Background(), "01310100")
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrLookup)
	assert.ErrorIs(t, err, checkout.ErrLookupUnavailable)
}

func TestResolveAddress_WithoutShipping(t *testing.T) {
	lookup := new(MockAddressLookup)
	o := NewOrchestrator(lookup, new(MockOrderGateway), new(MockCartClearer), WithShippingQuote(false))
	lookup.On("Resolve", mock.Anything, mock.Anything, false).Return(&checkout.AddressResolution{Found: true, Address: &checkout.ResolvedAddress{}}, nil)

	res, err := o.ResolveAddress(context.Background(), "01310100")
	require.NoError(t, err)
	assert.Nil(t, res.Shipping)
	lookup.AssertExpectations(t)
}

func TestSubmitOrder_Success(t *testing.T) {
	f := newFixture()
	record := &checkout.OrderRecord{ID: valueobject.NewNumericID(42), OrderNumber: "ORD-42", Status: checkout.OrderStatusPending}
	f.gateway.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o checkout.Order) bool {
		return o.CustomerPhone == "11987654321" &&
			o.Address.PostalCode == "01310100" &&
			len(o.Items) == 1 && o.Items[0].Quantity == 2
	})).Return(record, nil)
	f.cart.On("ClearSubmitted", mock.Anything, snapshot().Items).Return()

	got, err := f.o.SubmitOrder(context.Background(), validCustomer(), validAddress(), snapshot())
	require.NoError(t, err)
	assert.Equal(t, "ORD-42", got.OrderNumber)
	f.gateway.AssertExpectations(t)
	f.cart.AssertCalled(t, "ClearSubmitted", mock.Anything, snapshot().Items)
}

func TestSubmitOrder_EmptyCart(t *testing.T) {
	f := newFixture()

	// empty cart wins over every other validation failure
	_, err := f.o.SubmitOrder(context.Background(), checkout.CustomerInfo{}, checkout.ShippingAddress{}, cart.Snapshot{})
	require.Error(t, err)
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.ErrorIs(t, err, shared.ErrValidation)
	f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	f.cart.AssertNotCalled(t, "ClearSubmitted", mock.Anything, mock.Anything)
}

func TestSubmitOrder_Validation(t *testing.T) {
	tests := []struct {
		name     string
		customer checkout.CustomerInfo
		address  checkout.ShippingAddress
		want     error
	}{
		{"missing name", checkout.CustomerInfo{Email: "a@b.co", Phone: "1"}, validAddress(), checkout.ErrCustomerNameRequired},
		{"bad email", checkout.CustomerInfo{Name: "A", Email: "not-an-email", Phone: "1"}, validAddress(), checkout.ErrCustomerEmailInvalid},
		{"missing phone", checkout.CustomerInfo{Name: "A", Email: "a@b.co", Phone: "--"}, validAddress(), checkout.ErrCustomerPhoneRequired},
		{"bad postal code", validCustomer(), checkout.ShippingAddress{PostalCode: "123", Number: "1"}, valueobject.ErrPostalCodeInvalid},
		{"missing number", validCustomer(), checkout.ShippingAddress{PostalCode: "01310100"}, checkout.ErrAddressNumberRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.o.SubmitOrder(context.Background(), tt.customer, tt.address, snapshot())
			assert.ErrorIs(t, err, tt.want)
			f.gateway.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitOrder_BackendFailure(t *testing.T) {
	t.Run("backend message is surfaced", func(t *testing.T) {
		f := newFixture()
		f.gateway.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, &checkout.BackendError{
			StatusCode: 422,
			Message:    "Produto indisponível",
			Err:        checkout.ErrBackendRejected,
		})

		_, err := f.o.SubmitOrder(context.Background(), validCustomer(), validAddress(), snapshot())
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrSubmission)
		assert.ErrorIs(t, err, checkout.ErrBackendRejected)

		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, "Produto indisponível", de.Message)
		f.cart.AssertNotCalled(t, "ClearSubmitted", mock.Anything, mock.Anything)
	})

	t.Run("generic message without backend message", func(t *testing.T) {
		f := newFixture()
		f.gateway.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, checkout.ErrBackendUnavailable)

		_, err := f.o.SubmitOrder(context.Background(), validCustomer(), validAddress(), snapshot())
		var de *shared.DomainError
		require.True(t, errors.As(err, &de))
		assert.Equal(t, shared.KindSubmission, de.Kind)
		assert.Equal(t, submissionFailedMessage, de.Message)
	})
}

func TestSubmitOrder_BackendAcceptsWithoutBody(t *testing.T) {
	posts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts++
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client, err := backend.NewClient(backend.NewConfig(server.URL, 0))
	require.NoError(t, err)

	ctx := context.Background()
	store := appcart.NewStore(ctx, persistence.NewMemoryStorage())
	require.NoError(t, store.Add(ctx, cart.Product{
		ID:    valueobject.NewNumericID(1),
		Title: "Widget",
		Price: decimal.RequireFromString("9.99"),
	}))

	o := NewOrchestrator(client, client, store)
	record, err := o.SubmitOrder(ctx, validCustomer(), validAddress(), store.Snapshot())
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, 1, posts)
	assert.Equal(t, checkout.OrderStatusPending, record.Status)
	assert.Zero(t, store.TotalItemCount())
}

func TestSubmitOrder_KeepsLinesAddedDuringSubmission(t *testing.T) {
	ctx := context.Background()
	store := appcart.NewStore(ctx, persistence.NewMemoryStorage())
	widget := cart.Product{ID: valueobject.NewNumericID(1), Title: "Widget", Price: decimal.RequireFromString("9.99")}
	gadget := cart.Product{ID: valueobject.NewNumericID(2), Title: "Gadget", Price: decimal.RequireFromString("5.00")}
	require.NoError(t, store.Add(ctx, widget))
	submitted := store.Snapshot()

	gateway := new(MockOrderGateway)
	gateway.On("CreateOrder", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		// the shopper keeps adding while the backend is answering
		require.NoError(t, store.Add(ctx, widget))
		require.NoError(t, store.Add(ctx, gadget))
	}).Return(&checkout.OrderRecord{ID: valueobject.NewNumericID(7)}, nil)

	o := NewOrchestrator(new(MockAddressLookup), gateway, store)
	_, err := o.SubmitOrder(ctx, validCustomer(), validAddress(), submitted)
	require.NoError(t, err)

	assert.Equal(t, 1, store.QuantityOf(widget.ID))
	assert.Equal(t, 1, store.QuantityOf(gadget.ID))
}
