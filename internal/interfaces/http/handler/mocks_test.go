package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/checkout"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/Igorseven/Ecommerce-Web/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCatalogGateway is a mock implementation of catalog.CatalogGateway
type MockCatalogGateway struct {
	mock.Mock
}

func (m *MockCatalogGateway) ListProducts(ctx context.Context) ([]cart.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Product), args.Error(1)
}

func (m *MockCatalogGateway) ListProductsByCategory(ctx context.Context, category string) ([]cart.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Product), args.Error(1)
}

func (m *MockCatalogGateway) GetProduct(ctx context.Context, id valueobject.ExternalID) (*cart.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Product), args.Error(1)
}

func (m *MockCatalogGateway) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

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

// memoryStorage is an in-process cart.Storage
type memoryStorage struct {
	snapshot *cart.Snapshot
}

func (s *memoryStorage) Load(ctx context.Context) (*cart.Snapshot, error) {
	if s.snapshot == nil {
		return nil, cart.ErrSnapshotNotFound
	}
	c := *s.snapshot
	return &c, nil
}

func (s *memoryStorage) Save(ctx context.Context, snapshot cart.Snapshot) error {
	s.snapshot = &snapshot
	return nil
}

func testProduct(id int64, title, price string) cart.Product {
	return cart.Product{
		ID:       valueobject.NewNumericID(id),
		Title:    title,
		Price:    decimal.RequireFromString(price),
		Image:    "https://fakestoreapi.com/img/" + title + ".jpg",
		Category: "electronics",
	}
}

func newTestEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

// decodeData re-decodes the data field of a success response into out
func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}
