package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	appcart "github.com/Igorseven/Ecommerce-Web/internal/application/cart"
	appcatalog "github.com/Igorseven/Ecommerce-Web/internal/application/catalog"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type cartFixture struct {
	engine  *gin.Engine
	store   *appcart.Store
	storage *memoryStorage
	catalog *MockCatalogGateway
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()

	storage := &memoryStorage{}
	store := appcart.NewStore(context.Background(), storage)
	gateway := new(MockCatalogGateway)
	h := NewCartHandler(store, appcatalog.NewService(gateway, appcatalog.DefaultPageSize))

	engine := newTestEngine()
	engine.GET("/cart", h.GetCart)
	engine.DELETE("/cart", h.ClearCart)
	engine.POST("/cart/items", h.AddItem)
	engine.PUT("/cart/items/:id", h.SetQuantity)
	engine.DELETE("/cart/items/:id", h.RemoveItem)
	engine.POST("/cart/items/:id/increment", h.IncrementItem)
	engine.POST("/cart/items/:id/decrement", h.DecrementItem)

	return &cartFixture{engine: engine, store: store, storage: storage, catalog: gateway}
}

func (f *cartFixture) seed(t *testing.T, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		p := testProduct(id, fmt.Sprintf("product-%d", id), "10.50")
		require.NoError(t, f.store.Add(context.Background(), p))
	}
}

func TestCartHandler_GetCart_Empty(t *testing.T) {
	f := newCartFixture(t)

	w := doRequest(t, f.engine, http.MethodGet, "/cart", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp appcart.CartResponse
	decodeData(t, w, &resp)
	assert.Empty(t, resp.Items)
	assert.Equal(t, 0, resp.TotalItems)
	assert.Equal(t, "0.00", resp.TotalPrice.StringFixed(2))
}

func TestCartHandler_AddItem(t *testing.T) {
	f := newCartFixture(t)
	product := testProduct(1, "Backpack", "109.95")
	f.catalog.On("GetProduct", mock.Anything, valueobject.NewNumericID(1)).Return(&product, nil)

	w := doRequest(t, f.engine, http.MethodPost, "/cart/items", `{"product_id":1}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(t, f.engine, http.MethodPost, "/cart/items", `{"product_id":1}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp appcart.CartResponse
	decodeData(t, w, &resp)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Backpack", resp.Items[0].ProductName)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, "219.90", resp.Items[0].LineTotal.StringFixed(2))
	assert.Equal(t, 2, resp.TotalItems)
	assert.Equal(t, "219.90", resp.TotalPrice.StringFixed(2))

	require.NotNil(t, f.storage.snapshot, "every mutation is persisted")
	assert.Len(t, f.storage.snapshot.Items, 1)
	f.catalog.AssertExpectations(t)
}

func TestCartHandler_AddItem_Errors(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(*MockCatalogGateway)
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "malformed body",
			body:           `{"product_id":`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "ERR_INVALID_JSON",
		},
		{
			name:           "missing product id",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "PRODUCT_ID_REQUIRED",
		},
		{
			name: "unknown product",
			body: `{"product_id":99}`,
			setup: func(m *MockCatalogGateway) {
				m.On("GetProduct", mock.Anything, valueobject.NewNumericID(99)).
					Return(nil, fmt.Errorf("%w: 99", appcatalog.ErrProductNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name: "catalog down",
			body: `{"product_id":"abc"}`,
			setup: func(m *MockCatalogGateway) {
				m.On("GetProduct", mock.Anything, valueobject.NewExternalID("abc")).
					Return(nil, appcatalog.ErrCatalogUnavailable)
			},
			expectedStatus: http.StatusBadGateway,
			expectedCode:   "LOOKUP_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCartFixture(t)
			if tt.setup != nil {
				tt.setup(f.catalog)
			}

			w := doRequest(t, f.engine, http.MethodPost, "/cart/items", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.Equal(t, tt.expectedCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
			assert.Nil(t, f.storage.snapshot, "nothing is persisted on failure")
		})
	}
}

func TestCartHandler_SetQuantity(t *testing.T) {
	f := newCartFixture(t)
	f.seed(t, 1, 2)

	w := doRequest(t, f.engine, http.MethodPut, "/cart/items/1", `{"quantity":4}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp appcart.CartResponse
	decodeData(t, w, &resp)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 4, resp.Items[0].Quantity)
	assert.Equal(t, 5, resp.TotalItems)
	assert.Equal(t, "52.50", resp.TotalPrice.StringFixed(2))
}

func TestCartHandler_SetQuantity_ZeroRemoves(t *testing.T) {
	f := newCartFixture(t)
	f.seed(t, 1, 2)

	w := doRequest(t, f.engine, http.MethodPut, "/cart/items/1", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp appcart.CartResponse
	decodeData(t, w, &resp)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "2", resp.Items[0].ProductID.String())
}

func TestCartHandler_SetQuantity_MissingQuantity(t *testing.T) {
	f := newCartFixture(t)
	f.seed(t, 1)

	w := doRequest(t, f.engine, http.MethodPut, "/cart/items/1", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "quantity", resp.Error.Details[0].Field)
	assert.Equal(t, 1, f.store.QuantityOf(valueobject.NewNumericID(1)))
}

func TestCartHandler_IncrementDecrement(t *testing.T) {
	f := newCartFixture(t)
	f.seed(t, 7)
	id := valueobject.NewNumericID(7)

	w := doRequest(t, f.engine, http.MethodPost, "/cart/items/7/increment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, f.store.QuantityOf(id))

	doRequest(t, f.engine, http.MethodPost, "/cart/items/7/decrement", nil)
	assert.Equal(t, 1, f.store.QuantityOf(id))

	w = doRequest(t, f.engine, http.MethodPost, "/cart/items/7/decrement", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.store.Contains(id), "decrementing the last unit removes the line")
}

func TestCartHandler_UnknownIDIsNoop(t *testing.T) {
	f := newCartFixture(t)
	f.seed(t, 1)

	for _, path := range []string{"/cart/items/42/increment", "/cart/items/42/decrement"} {
		w := doRequest(t, f.engine, http.MethodPost, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w := doRequest(t, f.engine, http.MethodDelete, "/cart/items/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, f.store.TotalItemCount())
}

func TestCartHandler_RemoveAndClear(t *testing.T) {
	f := newCartFixture(t)
	f.seed(t, 1, 2, 3)

	w := doRequest(t, f.engine, http.MethodDelete, "/cart/items/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, f.store.Contains(valueobject.NewNumericID(2)))
	assert.Equal(t, 2, f.store.TotalItemCount())

	w = doRequest(t, f.engine, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp appcart.CartResponse
	decodeData(t, w, &resp)
	assert.Empty(t, resp.Items)
	require.NotNil(t, f.storage.snapshot)
	assert.Empty(t, f.storage.snapshot.Items)
}
