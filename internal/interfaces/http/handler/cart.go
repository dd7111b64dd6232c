package handler

import (
	appcart "github.com/Igorseven/Ecommerce-Web/internal/application/cart"
	appcatalog "github.com/Igorseven/Ecommerce-Web/internal/application/catalog"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/gin-gonic/gin"
)

// CartHandler handles the shopping cart endpoints
type CartHandler struct {
	BaseHandler
	store   *appcart.Store
	catalog *appcatalog.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(store *appcart.Store, catalog *appcatalog.Service) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: catalog,
	}
}

// GetCart returns the cart lines with the item count and total price.
func (h *CartHandler) GetCart(c *gin.Context) {
	h.Success(c, h.store.View())
}

// AddItem looks the product up in the catalog and adds one unit of it to the cart.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req appcart.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.ProductID.IsZero() {
		h.HandleError(c, cart.ErrProductIDRequired)
		return
	}

	product, err := h.catalog.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.store.Add(c.Request.Context(), *product); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, h.store.View())
}

// SetQuantity sets a line's quantity. Zero or less removes the line.
func (h *CartHandler) SetQuantity(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req appcart.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	h.store.SetQuantity(c.Request.Context(), id, *req.Quantity)
	h.Success(c, h.store.View())
}

// IncrementItem adds one unit to a line
func (h *CartHandler) IncrementItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.store.Increment(c.Request.Context(), id)
	h.Success(c, h.store.View())
}

// DecrementItem removes the line when its quantity drops to zero.
func (h *CartHandler) DecrementItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.store.Decrement(c.Request.Context(), id)
	h.Success(c, h.store.View())
}

// RemoveItem drops a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	h.store.Remove(c.Request.Context(), id)
	h.Success(c, h.store.View())
}

// ClearCart empties the cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	h.store.Clear(c.Request.Context())
	h.Success(c, h.store.View())
}
