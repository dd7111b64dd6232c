package handler

import (
	appcatalog "github.com/Igorseven/Ecommerce-Web/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles the product catalog endpoints
type CatalogHandler struct {
	BaseHandler
	service *appcatalog.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(service *appcatalog.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ListProducts lists products filtered by category and title search, one page at a time.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var q appcatalog.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.service.Browse(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Products, int64(page.Total), page.Page, page.PageSize)
}

// GetProduct returns one catalog product; an unknown id answers 404
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	product, err := h.service.Product(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListCategories returns the catalog categories, title-cased
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// GetOverview returns the first product page together with the categories.
func (h *CatalogHandler) GetOverview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}
