package router

import (
	"github.com/Igorseven/Ecommerce-Web/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the storefront API handlers
type Handlers struct {
	System   *handler.SystemHandler
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
}

// Groups builds the route groups of the storefront API
func (h Handlers) Groups() []*DomainGroup {
	systemRoutes := NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.System.GetSystemInfo)
	systemRoutes.GET("/ping", h.System.Ping)

	catalogRoutes := NewDomainGroup("catalog", "/catalog")
	catalogRoutes.GET("/overview", h.Catalog.GetOverview)
	catalogRoutes.GET("/categories", h.Catalog.ListCategories)
	catalogRoutes.GET("/products", h.Catalog.ListProducts)
	catalogRoutes.GET("/products/:id", h.Catalog.GetProduct)

	cartRoutes := NewDomainGroup("cart", "/cart")
	cartRoutes.GET("", h.Cart.GetCart)
	cartRoutes.DELETE("", h.Cart.ClearCart)
	cartRoutes.POST("/items", h.Cart.AddItem)
	cartRoutes.PUT("/items/:id", h.Cart.SetQuantity)
	cartRoutes.DELETE("/items/:id", h.Cart.RemoveItem)
	cartRoutes.POST("/items/:id/increment", h.Cart.IncrementItem)
	cartRoutes.POST("/items/:id/decrement", h.Cart.DecrementItem)

	checkoutRoutes := NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.GET("/address", h.Checkout.GetAddressForm)
	checkoutRoutes.PUT("/address", h.Checkout.UpdateAddressForm)
	checkoutRoutes.GET("/address/:cep", h.Checkout.ResolveAddress)
	checkoutRoutes.GET("/summary", h.Checkout.GetSummary)
	checkoutRoutes.POST("/orders", h.Checkout.SubmitOrder)

	orderRoutes := NewDomainGroup("order", "/orders")
	orderRoutes.GET("", h.Order.List)
	orderRoutes.GET("/:id", h.Order.GetByID)
	orderRoutes.POST("/:id/confirm", h.Order.Confirm)
	orderRoutes.DELETE("/:id", h.Order.Delete)

	return []*DomainGroup{systemRoutes, catalogRoutes, cartRoutes, checkoutRoutes, orderRoutes}
}

// Mount registers the storefront API on engine: /health outside versioning
// and every group under /api/v1.
func Mount(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, WithAPIVersion("v1"))
	for _, g := range h.Groups() {
		r.Register(g)
	}
	r.Setup()
}
