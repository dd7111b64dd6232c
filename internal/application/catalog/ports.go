package catalog

import (
	"context"
	"errors"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
)

// Gateway errors, wrapped by adapters
var (
	ErrProductNotFound    = errors.New("product not found")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)

// CatalogGateway is the product catalog
type CatalogGateway interface {
	ListProducts(ctx context.Context) ([]cart.Product, error)
	ListProductsByCategory(ctx context.Context, category string) ([]cart.Product, error)
	GetProduct(ctx context.Context, id valueobject.ExternalID) (*cart.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
}
