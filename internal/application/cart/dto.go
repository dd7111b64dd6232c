package cart

import (
	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
)

// AddItemRequest adds one unit of a catalog product
type AddItemRequest struct {
	ProductID valueobject.ExternalID `json:"product_id"`
}

// SetQuantityRequest sets a line's quantity; zero or less removes it
type SetQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// CartItemResponse is one cart line
type CartItemResponse struct {
	ProductID    valueobject.ExternalID `json:"product_id"`
	ProductName  string                 `json:"product_name"`
	ProductImage string                 `json:"product_image"`
	UnitPrice    valueobject.Money      `json:"unit_price"`
	Quantity     int                    `json:"quantity"`
	LineTotal    valueobject.Money      `json:"line_total"`
}

// CartResponse is the cart with its derived totals
type CartResponse struct {
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice valueobject.Money  `json:"total_price"`
}

// ToCartResponse converts cart lines to a response
func ToCartResponse(items []cart.LineItem) CartResponse {
	resp := CartResponse{
		Items:      make([]CartItemResponse, 0, len(items)),
		TotalPrice: valueobject.ZeroBRL(),
	}
	for _, item := range items {
		unit := valueobject.NewMoneyBRL(item.UnitPrice)
		line := unit.MultiplyByInt(int64(item.Quantity))
		resp.Items = append(resp.Items, CartItemResponse{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			UnitPrice:    unit,
			Quantity:     item.Quantity,
			LineTotal:    line,
		})
		resp.TotalItems += item.Quantity
		resp.TotalPrice = resp.TotalPrice.MustAdd(line)
	}
	return resp
}
