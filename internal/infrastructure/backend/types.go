package backend

import (
	"encoding/json"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/checkout"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CepResponse is the body of GET /api/cep/{cep}
type CepResponse struct {
	Erro                  bool              `json:"erro"`
	Found                 *bool             `json:"found"`
	Cep                   string            `json:"cep"`
	Street                string            `json:"street"`
	Neighborhood          string            `json:"neighborhood"`
	City                  string            `json:"city"`
	State                 string            `json:"state"`
	Complement            string            `json:"complement"`
	Shipping              *ShippingResponse `json:"shipping"`
	EstimatedDeliveryDays int               `json:"estimated_delivery_days"`
}

// ShippingResponse is the shipping block of a CEP response
type ShippingResponse struct {
	FinalCost    decimal.Decimal `json:"final_cost"`
	FreeShipping bool            `json:"free_shipping"`
	Message      string          `json:"message"`
}

// notFound reports whether the body marks the postal code as unknown
func (r *CepResponse) notFound() bool {
	return r.Erro || (r.Found != nil && !*r.Found)
}

// OrderListResponse is the body of GET /api/orders
type OrderListResponse struct {
	Orders []checkout.OrderRecord `json:"orders"`
}

// OrderEnvelope wraps a single order; some endpoints return the order bare
type OrderEnvelope struct {
	Order *checkout.OrderRecord `json:"order"`
}

// ErrorResponse is the error body the backend returns
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// OrderRequest is the body of POST /api/orders. Prices travel as JSON numbers.
type OrderRequest struct {
	CustomerName  string                   `json:"customer_name"`
	CustomerEmail string                   `json:"customer_email"`
	CustomerPhone string                   `json:"customer_phone"`
	Address       checkout.ShippingAddress `json:"address"`
	Items         []OrderItemRequest       `json:"items"`
}

// OrderItemRequest is one order line
type OrderItemRequest struct {
	ProductID    valueobject.ExternalID `json:"product_id"`
	ProductName  string                 `json:"product_name"`
	ProductImage string                 `json:"product_image"`
	Quantity     int                    `json:"quantity"`
	UnitPrice    json.Number            `json:"unit_price"`
}

func newOrderRequest(o checkout.Order) OrderRequest {
	req := OrderRequest{
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		Address:       o.Address,
		Items:         make([]OrderItemRequest, 0, len(o.Items)),
	}
	for _, item := range o.Items {
		req.Items = append(req.Items, OrderItemRequest{
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			ProductImage: item.ProductImage,
			Quantity:     item.Quantity,
			UnitPrice:    json.Number(item.UnitPrice.String()),
		})
	}
	return req
}
