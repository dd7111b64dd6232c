package checkout

import (
	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Total is the payable amount: subtotal plus shipping, zero shipping when unresolved
func Total(subtotal decimal.Decimal, quote *ShippingQuote) decimal.Decimal {
	return subtotal.Add(quote.EffectiveCost())
}

// Summary is the checkout price breakdown
type Summary struct {
	ItemCount int               `json:"item_count"`
	Subtotal  valueobject.Money `json:"subtotal"`
	Shipping  valueobject.Money `json:"shipping"`
	Total     valueobject.Money `json:"total"`
	Quote     *ShippingQuote    `json:"quote,omitempty"`
}

// Summarize computes the breakdown for items with an optional shipping quote
func Summarize(items []cart.LineItem, quote *ShippingQuote) Summary {
	count := 0
	subtotal := valueobject.ZeroBRL()
	for _, item := range items {
		count += item.Quantity
		subtotal = subtotal.MustAdd(valueobject.NewMoneyBRL(item.UnitPrice).MultiplyByInt(int64(item.Quantity)))
	}
	return Summary{
		ItemCount: count,
		Subtotal:  subtotal,
		Shipping:  valueobject.NewMoneyBRL(quote.EffectiveCost()),
		Total:     valueobject.NewMoneyBRL(Total(subtotal.Amount(), quote)),
		Quote:     quote,
	}
}
