// Package cart holds the shopping cart aggregate: an ordered list of line
// items keyed by product id, with totals derived on every read.
package cart

import (
	"strings"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Cart validation errors
var (
	ErrProductIDRequired = shared.NewValidationError("PRODUCT_ID_REQUIRED", "product id is required")
	ErrNegativePrice     = shared.NewValidationError("NEGATIVE_PRICE", "product price cannot be negative")
)

// Rating is the catalog's review summary for a product
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is a catalog product as offered to the cart
type Product struct {
	ID          valueobject.ExternalID `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Price       decimal.Decimal        `json:"price"`
	Image       string                 `json:"image"`
	Category    string                 `json:"category"`
	Rating      Rating                 `json:"rating"`
}

// LineItem is one product in the cart. Name, image and price are copied when
// the product is added and never refreshed from the catalog.
type LineItem struct {
	ProductID    valueobject.ExternalID `json:"product_id"`
	ProductName  string                 `json:"product_name"`
	ProductImage string                 `json:"product_image"`
	UnitPrice    decimal.Decimal        `json:"unit_price"`
	Quantity     int                    `json:"quantity"`
}

// LineTotal returns unit price times quantity
func (li LineItem) LineTotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// Cart is the shopping cart aggregate.
// Invariant: no line item has a quantity of zero or less, and no product id
// appears twice.
type Cart struct {
	items []LineItem
}

// New returns an empty cart
func New() *Cart {
	return &Cart{items: make([]LineItem, 0)}
}

// Restore rebuilds a cart from a stored snapshot. Items with a non-positive
// quantity, a negative price or no id are dropped; repeated ids are merged.
func Restore(snapshot Snapshot) *Cart {
	c := New()
	for _, item := range snapshot.Items {
		if item.ProductID.IsZero() || item.Quantity <= 0 || item.UnitPrice.IsNegative() {
			continue
		}
		if i := c.indexOf(item.ProductID); i >= 0 {
			c.items[i].Quantity += item.Quantity
			continue
		}
		c.items = append(c.items, item)
	}
	return c
}

// Add puts one unit of product in the cart. An existing line for the same
// product is incremented instead.
func (c *Cart) Add(product Product) error {
	if product.ID.IsZero() {
		return ErrProductIDRequired
	}
	if product.Price.IsNegative() {
		return ErrNegativePrice
	}

	if i := c.indexOf(product.ID); i >= 0 {
		c.items[i].Quantity++
		return nil
	}

	c.items = append(c.items, LineItem{
		ProductID:    product.ID,
		ProductName:  strings.TrimSpace(product.Title),
		ProductImage: product.Image,
		UnitPrice:    product.Price,
		Quantity:     1,
	})
	return nil
}

// Remove deletes the line for id; absent ids are ignored
func (c *Cart) Remove(id valueobject.ExternalID) {
	if i := c.indexOf(id); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

// SetQuantity replaces the quantity of an existing line. n <= 0 removes it.
func (c *Cart) SetQuantity(id valueobject.ExternalID, n int) {
	if n <= 0 {
		c.Remove(id)
		return
	}
	if i := c.indexOf(id); i >= 0 {
		c.items[i].Quantity = n
	}
}

// Increment adds one unit to an existing line
func (c *Cart) Increment(id valueobject.ExternalID) {
	if i := c.indexOf(id); i >= 0 {
		c.items[i].Quantity++
	}
}

// Decrement removes one unit; the line goes away when it would reach zero
func (c *Cart) Decrement(id valueobject.ExternalID) {
	i := c.indexOf(id)
	if i < 0 {
		return
	}
	if c.items[i].Quantity <= 1 {
		c.Remove(id)
		return
	}
	c.items[i].Quantity--
}

// Deduct takes the quantities of items out of the cart. Lines that reach zero
// are removed; units added after items were read stay in the cart.
func (c *Cart) Deduct(items []LineItem) {
	for _, item := range items {
		i := c.indexOf(item.ProductID)
		if i < 0 {
			continue
		}
		if c.items[i].Quantity <= item.Quantity {
			c.Remove(item.ProductID)
			continue
		}
		c.items[i].Quantity -= item.Quantity
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.items = make([]LineItem, 0)
}

// TotalItemCount is the sum of quantities
func (c *Cart) TotalItemCount() int {
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the exact sum of unit price times quantity
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Contains reports whether id has a line in the cart
func (c *Cart) Contains(id valueobject.ExternalID) bool {
	return c.indexOf(id) >= 0
}

// QuantityOf returns the quantity for id, or 0 when absent
func (c *Cart) QuantityOf(id valueobject.ExternalID) int {
	if i := c.indexOf(id); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the line items in insertion order
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// Snapshot returns the serialisable state of the cart
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{Items: c.Items()}
}

// ids compare by their textual form so 7 and "7" address the same line
func (c *Cart) indexOf(id valueobject.ExternalID) int {
	for i, item := range c.items {
		if item.ProductID.String() == id.String() {
			return i
		}
	}
	return -1
}
