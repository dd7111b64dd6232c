// Package checkout contains the order model submitted to the order backend,
// the address/shipping lookup result types and the submission session.
package checkout

import (
	"regexp"
	"strings"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/cart"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared"
	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
)

// Order validation errors
var (
	ErrEmptyCart             = shared.NewValidationError("EMPTY_CART", "cannot submit an order with an empty cart")
	ErrCustomerNameRequired  = shared.NewValidationError("CUSTOMER_NAME_REQUIRED", "customer name is required")
	ErrCustomerEmailRequired = shared.NewValidationError("CUSTOMER_EMAIL_REQUIRED", "customer email is required")
	ErrCustomerEmailInvalid  = shared.NewValidationError("CUSTOMER_EMAIL_INVALID", "customer email is invalid")
	ErrCustomerPhoneRequired = shared.NewValidationError("CUSTOMER_PHONE_REQUIRED", "customer phone is required")
	ErrAddressNumberRequired = shared.NewValidationError("ADDRESS_NUMBER_REQUIRED", "address number is required")
	ErrInvalidLineItem       = shared.NewValidationError("INVALID_LINE_ITEM", "order items must have a product id and a positive quantity")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// CustomerInfo is the contact data entered at checkout
type CustomerInfo struct {
	Name  string
	Email string
	Phone string
}

// Normalize trims the fields and reduces the phone to digits
func (c CustomerInfo) Normalize() CustomerInfo {
	return CustomerInfo{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: valueobject.DigitsOnly(c.Phone),
	}
}

// Validate checks required fields and the email shape
func (c CustomerInfo) Validate() error {
	if c.Name == "" {
		return ErrCustomerNameRequired
	}
	if c.Email == "" {
		return ErrCustomerEmailRequired
	}
	if !emailPattern.MatchString(c.Email) {
		return ErrCustomerEmailInvalid
	}
	if c.Phone == "" {
		return ErrCustomerPhoneRequired
	}
	return nil
}

// ShippingAddress is the delivery address sent with an order
type ShippingAddress struct {
	PostalCode string `json:"cep"`
	Number     string `json:"number"`
	Complement string `json:"complement"`
}

// Order is the order-creation payload. Items are copied from the cart at
// submission time.
type Order struct {
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	CustomerPhone string          `json:"customer_phone"`
	Address       ShippingAddress `json:"address"`
	Items         []cart.LineItem `json:"items"`
}

// NewOrder validates the inputs and builds an order. The empty cart check runs
// first so that no other validation error can mask it.
func NewOrder(customer CustomerInfo, address ShippingAddress, items []cart.LineItem) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, item := range items {
		if item.ProductID.IsZero() || item.Quantity <= 0 {
			return nil, ErrInvalidLineItem
		}
	}

	customer = customer.Normalize()
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	postalCode, err := valueobject.ParsePostalCode(address.PostalCode)
	if err != nil {
		return nil, err
	}
	number := strings.TrimSpace(address.Number)
	if number == "" {
		return nil, ErrAddressNumberRequired
	}

	snapshot := make([]cart.LineItem, len(items))
	copy(snapshot, items)

	return &Order{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhone: customer.Phone,
		Address: ShippingAddress{
			PostalCode: postalCode.String(),
			Number:     number,
			Complement: strings.TrimSpace(address.Complement),
		},
		Items: snapshot,
	}, nil
}
