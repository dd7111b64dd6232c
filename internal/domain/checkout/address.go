package checkout

import (
	"strings"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ResolvedAddress is the street data the lookup returns for a postal code
type ResolvedAddress struct {
	PostalCode   string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	Complement   string `json:"complement"`
}

// ShippingQuote is the shipping price offered for a postal code
type ShippingQuote struct {
	Cost          decimal.Decimal `json:"cost"`
	Free          bool            `json:"free"`
	Message       string          `json:"message"`
	EstimatedDays int             `json:"estimated_days"`
}

// EffectiveCost is zero for free shipping, the quoted cost otherwise
func (q *ShippingQuote) EffectiveCost() decimal.Decimal {
	if q == nil || q.Free {
		return decimal.Zero
	}
	return q.Cost
}

// AddressResolution is the outcome of a postal code lookup. Found is false
// when the lookup knows no such postal code; that is not an error.
type AddressResolution struct {
	Found    bool             `json:"found"`
	Address  *ResolvedAddress `json:"address,omitempty"`
	Shipping *ShippingQuote   `json:"shipping,omitempty"`
}

// NotFound builds the outcome for an unknown postal code
func NotFound() *AddressResolution {
	return &AddressResolution{Found: false}
}

// AutofillPolicy decides what a lookup does to fields the user already typed
type AutofillPolicy string

const (
	// AutofillOverwrite replaces street fields on every lookup
	AutofillOverwrite AutofillPolicy = "overwrite"
	// AutofillPreserveEdits only fills fields that are still blank
	AutofillPreserveEdits AutofillPolicy = "preserve"
)

// IsValid checks if the policy is a known value
func (p AutofillPolicy) IsValid() bool {
	return p == AutofillOverwrite || p == AutofillPreserveEdits
}

// AddressForm is the checkout address as being edited by the user
type AddressForm struct {
	PostalCode   string `json:"cep"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Autofill copies a successful lookup into the form according to policy.
// The number is taken from the digits of the resolved complement, and only
// when there are any. A NotFound resolution leaves the form untouched.
func (f *AddressForm) Autofill(res *AddressResolution, policy AutofillPolicy) bool {
	if res == nil || !res.Found || res.Address == nil {
		return false
	}

	set := func(field *string, value string) {
		if policy == AutofillPreserveEdits && strings.TrimSpace(*field) != "" {
			return
		}
		*field = value
	}

	set(&f.Street, res.Address.Street)
	set(&f.Neighborhood, res.Address.Neighborhood)
	set(&f.City, res.Address.City)
	set(&f.State, res.Address.State)
	if digits := valueobject.DigitsOnly(res.Address.Complement); digits != "" {
		set(&f.Number, digits)
	}
	if res.Address.PostalCode != "" {
		f.PostalCode = res.Address.PostalCode
	}
	return true
}

// ShippingAddress returns the subset of the form sent with an order
func (f AddressForm) ShippingAddress() ShippingAddress {
	return ShippingAddress{
		PostalCode: valueobject.DigitsOnly(f.PostalCode),
		Number:     strings.TrimSpace(f.Number),
		Complement: strings.TrimSpace(f.Complement),
	}
}
