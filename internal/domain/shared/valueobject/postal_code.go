package valueobject

import (
	"strings"

	"github.com/Igorseven/Ecommerce-Web/internal/domain/shared"
)

// PostalCodeLength is the number of digits in a Brazilian CEP
const PostalCodeLength = 8

// Postal code validation errors
var (
	ErrPostalCodeRequired = shared.NewValidationError("POSTAL_CODE_REQUIRED", "postal code is required")
	ErrPostalCodeInvalid  = shared.NewValidationError("POSTAL_CODE_INVALID", "postal code must contain exactly 8 digits")
)

// PostalCode is a validated Brazilian postal code (CEP), stored as digits only
type PostalCode struct {
	digits string
}

// ParsePostalCode accepts "01310100" or the formatted "01310-100".
// Hyphens, dots and spaces are stripped; any other character is rejected.
func ParsePostalCode(raw string) (PostalCode, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return PostalCode{}, ErrPostalCodeRequired
	}

	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '.' || r == ' ':
		default:
			return PostalCode{}, ErrPostalCodeInvalid
		}
	}

	digits := b.String()
	if len(digits) != PostalCodeLength {
		return PostalCode{}, ErrPostalCodeInvalid
	}
	return PostalCode{digits: digits}, nil
}

// String returns the digits-only form used on the wire
func (p PostalCode) String() string {
	return p.digits
}

// Formatted returns the display form, e.g. 01310-100
func (p PostalCode) Formatted() string {
	if len(p.digits) != PostalCodeLength {
		return p.digits
	}
	return p.digits[:5] + "-" + p.digits[5:]
}

// IsZero reports whether the postal code was never set
func (p PostalCode) IsZero() bool {
	return p.digits == ""
}

// DigitsOnly strips every non-digit rune from s
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
