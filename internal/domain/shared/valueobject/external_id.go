package valueobject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ExternalID is an identifier owned by another system. On the wire it may be
// an integer or a string; it marshals back in the same shape it arrived in.
type ExternalID struct {
	value   string
	numeric bool
}

// NewExternalID builds an id from its textual form. Integer-looking values
// are treated as numeric.
func NewExternalID(value string) ExternalID {
	_, err := strconv.ParseInt(value, 10, 64)
	return ExternalID{value: value, numeric: err == nil}
}

// NewNumericID builds a numeric id
func NewNumericID(value int64) ExternalID {
	return ExternalID{value: strconv.FormatInt(value, 10), numeric: true}
}

// String returns the textual form
func (id ExternalID) String() string {
	return id.value
}

// IsZero reports whether the id is empty
func (id ExternalID) IsZero() bool {
	return id.value == ""
}

// IsNumeric reports whether the id travels as a JSON number
func (id ExternalID) IsNumeric() bool {
	return id.numeric
}

// MarshalJSON implements json.Marshaler
func (id ExternalID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON implements json.Unmarshaler
func (id *ExternalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ExternalID{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid id: %w", err)
		}
		*id = ExternalID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	if _, err := n.Int64(); err != nil {
		return fmt.Errorf("invalid id %s: must be an integer", n)
	}
	*id = ExternalID{value: n.String(), numeric: true}
	return nil
}
