package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity is a line item count. It accepts a JSON number, a numeric
// string or null on input and is emitted as a number whenever it parses.
// The zero value means 1.
type Quantity string

// DefaultQuantity is used when a quantity is absent.
const DefaultQuantity Quantity = "1"

// NewQuantity builds a Quantity from an integer count.
func NewQuantity(n int64) Quantity {
	return Quantity(decimal.NewFromInt(n).String())
}

// String returns the textual form, substituting the default for empty values.
func (q Quantity) String() string {
	s := strings.TrimSpace(string(q))
	if s == "" {
		return string(DefaultQuantity)
	}
	return s
}

// Decimal returns the numeric value and whether it parsed.
func (q Quantity) Decimal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(q.String())
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// IsNumeric reports whether the quantity holds a number.
func (q Quantity) IsNumeric() bool {
	_, ok := q.Decimal()
	return ok
}

// MarshalJSON implements json.Marshaler.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if d, ok := q.Decimal(); ok {
		return []byte(d.String()), nil
	}
	return json.Marshal(q.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = DefaultQuantity
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		*q = Quantity(strings.TrimSpace(s))
		if *q == "" {
			*q = DefaultQuantity
		}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	*q = Quantity(n.String())
	return nil
}
