package models

import (
	"github.com/shopspring/decimal"
)

// Money is a decimal amount in rupees. The backend renders decimals as
// strings ("120.00"); Money accepts both strings and bare numbers and always
// writes a bare JSON number.
type Money struct {
	decimal.Decimal
}

// NewMoney builds Money from an integer amount.
func NewMoney(v int64) Money {
	return Money{decimal.NewFromInt(v)}
}

// ParseMoney parses a user supplied amount such as "499.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// MustMoney is ParseMoney for constants and tests.
func MustMoney(s string) Money {
	return Money{decimal.RequireFromString(s)}
}

// Times returns m multiplied by an integer quantity.
func (m Money) Times(qty int) Money {
	return Money{m.Mul(decimal.NewFromInt(int64(qty)))}
}

// MarshalJSON writes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts "12.50", 12.5 and null.
func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Decimal.UnmarshalJSON(b)
}
