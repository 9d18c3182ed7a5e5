// Package moneypkg provides an exact fixed-point money amount with two
// fractional digits.
package moneypkg

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits every amount is kept at.
const Scale = 2

// ErrInvalidMoney indicates that the given string is not a valid money amount.
var ErrInvalidMoney = errors.New("invalid money amount")

// Money is an exact decimal amount with two fractional digits.
//
// The zero value is 0.00 and ready to use.
type Money struct {
	dec decimal.Decimal
}

// Zero is the 0.00 amount.
var Zero = Money{}

// NewFromString parses s into a Money amount.
//
// Amounts with more than two fractional digits are rejected rather than
// rounded so that no caller input is silently altered.
func NewFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidMoney
	}

	if d.Exponent() < -Scale {
		return Money{}, ErrInvalidMoney
	}

	return Money{dec: d}, nil
}

// MustFromString parses s into a Money amount and panics on failure.
// Intended for constants and tests.
func MustFromString(s string) Money {
	m, err := NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("moneypkg: %v: %q", err, s))
	}

	return m
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{dec: m.dec.Add(other.dec)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{dec: m.dec.Sub(other.dec)}
}

// Neg returns -m.
func (m Money) Neg() Money {
	return Money{dec: m.dec.Neg()}
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.dec.LessThan(other.dec)
}

// IsPositive reports whether m > 0.
func (m Money) IsPositive() bool {
	return m.dec.IsPositive()
}

// IsNegative reports whether m < 0.
func (m Money) IsNegative() bool {
	return m.dec.IsNegative()
}

// Equal reports whether the two amounts are exactly equal.
func (m Money) Equal(other Money) bool {
	return m.dec.Equal(other.dec)
}

// String renders the amount with exactly two fractional digits, e.g. "20.00".
func (m Money) String() string {
	return m.dec.StringFixed(Scale)
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	parsed, err := NewFromString(s)
	if err != nil {
		return err
	}

	*m = parsed

	return nil
}

// Value implements driver.Valuer so amounts can be stored in numeric columns.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

// Scan implements sql.Scanner.
func (m *Money) Scan(src interface{}) error {
	var s string

	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case int64:
		*m = Money{dec: decimal.NewFromInt(v)}
		return nil
	case nil:
		*m = Zero
		return nil
	default:
		return fmt.Errorf("moneypkg: cannot scan %T", src)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidMoney
	}

	*m = Money{dec: d.Round(Scale)}

	return nil
}
