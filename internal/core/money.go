// Package core provides money parsing and handling utilities.
//
// Amounts are kept as integer minor units (cents) everywhere in the ledger.
// Decimal conversion goes through shopspring/decimal so that parsing and
// rounding follow one half-up rule at two places.
package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fractional digits kept for every amount.
const MoneyScale = 2

// Money is a signed amount in cents.
type Money struct {
	Cents int64
}

// MaxMoneyCents bounds every amount and balance: twelve integer digits and
// two fractional ones.
const MaxMoneyCents int64 = 99_999_999_999_999

var maxMoney = decimal.New(MaxMoneyCents, -MoneyScale)

// ParseMoney converts a decimal string to Money with half-up rounding.
//
// Only a dot separates the fraction; grouping commas are rejected. A leading
// sign is allowed. Use Positive or NonNegative to enforce a range.
//
// Examples:
//
//	ParseMoney("12.34")  -> 1234 cents
//	ParseMoney("12.345") -> 1235 cents
//	ParseMoney("-5")     -> -500 cents
//	ParseMoney("1,000")  -> ErrInvalidAmount
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal rounds d half-up to cents. Results beyond MaxMoneyCents
// are rejected.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	rounded := d.Round(MoneyScale)
	if rounded.Abs().GreaterThan(maxMoney) {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: rounded.Shift(MoneyScale).IntPart()}, nil
}

// InRange returns ErrInvalidAmount when m lies outside ±MaxMoneyCents.
func (m Money) InRange() error {
	if m.Cents > MaxMoneyCents || m.Cents < -MaxMoneyCents {
		return ErrInvalidAmount
	}
	return nil
}

// Cents builds Money from a minor-unit count.
func Cents(c int64) Money {
	return Money{Cents: c}
}

// Decimal returns the amount as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -MoneyScale)
}

// String renders the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(MoneyScale)
}

func (m Money) Add(o Money) Money { return Money{Cents: m.Cents + o.Cents} }
func (m Money) Sub(o Money) Money { return Money{Cents: m.Cents - o.Cents} }
func (m Money) Neg() Money        { return Money{Cents: -m.Cents} }
func (m Money) IsZero() bool      { return m.Cents == 0 }

// Positive returns ErrInvalidAmount unless the amount is strictly greater than zero.
func (m Money) Positive() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// NonNegative returns ErrInvalidAmount for amounts below zero.
func (m Money) NonNegative() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// MarshalJSON encodes the amount as a decimal string, e.g. "70000.00".
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts a JSON number or a decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, strings.Trim(string(data), `"`))
	}
	parsed, err := MoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
