// Package money provides exact fixed-currency monetary arithmetic for
// receipt amounts. All amounts are USD; the currency code is carried by the
// OFX statement, not by individual values.
package money

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is the ISO code applied to every amount in a run.
const Currency = "USD"

// Amount is an exact decimal monetary value. The zero value is $0.00.
type Amount struct {
	d decimal.Decimal
}

// Zero returns a zero amount.
func Zero() Amount {
	return Amount{}
}

// New builds an Amount from an integer number of currency units and an
// exponent, e.g. New(535, -2) == $5.35.
func New(value int64, exp int32) Amount {
	return Amount{d: decimal.New(value, exp)}
}

// Parse parses a vendor-printed amount string. Currency symbols and
// thousands separators are stripped; a leading minus sign is honored.
func Parse(s string) (Amount, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return Amount{}, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustParse is Parse for constant inputs; it panics on error. Intended for
// tests and literals.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }
func (a Amount) Neg() Amount         { return Amount{d: a.d.Neg()} }
func (a Amount) Mul(b Amount) Amount { return Amount{d: a.d.Mul(b.d)} }

// Div divides a by b with decimal (non-floating-point) arithmetic. The
// caller is responsible for guarding against a zero divisor.
func (a Amount) Div(b Amount) Amount { return Amount{d: a.d.Div(b.d)} }

// Round rounds half away from zero to the currency's minor unit (cents).
func (a Amount) Round() Amount { return Amount{d: a.d.Round(2)} }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }
func (a Amount) Cmp(b Amount) int    { return a.d.Cmp(b.d) }
func (a Amount) IsZero() bool        { return a.d.IsZero() }
func (a Amount) IsNegative() bool    { return a.d.IsNegative() }

// Rat returns the amount as a big.Rat for the OFX serializer.
func (a Amount) Rat() *big.Rat {
	return a.d.Rat()
}

// String formats the amount with two fractional digits and no currency
// symbol, the form the ledger format expects.
func (a Amount) String() string {
	return a.d.StringFixed(2)
}
