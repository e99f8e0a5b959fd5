package decimal

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the ISO code amounts are denominated in unless stated otherwise.
const DefaultCurrency = money.KRW

// Money is an amount of the default currency, formatted through go-money.
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// String returns the amount rounded to the currency's minor unit without a symbol.
func (m Money) String() string {
	return m.Decimal.StringFixed(minorUnits(DefaultCurrency))
}

// Format renders the amount in the default currency, e.g. "₩9,000,000".
func (m Money) Format() string {
	return m.FormatIn(DefaultCurrency)
}

// FormatIn renders the amount with the symbol and grouping of an ISO currency.
// Unknown codes fall back to the plain decimal string.
func (m Money) FormatIn(code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return m.Decimal.StringFixed(2)
	}
	minor := m.Decimal.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

func minorUnits(code string) int32 {
	if cur := money.GetCurrency(code); cur != nil {
		return int32(cur.Fraction)
	}
	return 2
}
