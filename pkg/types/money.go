package types

import (
	"github.com/shopspring/decimal"
)

// Money is an FCFA amount. Decimal underneath so cart totals never drift;
// serialized as a plain JSON number to match the upstream wire format.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

func MoneyFromFloat(value float64) Money {
	return Money{Decimal: decimal.NewFromFloat(value)}
}

func MoneyFromInt(value int64) Money {
	return Money{Decimal: decimal.NewFromInt(value)}
}

// ZeroMoney is the additive identity.
func ZeroMoney() Money {
	return Money{Decimal: decimal.Zero}
}

func (m Money) Add(other Money) Money {
	return Money{Decimal: m.Decimal.Add(other.Decimal)}
}

// MulInt scales a unit price by a quantity.
func (m Money) MulInt(qty int) Money {
	return Money{Decimal: m.Decimal.Mul(decimal.NewFromInt(int64(qty)))}
}

func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

// MarshalJSON emits the amount unquoted; decimal's default is a string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}
