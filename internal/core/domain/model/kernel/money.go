package kernel

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Money is an amount in the major currency unit (e.g. rupees) backed by an
// arbitrary-precision decimal. The zero value is a valid zero amount.
//
// Pricing rounds to whole units at every stage, while refunds may carry a
// fractional part (half of the platform fee). MinorUnits converts to the
// integer representation expected by payment gateways.
type Money struct {
	amount decimal.Decimal
}

func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

func MoneyFromInt(v int64) Money {
	return Money{amount: decimal.NewFromInt(v)}
}

func MoneyFromFloat(v float64) Money {
	return Money{amount: decimal.NewFromFloat(v)}
}

// ParseMoney accepts a decimal string such as "27.5".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: d}, nil
}

// ZeroMoney is the explicit zero amount.
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

func (m Money) Decimal() decimal.Decimal { return m.amount }

func (m Money) Add(other Money) Money { return Money{amount: m.amount.Add(other.amount)} }

func (m Money) Sub(other Money) Money { return Money{amount: m.amount.Sub(other.amount)} }

func (m Money) Mul(factor decimal.Decimal) Money { return Money{amount: m.amount.Mul(factor)} }

// Percent returns m × pct / 100 without rounding.
func (m Money) Percent(pct decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(pct).Div(hundred)}
}

func (m Money) Neg() Money { return Money{amount: m.amount.Neg()} }

func (m Money) Abs() Money { return Money{amount: m.amount.Abs()} }

// Round rounds to the nearest whole unit, halves away from zero.
func (m Money) Round() Money { return Money{amount: m.amount.Round(0)} }

// MinorUnits returns the amount in 1/100 units, rounded to the nearest one.
func (m Money) MinorUnits() int64 {
	return m.amount.Mul(hundred).Round(0).IntPart()
}

func (m Money) IsZero() bool { return m.amount.IsZero() }

func (m Money) IsPositive() bool { return m.amount.IsPositive() }

func (m Money) IsNegative() bool { return m.amount.IsNegative() }

func (m Money) Equal(other Money) bool { return m.amount.Equal(other.amount) }

func (m Money) LessThan(other Money) bool { return m.amount.LessThan(other.amount) }

func (m Money) GreaterThan(other Money) bool { return m.amount.GreaterThan(other.amount) }

func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) Money {
	if other.LessThan(m) {
		return other
	}
	return m
}

// Max returns the larger of m and other.
func (m Money) Max(other Money) Money {
	if other.GreaterThan(m) {
		return other
	}
	return m
}

func (m Money) String() string { return m.amount.String() }

// Float64 is for display and JSON only; never feed it back into arithmetic.
func (m Money) Float64() float64 { return m.amount.InexactFloat64() }

// MarshalJSON renders the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.amount.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.amount.UnmarshalJSON(data)
}
