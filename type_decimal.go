package whatif

import (
	"math"

	"github.com/shopspring/decimal"
)

// dec converts a record value into an exact decimal. Non-finite values have no
// meaning in a record and count as zero.
func dec(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// round2 rounds to cents (or basis points for percentages) and leaves the decimal world.
func round2(d decimal.Decimal) float64 { return d.Round(2).InexactFloat64() }

// div is a division where a zero divisor yields zero.
func div(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

// floor0 clamps negative values to zero.
func floor0(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// returnOf computes (value - cost) / cost * 100, zero when cost is zero.
func returnOf(value, cost decimal.Decimal) Percent {
	return Percent(round2(div(value.Sub(cost), cost).Mul(decimal.NewFromInt(100))))
}

// value returns the cash value of the trade (shares × price) and whether the price
// is known.
func (t Trade) value() (decimal.Decimal, bool) {
	if t.Price == nil {
		return decimal.Zero, false
	}
	return dec(t.Shares).Mul(dec(*t.Price)), true
}
