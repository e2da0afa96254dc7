// Package ray implements the fixed-point arithmetic used by the pool:
// indices and rates carry 27 decimal digits ("ray"), percentages are basis
// points over a 1e4 factor.
package ray

import (
	"github.com/shopspring/decimal"
)

// Precision ray precision, 27 decimal digits
const Precision int32 = 27

// SecondsPerYear accrual denominator
const SecondsPerYear int64 = 31536000

var (
	// One 1.0 in ray terms, the seed value of every index
	One = decimal.New(1, 0)

	two   = decimal.New(2, 0)
	six   = decimal.New(6, 0)
	year  = decimal.NewFromInt(SecondsPerYear)
	// PercentFactor basis-point denominator
	PercentFactor = decimal.New(10000, 0)
)

// Mul multiplies two ray values, truncated to ray precision.
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Truncate(Precision)
}

// Div divides two ray values, truncated to ray precision.
func Div(a, b decimal.Decimal) decimal.Decimal {
	return a.DivRound(b, Precision+1).Truncate(Precision)
}

// DivCeil divides two ray values, rounded up at ray precision. Burning
// scaled balances rounds up so a full repayment or withdrawal never leaves
// sub-precision dust behind.
func DivCeil(a, b decimal.Decimal) decimal.Decimal {
	q := a.DivRound(b, Precision+2)
	t := q.Truncate(Precision)
	if t.Equal(q) || q.IsNegative() {
		return t
	}
	return t.Add(decimal.New(1, -Precision))
}

// PercentMul applies a basis-point percentage, truncated to ray precision.
func PercentMul(a decimal.Decimal, bps int64) decimal.Decimal {
	return a.Mul(decimal.NewFromInt(bps)).DivRound(PercentFactor, Precision+1).Truncate(Precision)
}

// PercentFloor applies a basis-point percentage and floors to an integer
// amount of base units. Flash-loan premiums round down.
func PercentFloor(a decimal.Decimal, bps int64) decimal.Decimal {
	return a.Mul(decimal.NewFromInt(bps)).Div(PercentFactor).Floor()
}

// LinearInterest returns 1 + rate * Δt / secondsPerYear. The rate is an
// annualized ray factor.
func LinearInterest(rate decimal.Decimal, deltaSeconds int64) decimal.Decimal {
	if deltaSeconds <= 0 {
		return One
	}

	return One.Add(rate.Mul(decimal.NewFromInt(deltaSeconds)).DivRound(year, Precision+1)).Truncate(Precision)
}

// CompoundedInterest approximates (1 + rate/secondsPerYear)^Δt with the
// first three terms of the binomial expansion:
//
//	1 + x + x²/2 + x³/6, x = rate * Δt / secondsPerYear
//
// The truncation undershoots the exact compound factor slightly, which
// errs in the borrower's favor.
func CompoundedInterest(rate decimal.Decimal, deltaSeconds int64) decimal.Decimal {
	if deltaSeconds <= 0 {
		return One
	}

	x := rate.Mul(decimal.NewFromInt(deltaSeconds)).DivRound(year, Precision+1).Truncate(Precision)
	x2 := Mul(x, x)
	x3 := Mul(x2, x)

	return One.
		Add(x).
		Add(x2.DivRound(two, Precision+1).Truncate(Precision)).
		Add(x3.DivRound(six, Precision+1).Truncate(Precision))
}
