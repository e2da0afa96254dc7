package ray

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearInterest(t *testing.T) {
	// 10% per year over a full year
	rate := decimal.RequireFromString("0.1")
	factor := LinearInterest(rate, SecondsPerYear)
	assert.True(t, factor.Equal(decimal.RequireFromString("1.1")))

	// zero elapsed time is the identity
	assert.True(t, LinearInterest(rate, 0).Equal(One))
	assert.True(t, LinearInterest(rate, -5).Equal(One))
}

func TestCompoundedInterest(t *testing.T) {
	rate := decimal.RequireFromString("0.1")

	factor := CompoundedInterest(rate, SecondsPerYear)
	// 1 + 0.1 + 0.005 + 0.000166...
	require.True(t, factor.GreaterThan(decimal.RequireFromString("1.105")))
	require.True(t, factor.LessThan(decimal.RequireFromString("1.1052")))

	// compounding beats linear accrual over any positive horizon
	assert.True(t, factor.GreaterThan(LinearInterest(rate, SecondsPerYear)))

	assert.True(t, CompoundedInterest(rate, 0).Equal(One))
}

func TestPercentFloor(t *testing.T) {
	// 9 bps of 500000 units
	premium := PercentFloor(decimal.NewFromInt(500000), 9)
	assert.True(t, premium.Equal(decimal.NewFromInt(450)))

	// rounds down to zero on dust
	assert.True(t, PercentFloor(decimal.NewFromInt(1), 9).IsZero())
}

func TestMulDiv(t *testing.T) {
	a := decimal.RequireFromString("1.000000000000000000000000001")
	require.True(t, Mul(a, One).Equal(a))
	require.True(t, Div(a, One).Equal(a))

	// truncated to 27 digits
	b := Mul(a, a)
	assert.True(t, b.Exponent() >= -Precision)
}

func TestDivCeil(t *testing.T) {
	// exact quotients are untouched
	require.True(t, DivCeil(One, decimal.NewFromInt(2)).Equal(decimal.RequireFromString("0.5")))

	// inexact quotients round the last ray digit up
	third := Div(One, decimal.NewFromInt(3))
	thirdUp := DivCeil(One, decimal.NewFromInt(3))
	assert.True(t, thirdUp.GreaterThan(third))
	assert.True(t, thirdUp.Sub(third).Equal(decimal.New(1, -Precision)))

	// burning a truncated real balance covers the full scaled balance
	index := decimal.RequireFromString("1.000000013571189563172876719")
	scaled := decimal.RequireFromString("123.456789")
	real := Mul(scaled, index)
	assert.True(t, DivCeil(real, index).GreaterThanOrEqual(scaled))
}
