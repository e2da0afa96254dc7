package reserve

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendpool/core"
	"lendpool/internal/rates"
	"lendpool/pkg/ray"
)

func newTestReserve(t int64) *core.Reserve {
	r := &core.Reserve{
		ID:                        1,
		AssetID:                   "asset-1",
		LiquidityIndex:            ray.One,
		VariableBorrowIndex:       ray.One,
		CurrentLiquidityRate:      decimal.RequireFromString("0.05"),
		CurrentVariableBorrowRate: decimal.RequireFromString("0.1"),
		CurrentStableBorrowRate:   decimal.RequireFromString("0.12"),
		AvailableLiquidity:        decimal.NewFromInt(1000000),
		TotalScaledVariableDebt:   decimal.NewFromInt(100000),
		TotalScaledClaims:         decimal.NewFromInt(1000000),
		LastUpdateTimestamp:       t,
		StableDebtLastUpdate:      t,
		OptimalUtilization:        decimal.RequireFromString("0.8"),
		VariableSlope1:            decimal.RequireFromString("0.04"),
		VariableSlope2:            decimal.RequireFromString("0.75"),
		BaseStableRate:            decimal.RequireFromString("0.02"),
		StableSlope1:              decimal.RequireFromString("0.02"),
		StableSlope2:              decimal.RequireFromString("0.75"),
	}
	r.SetConfig(core.ReserveConfiguration{
		LTV:                  7500,
		LiquidationThreshold: 8000,
		LiquidationBonus:     10500,
		Decimals:             8,
		Active:               true,
		BorrowingEnabled:     true,
		ReserveFactor:        1000,
	})
	return r
}

func TestUpdateStateMonotone(t *testing.T) {
	s := New(rates.New())
	ctx := context.Background()

	genesis := time.Unix(1600000000, 0)
	r := newTestReserve(genesis.Unix())

	prevLiquidity := r.LiquidityIndex
	prevBorrow := r.VariableBorrowIndex

	for i := 1; i <= 5; i++ {
		s.UpdateState(ctx, r, genesis.Add(time.Duration(i)*time.Hour))

		require.True(t, r.LiquidityIndex.GreaterThanOrEqual(prevLiquidity), "liquidity index decreased")
		require.True(t, r.VariableBorrowIndex.GreaterThanOrEqual(prevBorrow), "variable borrow index decreased")
		prevLiquidity = r.LiquidityIndex
		prevBorrow = r.VariableBorrowIndex
	}
}

func TestUpdateStateIdempotentAtSameInstant(t *testing.T) {
	s := New(rates.New())
	ctx := context.Background()

	genesis := time.Unix(1600000000, 0)
	r := newTestReserve(genesis.Unix())

	now := genesis.Add(time.Hour)
	s.UpdateState(ctx, r, now)

	liquidity, borrow := r.LiquidityIndex, r.VariableBorrowIndex
	s.UpdateState(ctx, r, now)

	assert.True(t, r.LiquidityIndex.Equal(liquidity))
	assert.True(t, r.VariableBorrowIndex.Equal(borrow))
	assert.Equal(t, now.Unix(), r.LastUpdateTimestamp)
}

func TestNormalizedIncomeMatchesUpdate(t *testing.T) {
	s := New(rates.New())
	ctx := context.Background()

	genesis := time.Unix(1600000000, 0)
	r := newTestReserve(genesis.Unix())

	now := genesis.Add(30 * time.Minute)
	projected := r.NormalizedIncome(now)

	s.UpdateState(ctx, r, now)
	assert.True(t, projected.Equal(r.LiquidityIndex))
}

func TestCumulateToLiquidityIndex(t *testing.T) {
	s := New(rates.New())
	ctx := context.Background()

	r := newTestReserve(1600000000)

	// premium of 450 over a supply of 1,000,000
	s.CumulateToLiquidityIndex(ctx, r, decimal.NewFromInt(1000000), decimal.NewFromInt(450))

	expected := ray.One.Add(decimal.RequireFromString("0.00045"))
	require.True(t, r.LiquidityIndex.Equal(expected))

	// zero supply or zero amount is a no-op
	before := r.LiquidityIndex
	s.CumulateToLiquidityIndex(ctx, r, decimal.Zero, decimal.NewFromInt(450))
	s.CumulateToLiquidityIndex(ctx, r, decimal.NewFromInt(1000000), decimal.Zero)
	assert.True(t, r.LiquidityIndex.Equal(before))
}

func TestUpdateInterestRates(t *testing.T) {
	s := New(rates.New())
	ctx := context.Background()

	r := newTestReserve(1600000000)
	r.TotalScaledVariableDebt = decimal.Zero
	s.UpdateInterestRates(ctx, r, decimal.Zero, decimal.Zero)

	assert.True(t, r.CurrentVariableBorrowRate.IsZero())
	assert.True(t, r.CurrentLiquidityRate.IsZero())
	assert.True(t, r.CurrentStableBorrowRate.Equal(decimal.RequireFromString("0.02")))

	// taking liquidity raises utilization and with it every rate
	r.TotalScaledVariableDebt = decimal.NewFromInt(400000)
	s.UpdateInterestRates(ctx, r, decimal.Zero, decimal.NewFromInt(400000))
	assert.True(t, r.CurrentVariableBorrowRate.IsPositive())
	assert.True(t, r.CurrentLiquidityRate.IsPositive())
}
