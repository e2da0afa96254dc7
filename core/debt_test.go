package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendpool/pkg/ray"
)

func TestClaimMintBurnRoundTrip(t *testing.T) {
	reserve := &Reserve{
		LiquidityIndex:      decimal.RequireFromString("1.000000013571189563172876719"),
		VariableBorrowIndex: ray.One,
	}
	position := &Position{UserID: "u", AssetID: "a"}

	amount := decimal.RequireFromString("123.456789")
	MintClaim(reserve, position, amount)
	require.True(t, position.ScaledClaimBalance.IsPositive())

	now := time.Unix(1600000000, 0)
	reserve.LastUpdateTimestamp = now.Unix()

	// burning the full real balance clears the scaled balance exactly
	balance := position.ClaimBalance(reserve, now)
	BurnClaim(reserve, position, balance)

	assert.True(t, position.ScaledClaimBalance.IsZero())
	assert.True(t, reserve.TotalScaledClaims.IsZero())
}

func TestVariableDebtMintBurnRoundTrip(t *testing.T) {
	reserve := &Reserve{
		LiquidityIndex:      ray.One,
		VariableBorrowIndex: decimal.RequireFromString("1.000000021083911132544329089"),
	}
	position := &Position{UserID: "u", AssetID: "a"}

	MintVariableDebt(reserve, position, decimal.NewFromInt(5000))

	now := time.Unix(1600000000, 0)
	reserve.LastUpdateTimestamp = now.Unix()

	debt := position.VariableDebt(reserve, now)
	BurnVariableDebt(reserve, position, debt)

	assert.True(t, position.ScaledVariableDebt.IsZero())
	assert.True(t, reserve.TotalScaledVariableDebt.IsZero())
}

func TestStableDebtWeightedRate(t *testing.T) {
	now := time.Unix(1600000000, 0)
	reserve := &Reserve{
		LiquidityIndex:      ray.One,
		VariableBorrowIndex: ray.One,
	}
	position := &Position{UserID: "u", AssetID: "a"}

	MintStableDebt(reserve, position, decimal.NewFromInt(100), decimal.RequireFromString("0.04"), now)
	require.True(t, position.StableBorrowRate.Equal(decimal.RequireFromString("0.04")))

	// equal amount at 8% moves the blended rate to 6%
	MintStableDebt(reserve, position, decimal.NewFromInt(100), decimal.RequireFromString("0.08"), now)
	assert.True(t, position.StableBorrowRate.Equal(decimal.RequireFromString("0.06")))
	assert.True(t, position.StableDebtPrincipal.Equal(decimal.NewFromInt(200)))
	assert.True(t, reserve.AverageStableBorrowRate.Equal(decimal.RequireFromString("0.06")))
	assert.True(t, reserve.TotalStableDebt.Equal(decimal.NewFromInt(200)))
}

func TestStableDebtBurn(t *testing.T) {
	now := time.Unix(1600000000, 0)
	reserve := &Reserve{
		LiquidityIndex:      ray.One,
		VariableBorrowIndex: ray.One,
	}
	position := &Position{UserID: "u", AssetID: "a"}

	MintStableDebt(reserve, position, decimal.NewFromInt(200), decimal.RequireFromString("0.06"), now)

	BurnStableDebt(reserve, position, decimal.NewFromInt(50), now)
	assert.True(t, position.StableDebtPrincipal.Equal(decimal.NewFromInt(150)))
	assert.True(t, reserve.TotalStableDebt.Equal(decimal.NewFromInt(150)))
	assert.True(t, reserve.AverageStableBorrowRate.Equal(decimal.RequireFromString("0.06")))

	// retiring the rest resets the position and the reserve average
	BurnStableDebt(reserve, position, decimal.NewFromInt(150), now)
	assert.True(t, position.StableDebtPrincipal.IsZero())
	assert.True(t, position.StableBorrowRate.IsZero())
	assert.True(t, reserve.TotalStableDebt.IsZero())
	assert.True(t, reserve.AverageStableBorrowRate.IsZero())
}

func TestStableDebtCompoundsAtRead(t *testing.T) {
	start := time.Unix(1600000000, 0)
	position := &Position{
		UserID:              "u",
		AssetID:             "a",
		StableDebtPrincipal: decimal.NewFromInt(1000),
		StableBorrowRate:    decimal.RequireFromString("0.1"),
		StableLastUpdate:    start.Unix(),
	}

	later := start.Add(365 * 24 * time.Hour)
	debt := position.StableDebt(later)

	assert.True(t, debt.GreaterThan(decimal.RequireFromString("1105")))
	assert.True(t, debt.LessThan(decimal.RequireFromString("1105.2")))
}
