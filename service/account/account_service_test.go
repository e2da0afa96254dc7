package account

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendpool/core"
	"lendpool/internal/memstore"
	"lendpool/pkg/ray"
)

func setup(t *testing.T) (*memstore.ReserveStore, *memstore.PositionStore, *memstore.UserConfigStore, *memstore.Oracle, core.IAccountService) {
	reserves := memstore.NewReserveStore()
	positions := memstore.NewPositionStore()
	userConfigs := memstore.NewUserConfigStore()
	oracle := memstore.NewOracle()

	svc := New(reserves, positions, userConfigs, oracle)
	return reserves, positions, userConfigs, oracle, svc
}

func addReserve(t *testing.T, reserves *memstore.ReserveStore, assetID string, ltv, threshold uint64) *core.Reserve {
	r := &core.Reserve{
		AssetID:             assetID,
		Symbol:              assetID,
		LiquidityIndex:      ray.One,
		VariableBorrowIndex: ray.One,
	}
	r.SetConfig(core.ReserveConfiguration{
		LTV:                  ltv,
		LiquidationThreshold: threshold,
		LiquidationBonus:     10500,
		Decimals:             8,
		Active:               true,
		BorrowingEnabled:     true,
		ReserveFactor:        1000,
	})
	require.Nil(t, reserves.Create(context.Background(), nil, r))
	return r
}

func TestAccountDataNoPositions(t *testing.T) {
	_, _, _, _, svc := setup(t)

	data, err := svc.CalculateUserAccountData(context.Background(), "user-1", time.Now())
	require.Nil(t, err)

	assert.True(t, data.TotalCollateral.IsZero())
	assert.True(t, data.TotalDebt.IsZero())
	assert.True(t, data.HealthFactor.Equal(core.MaxHealthFactor))
}

func TestAccountDataAggregation(t *testing.T) {
	ctx := context.Background()
	reserves, positions, userConfigs, oracle, svc := setup(t)
	now := time.Unix(1600000000, 0)

	btc := addReserve(t, reserves, "btc", 7000, 7500)
	usd := addReserve(t, reserves, "usd", 8000, 8500)
	oracle.SetPrice("btc", decimal.NewFromInt(10000))
	oracle.SetPrice("usd", decimal.NewFromInt(1))

	// 2 BTC collateral, 5000 USD variable debt
	require.Nil(t, positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "btc",
		ScaledClaimBalance: decimal.NewFromInt(2),
	}))
	require.Nil(t, positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "usd",
		ScaledVariableDebt: decimal.NewFromInt(5000),
	}))

	cfg := &core.UserConfiguration{UserID: "user-1"}
	cfg.SetUsingAsCollateral(btc.ID, true)
	cfg.SetBorrowing(usd.ID, true)
	require.Nil(t, userConfigs.Save(ctx, nil, cfg))

	data, err := svc.CalculateUserAccountData(ctx, "user-1", now)
	require.Nil(t, err)

	require.True(t, data.TotalCollateral.Equal(decimal.NewFromInt(20000)))
	require.True(t, data.TotalDebt.Equal(decimal.NewFromInt(5000)))

	// hf = 20000 * 0.75 / 5000 = 3
	assert.True(t, data.HealthFactor.Equal(decimal.NewFromInt(3)))
	// available = 20000 * 0.7 - 5000 = 9000
	assert.True(t, data.AvailableBorrows.Equal(decimal.NewFromInt(9000)))
}

func TestAccountDataDeterministic(t *testing.T) {
	ctx := context.Background()
	reserves, positions, userConfigs, oracle, svc := setup(t)
	now := time.Unix(1600000000, 0)

	for _, asset := range []string{"a1", "a2", "a3"} {
		r := addReserve(t, reserves, asset, 5000, 6000)
		oracle.SetPrice(asset, decimal.NewFromInt(2))

		require.Nil(t, positions.Save(ctx, nil, &core.Position{
			UserID:             "user-1",
			AssetID:            asset,
			ScaledClaimBalance: decimal.NewFromInt(100),
			ScaledVariableDebt: decimal.NewFromInt(10),
		}))

		cfg, err := userConfigs.Find(ctx, "user-1")
		require.Nil(t, err)
		cfg.SetUsingAsCollateral(r.ID, true)
		cfg.SetBorrowing(r.ID, true)
		require.Nil(t, userConfigs.Save(ctx, nil, cfg))
	}

	first, err := svc.CalculateUserAccountData(ctx, "user-1", now)
	require.Nil(t, err)

	for i := 0; i < 10; i++ {
		again, err := svc.CalculateUserAccountData(ctx, "user-1", now)
		require.Nil(t, err)
		assert.True(t, again.HealthFactor.Equal(first.HealthFactor))
		assert.True(t, again.TotalCollateral.Equal(first.TotalCollateral))
	}
}

func TestHealthFactorAfterDecrease(t *testing.T) {
	ctx := context.Background()
	reserves, positions, userConfigs, oracle, svc := setup(t)
	now := time.Unix(1600000000, 0)

	btc := addReserve(t, reserves, "btc", 7000, 7500)
	oracle.SetPrice("btc", decimal.NewFromInt(10000))

	require.Nil(t, positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "btc",
		ScaledClaimBalance: decimal.NewFromInt(2),
		ScaledVariableDebt: decimal.NewFromInt(1),
	}))

	cfg := &core.UserConfiguration{UserID: "user-1"}
	cfg.SetUsingAsCollateral(btc.ID, true)
	cfg.SetBorrowing(btc.ID, true)
	require.Nil(t, userConfigs.Save(ctx, nil, cfg))

	// withdrawing 1 BTC leaves 1 BTC backing 1 BTC of debt: hf = 0.75
	hf, err := svc.HealthFactorAfterDecrease(ctx, "user-1", "btc", decimal.NewFromInt(1), now)
	require.Nil(t, err)
	assert.True(t, hf.Equal(decimal.RequireFromString("0.75")))
}
