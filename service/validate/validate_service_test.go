package validate

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
	"lendpool/service/account"
)

type fixture struct {
	reserves    *memstore.ReserveStore
	positions   *memstore.PositionStore
	userConfigs *memstore.UserConfigStore
	oracle      *memstore.Oracle
	svc         core.IValidationService
}

func setup(t *testing.T) *fixture {
	reserves := memstore.NewReserveStore()
	positions := memstore.NewPositionStore()
	userConfigs := memstore.NewUserConfigStore()
	oracle := memstore.NewOracle()

	accounts := account.New(reserves, positions, userConfigs, oracle)
	return &fixture{
		reserves:    reserves,
		positions:   positions,
		userConfigs: userConfigs,
		oracle:      oracle,
		svc:         New(accounts, oracle),
	}
}

func addReserve(t *testing.T, f *fixture, assetID string, cfg core.ReserveConfiguration, liquidity decimal.Decimal) *core.Reserve {
	r := &core.Reserve{
		AssetID:             assetID,
		Symbol:              assetID,
		LiquidityIndex:      ray.One,
		VariableBorrowIndex: ray.One,
		AvailableLiquidity:  liquidity,
	}
	r.SetConfig(cfg)
	require.Nil(t, f.reserves.Create(context.Background(), nil, r))
	return r
}

func defaultConfig() core.ReserveConfiguration {
	return core.ReserveConfiguration{
		LTV:                  7000,
		LiquidationThreshold: 7500,
		LiquidationBonus:     10500,
		Decimals:             8,
		Active:               true,
		BorrowingEnabled:     true,
		ReserveFactor:        1000,
	}
}

func TestValidateDeposit(t *testing.T) {
	f := setup(t)
	r := addReserve(t, f, "btc", defaultConfig(), decimal.Zero)

	assert.Nil(t, f.svc.ValidateDeposit(r, decimal.NewFromInt(1)))
	assert.Equal(t, core.ErrInvalidAmount, f.svc.ValidateDeposit(r, decimal.Zero))

	cfg := r.Config()
	cfg.Frozen = true
	r.SetConfig(cfg)
	assert.Equal(t, core.ErrReserveFrozen, f.svc.ValidateDeposit(r, decimal.NewFromInt(1)))

	cfg.Active = false
	r.SetConfig(cfg)
	assert.Equal(t, core.ErrReserveNotActive, f.svc.ValidateDeposit(r, decimal.NewFromInt(1)))
}

func TestValidateBorrow(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	now := time.Unix(1600000000, 0)

	btc := addReserve(t, f, "btc", defaultConfig(), decimal.NewFromInt(100))
	usd := addReserve(t, f, "usd", defaultConfig(), decimal.NewFromInt(1000000))
	f.oracle.SetPrice("btc", decimal.NewFromInt(10000))
	f.oracle.SetPrice("usd", decimal.NewFromInt(1))

	// 2 btc of collateral, borrow power 14000 usd
	require.Nil(t, f.positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "btc",
		ScaledClaimBalance: decimal.NewFromInt(2),
	}))
	userCfg := &core.UserConfiguration{UserID: "user-1"}
	userCfg.SetUsingAsCollateral(btc.ID, true)
	require.Nil(t, f.userConfigs.Save(ctx, nil, userCfg))

	assert.Nil(t, f.svc.ValidateBorrow(ctx, usd, "user-1", decimal.NewFromInt(5000), core.RateModeVariable, now))

	assert.Equal(t, core.ErrCollateralCannotCover,
		f.svc.ValidateBorrow(ctx, usd, "user-1", decimal.NewFromInt(15000), core.RateModeVariable, now))

	// more than the reserve holds
	assert.Equal(t, core.ErrInsufficientLiquidity,
		f.svc.ValidateBorrow(ctx, btc, "user-1", decimal.NewFromInt(101), core.RateModeVariable, now))

	cfg := usd.Config()
	cfg.BorrowingEnabled = false
	usd.SetConfig(cfg)
	assert.Equal(t, core.ErrBorrowingDisabled,
		f.svc.ValidateBorrow(ctx, usd, "user-1", decimal.NewFromInt(100), core.RateModeVariable, now))
}

func TestValidateBorrowStableCap(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	now := time.Unix(1600000000, 0)

	btc := addReserve(t, f, "btc", defaultConfig(), decimal.NewFromInt(100))
	f.oracle.SetPrice("btc", decimal.NewFromInt(10000))

	cfg := defaultConfig()
	cfg.StableBorrowingEnabled = true
	usd := addReserve(t, f, "usd", cfg, decimal.NewFromInt(10000))
	f.oracle.SetPrice("usd", decimal.NewFromInt(1))

	require.Nil(t, f.positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "btc",
		ScaledClaimBalance: decimal.NewFromInt(2),
	}))
	userCfg := &core.UserConfiguration{UserID: "user-1"}
	userCfg.SetUsingAsCollateral(btc.ID, true)
	require.Nil(t, f.userConfigs.Save(ctx, nil, userCfg))

	// cap is 25% of total liquidity: 2500 of 10000
	assert.Nil(t, f.svc.ValidateBorrow(ctx, usd, "user-1", decimal.NewFromInt(2500), core.RateModeStable, now))
	assert.Equal(t, core.ErrStableBorrowCapExceeded,
		f.svc.ValidateBorrow(ctx, usd, "user-1", decimal.NewFromInt(2501), core.RateModeStable, now))

	cfg.StableBorrowingEnabled = false
	usd.SetConfig(cfg)
	assert.Equal(t, core.ErrStableBorrowingDisabled,
		f.svc.ValidateBorrow(ctx, usd, "user-1", decimal.NewFromInt(100), core.RateModeStable, now))
}

func TestValidateWithdraw(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	now := time.Unix(1600000000, 0)

	btc := addReserve(t, f, "btc", defaultConfig(), decimal.NewFromInt(100))
	usd := addReserve(t, f, "usd", defaultConfig(), decimal.NewFromInt(1000000))
	f.oracle.SetPrice("btc", decimal.NewFromInt(10000))
	f.oracle.SetPrice("usd", decimal.NewFromInt(1))

	require.Nil(t, f.positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "btc",
		ScaledClaimBalance: decimal.NewFromInt(2),
	}))
	require.Nil(t, f.positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "usd",
		ScaledVariableDebt: decimal.NewFromInt(5000),
	}))
	userCfg := &core.UserConfiguration{UserID: "user-1"}
	userCfg.SetUsingAsCollateral(btc.ID, true)
	userCfg.SetBorrowing(usd.ID, true)
	require.Nil(t, f.userConfigs.Save(ctx, nil, userCfg))

	balance := decimal.NewFromInt(2)

	// hf after withdrawing 0.5 btc: 1.5 * 10000 * 0.75 / 5000 = 2.25
	assert.Nil(t, f.svc.ValidateWithdraw(ctx, btc, "user-1", decimal.NewFromFloat(0.5), balance, now))

	assert.Equal(t, core.ErrHealthFactorTooLow,
		f.svc.ValidateWithdraw(ctx, btc, "user-1", decimal.NewFromInt(2), balance, now))

	assert.Equal(t, core.ErrInvalidAmount,
		f.svc.ValidateWithdraw(ctx, btc, "user-1", decimal.NewFromInt(3), balance, now))
	assert.Equal(t, core.ErrInvalidAmount,
		f.svc.ValidateWithdraw(ctx, btc, "user-1", decimal.Zero, balance, now))
}

func TestValidateRepay(t *testing.T) {
	f := setup(t)
	now := time.Unix(1600000000, 0)

	usd := addReserve(t, f, "usd", defaultConfig(), decimal.NewFromInt(1000))

	position := &core.Position{
		UserID:             "user-1",
		AssetID:            "usd",
		ScaledVariableDebt: decimal.NewFromInt(100),
	}

	assert.Nil(t, f.svc.ValidateRepay(usd, position, core.RateModeVariable, decimal.NewFromInt(50), now))
	assert.Nil(t, f.svc.ValidateRepay(usd, position, core.RateModeVariable, core.MaxAmount, now))

	assert.Equal(t, core.ErrNoDebtOfSelectedMode,
		f.svc.ValidateRepay(usd, position, core.RateModeStable, decimal.NewFromInt(50), now))
	assert.Equal(t, core.ErrInvalidAmount,
		f.svc.ValidateRepay(usd, position, core.RateModeVariable, decimal.Zero, now))
}

func TestValidateSwapRateMode(t *testing.T) {
	f := setup(t)
	now := time.Unix(1600000000, 0)

	cfg := defaultConfig()
	cfg.StableBorrowingEnabled = true
	usd := addReserve(t, f, "usd", cfg, decimal.NewFromInt(1000))

	position := &core.Position{
		UserID:             "user-1",
		AssetID:            "usd",
		ScaledVariableDebt: decimal.NewFromInt(100),
	}

	assert.Nil(t, f.svc.ValidateSwapRateMode(usd, position, core.RateModeVariable, now))
	assert.Equal(t, core.ErrNoDebtOfSelectedMode,
		f.svc.ValidateSwapRateMode(usd, position, core.RateModeStable, now))

	cfg.StableBorrowingEnabled = false
	usd.SetConfig(cfg)
	assert.Equal(t, core.ErrStableBorrowingDisabled,
		f.svc.ValidateSwapRateMode(usd, position, core.RateModeVariable, now))
}

func TestValidateRebalanceStableBorrowRate(t *testing.T) {
	f := setup(t)
	now := time.Unix(1600000000, 0)

	usd := addReserve(t, f, "usd", defaultConfig(), decimal.NewFromInt(50))
	usd.TotalScaledVariableDebt = decimal.NewFromInt(850)
	usd.TotalStableDebt = decimal.NewFromInt(100)
	usd.LastUpdateTimestamp = now.Unix()
	usd.CurrentVariableBorrowRate = decimal.NewFromFloat(0.1)
	usd.CurrentLiquidityRate = decimal.NewFromFloat(0.05)

	position := &core.Position{
		UserID:              "user-1",
		AssetID:             "usd",
		StableDebtPrincipal: decimal.NewFromInt(100),
		StableBorrowRate:    decimal.NewFromFloat(0.1),
		StableLastUpdate:    now.Unix(),
	}

	// usage 950/1000 = 0.95, liquidity rate 0.05 <= 0.9 * 0.1
	assert.Nil(t, f.svc.ValidateRebalanceStableBorrowRate(usd, position, now))

	// depositors already earn enough
	usd.CurrentLiquidityRate = decimal.NewFromFloat(0.095)
	assert.Equal(t, core.ErrRebalanceConditionsNotMet,
		f.svc.ValidateRebalanceStableBorrowRate(usd, position, now))

	// pool not lent out enough
	usd.CurrentLiquidityRate = decimal.NewFromFloat(0.05)
	usd.AvailableLiquidity = decimal.NewFromInt(500)
	assert.Equal(t, core.ErrRebalanceConditionsNotMet,
		f.svc.ValidateRebalanceStableBorrowRate(usd, position, now))

	assert.Equal(t, core.ErrNoDebtOfSelectedMode,
		f.svc.ValidateRebalanceStableBorrowRate(usd, &core.Position{UserID: "user-1", AssetID: "usd"}, now))
}

func TestValidateSetUseReserveAsCollateral(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	now := time.Unix(1600000000, 0)

	btc := addReserve(t, f, "btc", defaultConfig(), decimal.NewFromInt(100))
	usd := addReserve(t, f, "usd", defaultConfig(), decimal.NewFromInt(1000000))
	f.oracle.SetPrice("btc", decimal.NewFromInt(10000))
	f.oracle.SetPrice("usd", decimal.NewFromInt(1))

	assert.Equal(t, core.ErrNoCollateralBalance,
		f.svc.ValidateSetUseReserveAsCollateral(ctx, btc, "user-1", true, decimal.Zero, now))

	balance := decimal.NewFromInt(2)
	assert.Nil(t, f.svc.ValidateSetUseReserveAsCollateral(ctx, btc, "user-1", true, balance, now))
	assert.Nil(t, f.svc.ValidateSetUseReserveAsCollateral(ctx, btc, "user-1", false, balance, now))

	// once the deposit backs outstanding debt it cannot be released
	require.Nil(t, f.positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "btc",
		ScaledClaimBalance: balance,
	}))
	require.Nil(t, f.positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "usd",
		ScaledVariableDebt: decimal.NewFromInt(5000),
	}))
	userCfg := &core.UserConfiguration{UserID: "user-1"}
	userCfg.SetUsingAsCollateral(btc.ID, true)
	userCfg.SetBorrowing(usd.ID, true)
	require.Nil(t, f.userConfigs.Save(ctx, nil, userCfg))

	assert.Equal(t, core.ErrDepositAlreadyInUse,
		f.svc.ValidateSetUseReserveAsCollateral(ctx, btc, "user-1", false, balance, now))
}

func TestValidateTransfer(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	now := time.Unix(1600000000, 0)

	btc := addReserve(t, f, "btc", defaultConfig(), decimal.NewFromInt(100))
	usd := addReserve(t, f, "usd", defaultConfig(), decimal.NewFromInt(1000000))
	f.oracle.SetPrice("btc", decimal.NewFromInt(10000))
	f.oracle.SetPrice("usd", decimal.NewFromInt(1))

	// 2 btc backing 7500 usd of debt, hf = 2 * 10000 * 0.75 / 7500 = 2
	require.Nil(t, f.positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "btc",
		ScaledClaimBalance: decimal.NewFromInt(2),
	}))
	require.Nil(t, f.positions.Save(ctx, nil, &core.Position{
		UserID:             "user-1",
		AssetID:            "usd",
		ScaledVariableDebt: decimal.NewFromInt(7500),
	}))
	userCfg := &core.UserConfiguration{UserID: "user-1"}
	userCfg.SetUsingAsCollateral(btc.ID, true)
	userCfg.SetBorrowing(usd.ID, true)
	require.Nil(t, f.userConfigs.Save(ctx, nil, userCfg))

	// sending 1 btc leaves hf exactly at one, which is still allowed
	assert.Nil(t, f.svc.ValidateTransfer(ctx, "user-1", "btc", decimal.NewFromInt(1), now))

	assert.Equal(t, core.ErrHealthFactorTooLow,
		f.svc.ValidateTransfer(ctx, "user-1", "btc", decimal.NewFromFloat(1.5), now))

	// without debt any transfer passes
	assert.Nil(t, f.svc.ValidateTransfer(ctx, "user-2", "btc", decimal.NewFromInt(1), now))
}

func TestValidateFlashLoan(t *testing.T) {
	f := setup(t)

	receiver := flashLoanReceiverFunc(func(ctx context.Context, assets []string, amounts, premiums []decimal.Decimal, initiator string, params []byte) error {
		return nil
	})

	req := &core.FlashLoanRequest{
		Assets:   []string{"btc", "usd"},
		Amounts:  []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(100)},
		Modes:    []core.FlashLoanMode{core.FlashLoanModeRepay, core.FlashLoanModeRepay},
		Receiver: receiver,
	}
	assert.Nil(t, f.svc.ValidateFlashLoan(req))

	assert.Equal(t, core.ErrInconsistentParams, f.svc.ValidateFlashLoan(&core.FlashLoanRequest{
		Assets:   []string{"btc"},
		Amounts:  []decimal.Decimal{decimal.NewFromInt(1), decimal.NewFromInt(2)},
		Modes:    []core.FlashLoanMode{core.FlashLoanModeRepay},
		Receiver: receiver,
	}))

	assert.Equal(t, core.ErrInconsistentParams, f.svc.ValidateFlashLoan(&core.FlashLoanRequest{
		Assets:  []string{"btc"},
		Amounts: []decimal.Decimal{decimal.NewFromInt(1)},
		Modes:   []core.FlashLoanMode{core.FlashLoanModeRepay},
	}))

	assert.Equal(t, core.ErrInvalidAmount, f.svc.ValidateFlashLoan(&core.FlashLoanRequest{
		Assets:   []string{"btc"},
		Amounts:  []decimal.Decimal{decimal.Zero},
		Modes:    []core.FlashLoanMode{core.FlashLoanModeRepay},
		Receiver: receiver,
	}))
}

type flashLoanReceiverFunc func(ctx context.Context, assets []string, amounts, premiums []decimal.Decimal, initiator string, params []byte) error

func (f flashLoanReceiverFunc) ExecuteOperation(ctx context.Context, assets []string, amounts, premiums []decimal.Decimal, initiator string, params []byte) error {
	return f(ctx, assets, amounts, premiums, initiator, params)
}
