package validate

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"lendpool/core"
	"lendpool/pkg/ray"
)

var (
	one = decimal.New(1, 0)

	rebalanceUsageRatio     = decimal.RequireFromString(core.RebalanceUsageRatioThreshold)
	rebalanceLiquidityRatio = decimal.RequireFromString(core.RebalanceLiquidityRateThreshold)
)

type validateService struct {
	accountService core.IAccountService
	priceService   core.IPriceOracleService
}

// New new validation service
func New(accountService core.IAccountService, priceService core.IPriceOracleService) core.IValidationService {
	return &validateService{
		accountService: accountService,
		priceService:   priceService,
	}
}

func (s *validateService) ValidateDeposit(reserve *core.Reserve, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	cfg := reserve.Config()
	if !cfg.Active {
		return core.ErrReserveNotActive
	}
	if cfg.Frozen {
		return core.ErrReserveFrozen
	}

	return nil
}

func (s *validateService) ValidateWithdraw(ctx context.Context, reserve *core.Reserve, userID string, amount, userBalance decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() || amount.GreaterThan(userBalance) {
		return core.ErrInvalidAmount
	}

	if !reserve.Config().Active {
		return core.ErrReserveNotActive
	}

	healthFactor, err := s.accountService.HealthFactorAfterDecrease(ctx, userID, reserve.AssetID, amount, now)
	if err != nil {
		return err
	}
	if healthFactor.LessThan(one) {
		return core.ErrHealthFactorTooLow
	}

	return nil
}

func (s *validateService) ValidateBorrow(ctx context.Context, reserve *core.Reserve, userID string, amount decimal.Decimal, rateMode core.RateMode, now time.Time) error {
	if !amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	cfg := reserve.Config()
	if !cfg.Active {
		return core.ErrReserveNotActive
	}
	if cfg.Frozen {
		return core.ErrReserveFrozen
	}
	if !cfg.BorrowingEnabled {
		return core.ErrBorrowingDisabled
	}

	if amount.GreaterThan(reserve.AvailableLiquidity) {
		return core.ErrInsufficientLiquidity
	}

	data, err := s.accountService.CalculateUserAccountData(ctx, userID, now)
	if err != nil {
		return err
	}

	price, err := s.priceService.GetUnderlyingPrice(ctx, reserve.AssetID)
	if err != nil {
		return err
	}
	if amount.Mul(price).GreaterThan(data.AvailableBorrows) {
		return core.ErrCollateralCannotCover
	}

	healthFactor, err := s.accountService.HealthFactorAfterBorrow(ctx, userID, reserve.AssetID, amount, now)
	if err != nil {
		return err
	}
	if healthFactor.LessThan(one) {
		return core.ErrHealthFactorTooLow
	}

	if rateMode == core.RateModeStable {
		if !cfg.StableBorrowingEnabled {
			return core.ErrStableBorrowingDisabled
		}

		totalLiquidity := reserve.AvailableLiquidity.
			Add(reserve.TotalVariableDebt(now)).
			Add(reserve.TotalStableDebt)
		maxStableDebt := ray.PercentMul(totalLiquidity, core.MaxStableRateBorrowSizePercent)

		if reserve.TotalStableDebt.Add(amount).GreaterThan(maxStableDebt) {
			return core.ErrStableBorrowCapExceeded
		}
	}

	return nil
}

func (s *validateService) ValidateRepay(reserve *core.Reserve, position *core.Position, rateMode core.RateMode, amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() && !amount.Equal(core.MaxAmount) {
		return core.ErrInvalidAmount
	}

	if !reserve.Config().Active {
		return core.ErrReserveNotActive
	}

	if !debtOfMode(reserve, position, rateMode, now).IsPositive() {
		return core.ErrNoDebtOfSelectedMode
	}

	return nil
}

func (s *validateService) ValidateSwapRateMode(reserve *core.Reserve, position *core.Position, rateMode core.RateMode, now time.Time) error {
	cfg := reserve.Config()
	if !cfg.Active {
		return core.ErrReserveNotActive
	}
	if cfg.Frozen {
		return core.ErrReserveFrozen
	}

	if !debtOfMode(reserve, position, rateMode, now).IsPositive() {
		return core.ErrNoDebtOfSelectedMode
	}

	// swapping into stable is only possible where stable borrowing is on
	if rateMode == core.RateModeVariable && !cfg.StableBorrowingEnabled {
		return core.ErrStableBorrowingDisabled
	}

	return nil
}

// ValidateRebalanceStableBorrowRate allows a rebalance only when the
// reserve is almost fully lent out and depositors earn too little relative
// to the variable borrow rate.
func (s *validateService) ValidateRebalanceStableBorrowRate(reserve *core.Reserve, position *core.Position, now time.Time) error {
	if !reserve.Config().Active {
		return core.ErrReserveNotActive
	}

	if !position.StableDebt(now).IsPositive() {
		return core.ErrNoDebtOfSelectedMode
	}

	totalDebt := reserve.TotalVariableDebt(now).Add(reserve.TotalStableDebt)
	totalLiquidity := reserve.AvailableLiquidity.Add(totalDebt)
	if !totalLiquidity.IsPositive() {
		return core.ErrRebalanceConditionsNotMet
	}

	usageRatio := ray.Div(totalDebt, totalLiquidity)
	maxLiquidityRate := ray.Mul(reserve.CurrentVariableBorrowRate, rebalanceLiquidityRatio)

	if usageRatio.LessThan(rebalanceUsageRatio) || reserve.CurrentLiquidityRate.GreaterThan(maxLiquidityRate) {
		return core.ErrRebalanceConditionsNotMet
	}

	return nil
}

func (s *validateService) ValidateSetUseReserveAsCollateral(ctx context.Context, reserve *core.Reserve, userID string, useAsCollateral bool, balance decimal.Decimal, now time.Time) error {
	if !balance.IsPositive() {
		return core.ErrNoCollateralBalance
	}

	if useAsCollateral {
		return nil
	}

	healthFactor, err := s.accountService.HealthFactorAfterDecrease(ctx, userID, reserve.AssetID, balance, now)
	if err != nil {
		return err
	}
	if healthFactor.LessThan(one) {
		return core.ErrDepositAlreadyInUse
	}

	return nil
}

func (s *validateService) ValidateFlashLoan(req *core.FlashLoanRequest) error {
	if len(req.Assets) == 0 ||
		len(req.Assets) != len(req.Amounts) ||
		len(req.Assets) != len(req.Modes) {
		return core.ErrInconsistentParams
	}

	if req.Receiver == nil {
		return core.ErrInconsistentParams
	}

	for _, amount := range req.Amounts {
		if !amount.IsPositive() {
			return core.ErrInvalidAmount
		}
	}

	return nil
}

func (s *validateService) ValidateTransfer(ctx context.Context, userID, assetID string, amount decimal.Decimal, now time.Time) error {
	healthFactor, err := s.accountService.HealthFactorAfterDecrease(ctx, userID, assetID, amount, now)
	if err != nil {
		return err
	}
	if healthFactor.LessThan(one) {
		return core.ErrHealthFactorTooLow
	}

	return nil
}

func debtOfMode(reserve *core.Reserve, position *core.Position, rateMode core.RateMode, now time.Time) decimal.Decimal {
	switch rateMode {
	case core.RateModeStable:
		return position.StableDebt(now)
	case core.RateModeVariable:
		return position.VariableDebt(reserve, now)
	default:
		return decimal.Zero
	}
}
