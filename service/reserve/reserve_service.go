package reserve

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"

	"lendpool/core"
	"lendpool/pkg/ray"
)

type reserveService struct {
	strategy core.IInterestRateStrategy
}

// New new reserve service
func New(strategy core.IInterestRateStrategy) core.IReserveService {
	return &reserveService{strategy: strategy}
}

// UpdateState accrues both indices and the stable debt principal up to now.
// Indices never decrease; zero elapsed time leaves everything untouched.
func (s *reserveService) UpdateState(ctx context.Context, reserve *core.Reserve, now time.Time) {
	elapsed := now.Unix() - reserve.LastUpdateTimestamp
	if elapsed <= 0 {
		return
	}

	if reserve.CurrentLiquidityRate.IsPositive() {
		reserve.LiquidityIndex = ray.Mul(ray.LinearInterest(reserve.CurrentLiquidityRate, elapsed), reserve.LiquidityIndex)
	}

	if reserve.TotalScaledVariableDebt.IsPositive() {
		reserve.VariableBorrowIndex = ray.Mul(ray.CompoundedInterest(reserve.CurrentVariableBorrowRate, elapsed), reserve.VariableBorrowIndex)
	}

	s.accrueStableDebt(reserve, now)
	reserve.LastUpdateTimestamp = now.Unix()
}

// accrueStableDebt re-anchors the total stable debt principal at now,
// compounded at the average stable rate.
func (s *reserveService) accrueStableDebt(reserve *core.Reserve, now time.Time) {
	if reserve.TotalStableDebt.IsPositive() {
		factor := ray.CompoundedInterest(reserve.AverageStableBorrowRate, now.Unix()-reserve.StableDebtLastUpdate)
		reserve.TotalStableDebt = ray.Mul(reserve.TotalStableDebt, factor)
	}

	reserve.StableDebtLastUpdate = now.Unix()
}

// CumulateToLiquidityIndex folds income earned without a matching deposit
// (a flash-loan premium) into the liquidity index, spread over the current
// claim supply.
func (s *reserveService) CumulateToLiquidityIndex(ctx context.Context, reserve *core.Reserve, totalClaimSupply, amount decimal.Decimal) {
	if !totalClaimSupply.IsPositive() || !amount.IsPositive() {
		return
	}

	factor := ray.Div(amount, totalClaimSupply).Add(ray.One)
	reserve.LiquidityIndex = ray.Mul(factor, reserve.LiquidityIndex)
}

// UpdateInterestRates recomputes the three rates from the strategy, after
// hypothetically applying the added and taken liquidity.
func (s *reserveService) UpdateInterestRates(ctx context.Context, reserve *core.Reserve, liquidityAdded, liquidityTaken decimal.Decimal) {
	cfg := reserve.Config()

	input := &core.RateInput{
		AvailableLiquidity: reserve.AvailableLiquidity.Add(liquidityAdded).Sub(liquidityTaken),
		TotalStableDebt:    reserve.TotalStableDebt,
		TotalVariableDebt:  reserve.TotalScaledVariableDebt.Mul(reserve.VariableBorrowIndex),
		AverageStableRate:  reserve.AverageStableBorrowRate,
		ReserveFactor:      cfg.ReserveFactor,
		OptimalUtilization: reserve.OptimalUtilization,
		BaseVariableRate:   reserve.BaseVariableRate,
		VariableSlope1:     reserve.VariableSlope1,
		VariableSlope2:     reserve.VariableSlope2,
		BaseStableRate:     reserve.BaseStableRate,
		StableSlope1:       reserve.StableSlope1,
		StableSlope2:       reserve.StableSlope2,
	}

	liquidityRate, stableRate, variableRate := s.strategy.CalculateInterestRates(input)
	reserve.CurrentLiquidityRate = liquidityRate
	reserve.CurrentStableBorrowRate = stableRate
	reserve.CurrentVariableBorrowRate = variableRate

	logger.FromContext(ctx).WithField("asset", reserve.AssetID).
		Debugf("rates updated: liquidity %s stable %s variable %s",
			liquidityRate, stableRate, variableRate)
}
