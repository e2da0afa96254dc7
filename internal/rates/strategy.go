// Package rates implements the default dual-slope interest-rate strategy:
// rates climb gently up to the optimal utilization and steeply past it.
package rates

import (
	"github.com/shopspring/decimal"

	"lendpool/core"
	"lendpool/pkg/ray"
)

type strategy struct{}

// New returns the default strategy. All parameters live on the reserve and
// arrive through the rate input, so one instance serves every reserve.
func New() core.IInterestRateStrategy {
	return &strategy{}
}

func (s *strategy) CalculateInterestRates(in *core.RateInput) (liquidityRate, stableRate, variableRate decimal.Decimal) {
	totalDebt := in.TotalStableDebt.Add(in.TotalVariableDebt)

	utilization := decimal.Zero
	if totalDebt.IsPositive() {
		utilization = ray.Div(totalDebt, in.AvailableLiquidity.Add(totalDebt))
	}

	variableRate = slopedRate(utilization, in.OptimalUtilization, in.BaseVariableRate, in.VariableSlope1, in.VariableSlope2)
	stableRate = slopedRate(utilization, in.OptimalUtilization, in.BaseStableRate, in.StableSlope1, in.StableSlope2)

	overall := overallBorrowRate(in.TotalStableDebt, in.TotalVariableDebt, in.AverageStableRate, variableRate)
	liquidityRate = ray.PercentMul(ray.Mul(overall, utilization), int64(core.PercentFactor)-int64(in.ReserveFactor))

	return liquidityRate, stableRate, variableRate
}

func slopedRate(utilization, optimal, base, slope1, slope2 decimal.Decimal) decimal.Decimal {
	if !optimal.IsPositive() || utilization.LessThanOrEqual(optimal) {
		if !optimal.IsPositive() {
			return base.Add(slope1).Add(slope2)
		}
		return base.Add(ray.Mul(slope1, ray.Div(utilization, optimal)))
	}

	excess := ray.Div(utilization.Sub(optimal), ray.One.Sub(optimal))
	return base.Add(slope1).Add(ray.Mul(slope2, excess))
}

// overallBorrowRate debt-weighted average of the two borrow rates.
func overallBorrowRate(totalStableDebt, totalVariableDebt, averageStableRate, variableRate decimal.Decimal) decimal.Decimal {
	totalDebt := totalStableDebt.Add(totalVariableDebt)
	if !totalDebt.IsPositive() {
		return decimal.Zero
	}

	weighted := ray.Mul(totalVariableDebt, variableRate).Add(ray.Mul(totalStableDebt, averageStableRate))
	return ray.Div(weighted, totalDebt)
}
