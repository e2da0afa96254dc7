package core

import (
	"time"

	"github.com/shopspring/decimal"

	"lendpool/pkg/ray"
)

// Scaled-balance bookkeeping shared by the pool operations and the
// flash-loan coordinator. Callers must have accrued the reserve with
// IReserveService.UpdateState before mutating balances, so the indices and
// TotalStableDebt are current.

// MintClaim adds amount of the underlying to the user's claim balance,
// scaled down by the current liquidity index.
func MintClaim(reserve *Reserve, position *Position, amount decimal.Decimal) {
	scaled := ray.Div(amount, reserve.LiquidityIndex)
	position.ScaledClaimBalance = position.ScaledClaimBalance.Add(scaled)
	reserve.TotalScaledClaims = reserve.TotalScaledClaims.Add(scaled)
}

// BurnClaim removes amount of the underlying from the user's claim balance.
// Scaled balances are clamped at zero so index rounding can never leave a
// negative dust balance behind.
func BurnClaim(reserve *Reserve, position *Position, amount decimal.Decimal) {
	scaled := ray.DivCeil(amount, reserve.LiquidityIndex)
	position.ScaledClaimBalance = clampZero(position.ScaledClaimBalance.Sub(scaled))
	reserve.TotalScaledClaims = clampZero(reserve.TotalScaledClaims.Sub(scaled))
}

// MintVariableDebt opens amount of variable-rate debt, scaled down by the
// current variable borrow index.
func MintVariableDebt(reserve *Reserve, position *Position, amount decimal.Decimal) {
	scaled := ray.Div(amount, reserve.VariableBorrowIndex)
	position.ScaledVariableDebt = position.ScaledVariableDebt.Add(scaled)
	reserve.TotalScaledVariableDebt = reserve.TotalScaledVariableDebt.Add(scaled)
}

// BurnVariableDebt retires amount of variable-rate debt.
func BurnVariableDebt(reserve *Reserve, position *Position, amount decimal.Decimal) {
	scaled := ray.DivCeil(amount, reserve.VariableBorrowIndex)
	position.ScaledVariableDebt = clampZero(position.ScaledVariableDebt.Sub(scaled))
	reserve.TotalScaledVariableDebt = clampZero(reserve.TotalScaledVariableDebt.Sub(scaled))
}

// MintStableDebt opens amount of stable-rate debt at rate. The position's
// fixed rate and the reserve's average stable rate both move to the
// debt-weighted average of the old debt and the new amount.
func MintStableDebt(reserve *Reserve, position *Position, amount, rate decimal.Decimal, now time.Time) {
	current := position.StableDebt(now)
	position.StableBorrowRate = weightedRate(position.StableBorrowRate, current, rate, amount)
	position.StableDebtPrincipal = current.Add(amount)
	position.StableLastUpdate = now.Unix()

	reserve.AverageStableBorrowRate = weightedRate(reserve.AverageStableBorrowRate, reserve.TotalStableDebt, rate, amount)
	reserve.TotalStableDebt = reserve.TotalStableDebt.Add(amount)
}

// BurnStableDebt retires amount of the position's stable-rate debt,
// re-anchoring the principal at the repaid level. The reserve average is
// unwound by the position's own rate; when the last stable debt is gone both
// the total and the average reset to zero.
func BurnStableDebt(reserve *Reserve, position *Position, amount decimal.Decimal, now time.Time) {
	remaining := clampZero(position.StableDebt(now).Sub(amount))
	position.StableDebtPrincipal = remaining
	position.StableLastUpdate = now.Unix()

	total := clampZero(reserve.TotalStableDebt.Sub(amount))
	if total.IsZero() {
		reserve.AverageStableBorrowRate = decimal.Zero
	} else {
		unwound := ray.Mul(reserve.AverageStableBorrowRate, reserve.TotalStableDebt).
			Sub(ray.Mul(position.StableBorrowRate, amount))
		reserve.AverageStableBorrowRate = clampZero(ray.Div(unwound, total))
	}
	reserve.TotalStableDebt = total

	if remaining.IsZero() {
		position.StableBorrowRate = decimal.Zero
		position.StableLastUpdate = 0
	}
}

func weightedRate(oldRate, oldAmount, newRate, newAmount decimal.Decimal) decimal.Decimal {
	total := oldAmount.Add(newAmount)
	if !total.IsPositive() {
		return newRate
	}
	weighted := ray.Mul(oldRate, oldAmount).Add(ray.Mul(newRate, newAmount))
	return ray.Div(weighted, total)
}

func clampZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
