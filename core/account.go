package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AccountData aggregates a user's positions across all reserves into one
// set of figures in the oracle's reference unit.
type AccountData struct {
	UserID                      string          `json:"user_id"`
	TotalCollateral             decimal.Decimal `json:"total_collateral"`
	TotalDebt                   decimal.Decimal `json:"total_debt"`
	AvailableBorrows            decimal.Decimal `json:"available_borrows"`
	CurrentLTV                  decimal.Decimal `json:"current_ltv"`
	CurrentLiquidationThreshold decimal.Decimal `json:"current_liquidation_threshold"`
	HealthFactor                decimal.Decimal `json:"health_factor"`
}

// IAccountService account health calculator interface
type IAccountService interface {
	// CalculateUserAccountData walks the user's reserves in id order.
	// HealthFactor is MaxHealthFactor when the user has no debt.
	CalculateUserAccountData(ctx context.Context, userID string, now time.Time) (*AccountData, error)
	// HealthFactorAfterDecrease recomputes the health factor as if amount
	// of the asset were removed from the user's collateral.
	HealthFactorAfterDecrease(ctx context.Context, userID, assetID string, amount decimal.Decimal, now time.Time) (decimal.Decimal, error)
	// HealthFactorAfterBorrow recomputes the health factor as if amount of
	// the asset were borrowed by the user.
	HealthFactorAfterBorrow(ctx context.Context, userID, assetID string, amount decimal.Decimal, now time.Time) (decimal.Decimal, error)
}
