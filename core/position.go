package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"

	"lendpool/pkg/ray"
)

// Position holds one user's balances in one reserve. Claim and variable
// debt balances are scaled: the real balance is scaled x the reserve's
// matching index at read time. Stable debt is a principal compounding at
// the rate fixed when it was minted.
type Position struct {
	ID                  uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	UserID              string          `sql:"size:36;unique_index:user_asset_idx" json:"user_id"`
	AssetID             string          `sql:"size:36;unique_index:user_asset_idx" json:"asset_id"`
	ScaledClaimBalance  decimal.Decimal `sql:"type:decimal(60,27)" json:"scaled_claim_balance"`
	ScaledVariableDebt  decimal.Decimal `sql:"type:decimal(60,27)" json:"scaled_variable_debt"`
	StableDebtPrincipal decimal.Decimal `sql:"type:decimal(40,8)" json:"stable_debt_principal"`
	StableBorrowRate    decimal.Decimal `sql:"type:decimal(60,27)" json:"stable_borrow_rate"`
	StableLastUpdate    int64           `sql:"default:0" json:"stable_last_update"`
	Version             int64           `sql:"default:0" json:"version"`
	CreatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt           time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// ClaimBalance real deposit balance at t.
func (p *Position) ClaimBalance(reserve *Reserve, t time.Time) decimal.Decimal {
	return p.ScaledClaimBalance.Mul(reserve.NormalizedIncome(t))
}

// VariableDebt real variable debt at t.
func (p *Position) VariableDebt(reserve *Reserve, t time.Time) decimal.Decimal {
	return p.ScaledVariableDebt.Mul(reserve.NormalizedVariableDebt(t))
}

// StableDebt real stable debt at t, compounded at the position's own rate.
func (p *Position) StableDebt(t time.Time) decimal.Decimal {
	if !p.StableDebtPrincipal.IsPositive() {
		return decimal.Zero
	}
	return p.StableDebtPrincipal.Mul(ray.CompoundedInterest(p.StableBorrowRate, t.Unix()-p.StableLastUpdate))
}

// TotalDebt stable plus variable debt at t.
func (p *Position) TotalDebt(reserve *Reserve, t time.Time) decimal.Decimal {
	return p.StableDebt(t).Add(p.VariableDebt(reserve, t))
}

// IPositionStore position store interface
type IPositionStore interface {
	// Find returns a zero-value position when the user holds nothing in
	// the reserve.
	Find(ctx context.Context, userID, assetID string) (*Position, error)
	FindByUser(ctx context.Context, userID string) ([]*Position, error)
	CountByAsset(ctx context.Context, assetID string) (int64, error)
	Save(ctx context.Context, tx *db.DB, position *Position) error
}
