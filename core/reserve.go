package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"

	"lendpool/pkg/ray"
)

// Reserve is the per-asset, per-chain accounting record. Indices and rates
// are stored in ray units (27 decimal digits), amounts in the asset's own
// precision. A reserve is created once and never deleted; its id is assigned
// by the database and never reused.
type Reserve struct {
	ID                       uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	ChainID                  int64           `sql:"default:0;unique_index:asset_chain_idx" json:"chain_id"`
	AssetID                  string          `sql:"size:36;unique_index:asset_chain_idx" json:"asset_id"`
	Symbol                   string          `sql:"size:20;index:symbol_idx" json:"symbol"`
	ClaimTokenAssetID        string          `sql:"size:36" json:"claim_token_asset_id"`
	StableDebtTokenAssetID   string          `sql:"size:36" json:"stable_debt_token_asset_id"`
	VariableDebtTokenAssetID string          `sql:"size:36" json:"variable_debt_token_asset_id"`
	LiquidityIndex           decimal.Decimal `sql:"type:decimal(60,27);default:1" json:"liquidity_index"`
	VariableBorrowIndex      decimal.Decimal `sql:"type:decimal(60,27);default:1" json:"variable_borrow_index"`
	CurrentLiquidityRate     decimal.Decimal `sql:"type:decimal(60,27)" json:"current_liquidity_rate"`
	CurrentVariableBorrowRate decimal.Decimal `sql:"type:decimal(60,27)" json:"current_variable_borrow_rate"`
	CurrentStableBorrowRate  decimal.Decimal `sql:"type:decimal(60,27)" json:"current_stable_borrow_rate"`
	AverageStableBorrowRate  decimal.Decimal `sql:"type:decimal(60,27)" json:"average_stable_borrow_rate"`
	AvailableLiquidity       decimal.Decimal `sql:"type:decimal(40,8)" json:"available_liquidity"`
	TotalScaledClaims        decimal.Decimal `sql:"type:decimal(60,27)" json:"total_scaled_claims"`
	TotalScaledVariableDebt  decimal.Decimal `sql:"type:decimal(60,27)" json:"total_scaled_variable_debt"`
	TotalStableDebt          decimal.Decimal `sql:"type:decimal(40,8)" json:"total_stable_debt"`
	StableDebtLastUpdate     int64           `sql:"default:0" json:"stable_debt_last_update"`
	LastUpdateTimestamp      int64           `sql:"default:0" json:"last_update_timestamp"`
	Configuration            ConfigurationBits `sql:"type:varchar(96)" json:"configuration"`

	// interest-rate-strategy parameters, annualized factors
	OptimalUtilization decimal.Decimal `sql:"type:decimal(20,8)" json:"optimal_utilization"`
	BaseVariableRate   decimal.Decimal `sql:"type:decimal(20,8)" json:"base_variable_rate"`
	VariableSlope1     decimal.Decimal `sql:"type:decimal(20,8)" json:"variable_slope1"`
	VariableSlope2     decimal.Decimal `sql:"type:decimal(20,8)" json:"variable_slope2"`
	BaseStableRate     decimal.Decimal `sql:"type:decimal(20,8)" json:"base_stable_rate"`
	StableSlope1       decimal.Decimal `sql:"type:decimal(20,8)" json:"stable_slope1"`
	StableSlope2       decimal.Decimal `sql:"type:decimal(20,8)" json:"stable_slope2"`

	Version   int64     `sql:"default:0" json:"version"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Config unpacks the configuration bitmap.
func (r *Reserve) Config() ReserveConfiguration {
	return UnpackReserveConfiguration(&r.Configuration.Int)
}

// SetConfig packs cfg back into the stored bitmap.
func (r *Reserve) SetConfig(cfg ReserveConfiguration) {
	r.Configuration.Int = *cfg.Pack()
}

// NormalizedIncome returns the liquidity index projected to t with linear
// accrual. Equal to the stored index when no time has elapsed.
func (r *Reserve) NormalizedIncome(t time.Time) decimal.Decimal {
	if t.Unix() == r.LastUpdateTimestamp {
		return r.LiquidityIndex
	}
	return ray.Mul(ray.LinearInterest(r.CurrentLiquidityRate, t.Unix()-r.LastUpdateTimestamp), r.LiquidityIndex)
}

// NormalizedVariableDebt returns the variable borrow index projected to t
// with compounded accrual.
func (r *Reserve) NormalizedVariableDebt(t time.Time) decimal.Decimal {
	if t.Unix() == r.LastUpdateTimestamp {
		return r.VariableBorrowIndex
	}
	return ray.Mul(ray.CompoundedInterest(r.CurrentVariableBorrowRate, t.Unix()-r.LastUpdateTimestamp), r.VariableBorrowIndex)
}

// TotalVariableDebt real variable debt at t.
func (r *Reserve) TotalVariableDebt(t time.Time) decimal.Decimal {
	return r.TotalScaledVariableDebt.Mul(r.NormalizedVariableDebt(t))
}

// TotalClaimSupply real claim-token supply at t.
func (r *Reserve) TotalClaimSupply(t time.Time) decimal.Decimal {
	return r.TotalScaledClaims.Mul(r.NormalizedIncome(t))
}

// IReserveStore reserve store interface
type IReserveStore interface {
	Create(ctx context.Context, tx *db.DB, reserve *Reserve) error
	Find(ctx context.Context, assetID string) (*Reserve, error)
	FindByID(ctx context.Context, id uint64) (*Reserve, error)
	All(ctx context.Context) ([]*Reserve, error)
	Update(ctx context.Context, tx *db.DB, reserve *Reserve) error
}

// IReserveService reserve state machine interface
type IReserveService interface {
	// UpdateState accrues both indices up to now. Idempotent when no time
	// has elapsed since the last update.
	UpdateState(ctx context.Context, reserve *Reserve, now time.Time)
	// CumulateToLiquidityIndex folds an absolute income amount into the
	// liquidity index proportionally to the current total claim supply.
	CumulateToLiquidityIndex(ctx context.Context, reserve *Reserve, totalClaimSupply, amount decimal.Decimal)
	// UpdateInterestRates recomputes the three rates from the strategy,
	// after hypothetically applying the added/taken liquidity.
	UpdateInterestRates(ctx context.Context, reserve *Reserve, liquidityAdded, liquidityTaken decimal.Decimal)
}

// IInterestRateStrategy computes the three reserve rates from utilization.
type IInterestRateStrategy interface {
	CalculateInterestRates(input *RateInput) (liquidityRate, stableRate, variableRate decimal.Decimal)
}

// RateInput carries everything the strategy needs. Rates are annualized ray
// factors, amounts in asset units.
type RateInput struct {
	AvailableLiquidity decimal.Decimal
	TotalStableDebt    decimal.Decimal
	TotalVariableDebt  decimal.Decimal
	AverageStableRate  decimal.Decimal
	ReserveFactor      uint64 // basis points

	OptimalUtilization decimal.Decimal
	BaseVariableRate   decimal.Decimal
	VariableSlope1     decimal.Decimal
	VariableSlope2     decimal.Decimal
	BaseStableRate     decimal.Decimal
	StableSlope1       decimal.Decimal
	StableSlope2       decimal.Decimal
}
