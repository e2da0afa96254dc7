package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// LiquidationParams one liquidation request, delegated as-is.
type LiquidationParams struct {
	CollateralAsset   string
	DebtAsset         string
	UserID            string
	DebtToCover       decimal.Decimal
	ReceiveClaimToken bool
	TargetChainID     int64
}

// LiquidationResult collaborator outcome; a non-zero code means failure.
type LiquidationResult struct {
	Code    int
	Message string
}

// Liquidator is the external liquidation-collateral-manager module. The
// pool treats it as opaque and only surfaces success or failure.
type Liquidator interface {
	Liquidate(ctx context.Context, params *LiquidationParams) (*LiquidationResult, error)
}
