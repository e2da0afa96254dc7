package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// IPriceOracleService quotes every asset in one common reference unit.
// Account data must be identical for identical state and identical quotes.
type IPriceOracleService interface {
	GetUnderlyingPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
}
