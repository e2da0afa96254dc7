package memstore

import (
	"context"

	"github.com/shopspring/decimal"

	"lendpool/core"
)

// Oracle fixed-quote oracle for tests.
type Oracle struct {
	prices map[string]decimal.Decimal
}

// NewOracle new fixed-quote oracle.
func NewOracle() *Oracle {
	return &Oracle{prices: map[string]decimal.Decimal{}}
}

// SetPrice fixes the quote for an asset.
func (o *Oracle) SetPrice(assetID string, price decimal.Decimal) {
	o.prices[assetID] = price
}

func (o *Oracle) GetUnderlyingPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	if p, ok := o.prices[assetID]; ok {
		return p, nil
	}
	return decimal.Zero, core.ErrReserveNotFound
}
