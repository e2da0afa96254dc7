package core

import "github.com/shopspring/decimal"

const (
	// PercentFactor basis-point denominator
	PercentFactor uint64 = 10000
	// FlashLoanPremiumBps flash-loan fee, 9 basis points, fixed at init
	FlashLoanPremiumBps int64 = 9
	// MaxStableRateBorrowSizePercent cap of total stable debt relative to
	// total liquidity, in basis points
	MaxStableRateBorrowSizePercent int64 = 2500
	// RebalanceUsageRatioThreshold usage ratio above which a stable
	// position becomes eligible for rebalancing
	RebalanceUsageRatioThreshold = "0.95"
	// RebalanceLiquidityRateThreshold rebalance is allowed only when the
	// deposit yield dropped below this fraction of the variable rate
	RebalanceLiquidityRateThreshold = "0.9"
	// MaxReserveID highest reserve id the uint64 user bitmaps can track;
	// reserve creation stops once ids reach it
	MaxReserveID uint64 = 63
)

// MaxHealthFactor sentinel health factor reported when a user has no debt.
var MaxHealthFactor = decimal.New(1, 27)

// MaxAmount sentinel request amount meaning "the full balance".
var MaxAmount = decimal.New(-1, 0)

// System stores chain-wide wiring: who may call what, the local chain id
// and the registered sync signers.
type System struct {
	ChainID        int64
	RouterID       string
	ConfiguratorID string
	SyncSigners    []*Signer
	SyncThreshold  int
	Genesis        int64
	Version        string
}

// IsRouter reports whether the caller is the registered router.
func (s *System) IsRouter(caller string) bool {
	return caller != "" && caller == s.RouterID
}

// IsConfigurator reports whether the caller is the registered configurator.
func (s *System) IsConfigurator(caller string) bool {
	return caller != "" && caller == s.ConfiguratorID
}
