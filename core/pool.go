package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// DepositParams deposit request from the router.
type DepositParams struct {
	Caller  string
	UserID  string
	AssetID string
	Amount  decimal.Decimal
	TraceID string
}

// WithdrawParams withdraw request. Amount may be MaxAmount to withdraw the
// full balance.
type WithdrawParams struct {
	Caller  string
	UserID  string
	AssetID string
	Amount  decimal.Decimal
	To      string
	TraceID string
}

// BorrowParams borrow request. Funds are released to the recipient, which
// may live on another chain.
type BorrowParams struct {
	Caller           string
	UserID           string
	AssetID          string
	Amount           decimal.Decimal
	RateMode         RateMode
	Recipient        string
	RecipientChainID int64
	Referral         string
	TraceID          string
}

// RepayParams repay request. Amount may be MaxAmount to repay the whole
// debt of the selected mode.
type RepayParams struct {
	Caller   string
	UserID   string
	AssetID  string
	Amount   decimal.Decimal
	RateMode RateMode
	TraceID  string
}

// SwapRateModeParams swap the whole debt of one mode into the other.
type SwapRateModeParams struct {
	Caller   string
	UserID   string
	AssetID  string
	RateMode RateMode
	TraceID  string
}

// RebalanceParams re-mint a user's stable debt at the current stable rate.
type RebalanceParams struct {
	Caller  string
	UserID  string
	AssetID string
	TraceID string
}

// CollateralParams toggle a reserve as collateral for the caller.
type CollateralParams struct {
	Caller          string
	UserID          string
	AssetID         string
	UseAsCollateral bool
	TraceID         string
}

// InitReserveParams administrative reserve creation.
type InitReserveParams struct {
	Caller                   string
	AssetID                  string
	Symbol                   string
	ClaimTokenAssetID        string
	StableDebtTokenAssetID   string
	VariableDebtTokenAssetID string
	Configuration            ReserveConfiguration
	Strategy                 RateStrategyParams
	TraceID                  string
}

// RateStrategyParams per-reserve interest-rate-strategy parameters.
type RateStrategyParams struct {
	OptimalUtilization decimal.Decimal `json:"optimal_utilization"`
	BaseVariableRate   decimal.Decimal `json:"base_variable_rate"`
	VariableSlope1     decimal.Decimal `json:"variable_slope1"`
	VariableSlope2     decimal.Decimal `json:"variable_slope2"`
	BaseStableRate     decimal.Decimal `json:"base_stable_rate"`
	StableSlope1       decimal.Decimal `json:"stable_slope1"`
	StableSlope2       decimal.Decimal `json:"stable_slope2"`
}

// IPoolService is the operation surface exposed to the router and the
// configurator. Every call is one transaction: it fully completes or fully
// aborts with a specific error code.
type IPoolService interface {
	Deposit(ctx context.Context, params *DepositParams) error
	Withdraw(ctx context.Context, params *WithdrawParams) (decimal.Decimal, error)
	Borrow(ctx context.Context, params *BorrowParams) error
	Repay(ctx context.Context, params *RepayParams) (decimal.Decimal, error)
	SwapBorrowRateMode(ctx context.Context, params *SwapRateModeParams) error
	RebalanceStableBorrowRate(ctx context.Context, params *RebalanceParams) error
	SetUserUseReserveAsCollateral(ctx context.Context, params *CollateralParams) error
	LiquidationCall(ctx context.Context, params *LiquidationParams, caller string) error
	FlashLoan(ctx context.Context, req *FlashLoanRequest) error

	InitReserve(ctx context.Context, params *InitReserveParams) error
	SetReserveInterestRateStrategy(ctx context.Context, caller, assetID string, strategy RateStrategyParams) error
	SetConfiguration(ctx context.Context, caller, assetID string, cfg ReserveConfiguration) error
	SetPause(ctx context.Context, caller string, paused bool) error

	Paused(ctx context.Context) (bool, error)
	FlashLoanPremium() int64
}
