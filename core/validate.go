package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RateMode identifies the interest mode of a debt.
type RateMode int

const (
	// RateModeNone no debt
	RateModeNone RateMode = iota
	// RateModeStable stable-rate debt
	RateModeStable
	// RateModeVariable variable-rate debt
	RateModeVariable
)

// IValidationService runs the precondition checks of every mutating
// operation. All checks are read-only; a failed check aborts the calling
// operation before it mutates anything.
type IValidationService interface {
	ValidateDeposit(reserve *Reserve, amount decimal.Decimal) error
	ValidateWithdraw(ctx context.Context, reserve *Reserve, userID string, amount, userBalance decimal.Decimal, now time.Time) error
	ValidateBorrow(ctx context.Context, reserve *Reserve, userID string, amount decimal.Decimal, rateMode RateMode, now time.Time) error
	ValidateRepay(reserve *Reserve, position *Position, rateMode RateMode, amount decimal.Decimal, now time.Time) error
	ValidateSwapRateMode(reserve *Reserve, position *Position, rateMode RateMode, now time.Time) error
	ValidateRebalanceStableBorrowRate(reserve *Reserve, position *Position, now time.Time) error
	ValidateSetUseReserveAsCollateral(ctx context.Context, reserve *Reserve, userID string, useAsCollateral bool, balance decimal.Decimal, now time.Time) error
	ValidateFlashLoan(req *FlashLoanRequest) error
	ValidateTransfer(ctx context.Context, userID, assetID string, amount decimal.Decimal, now time.Time) error
}
