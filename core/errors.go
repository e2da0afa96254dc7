package core

import "strconv"

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrOperationForbidden operation forbidden
	ErrOperationForbidden ErrorCode = 100001
	// ErrPoolPaused pool is paused
	ErrPoolPaused ErrorCode = 100002

	// ErrCallerNotRouter caller is not the registered router
	ErrCallerNotRouter ErrorCode = 100100
	// ErrCallerNotConfigurator caller is not the registered configurator
	ErrCallerNotConfigurator ErrorCode = 100101

	// ErrReserveNotFound no reserve for the asset
	ErrReserveNotFound ErrorCode = 100200
	// ErrReserveNotActive reserve not active
	ErrReserveNotActive ErrorCode = 100201
	// ErrReserveFrozen reserve frozen
	ErrReserveFrozen ErrorCode = 100202
	// ErrBorrowingDisabled borrowing disabled on the reserve
	ErrBorrowingDisabled ErrorCode = 100203
	// ErrStableBorrowingDisabled stable borrowing disabled on the reserve
	ErrStableBorrowingDisabled ErrorCode = 100204
	// ErrInvalidAmount invalid amount
	ErrInvalidAmount ErrorCode = 100205
	// ErrInsufficientLiquidity insufficient available liquidity
	ErrInsufficientLiquidity ErrorCode = 100206
	// ErrHealthFactorTooLow health factor would fall below one
	ErrHealthFactorTooLow ErrorCode = 100207
	// ErrCollateralCannotCover collateral cannot cover the new borrow
	ErrCollateralCannotCover ErrorCode = 100208
	// ErrStableBorrowCapExceeded total stable debt over the reserve cap
	ErrStableBorrowCapExceeded ErrorCode = 100209
	// ErrNoDebtOfSelectedMode no debt of the selected rate mode
	ErrNoDebtOfSelectedMode ErrorCode = 100210
	// ErrInconsistentParams mismatched parameter array lengths
	ErrInconsistentParams ErrorCode = 100211
	// ErrRebalanceConditionsNotMet rebalance eligibility not met
	ErrRebalanceConditionsNotMet ErrorCode = 100212
	// ErrDepositAlreadyInUse collateral still backing debt
	ErrDepositAlreadyInUse ErrorCode = 100213
	// ErrReserveAlreadyInitialized reserve already initialized
	ErrReserveAlreadyInitialized ErrorCode = 100214
	// ErrInvalidConfiguration reserve configuration out of range
	ErrInvalidConfiguration ErrorCode = 100215
	// ErrNoCollateralBalance no collateral balance on the reserve
	ErrNoCollateralBalance ErrorCode = 100216
	// ErrTooManyReserves reserve id space exhausted
	ErrTooManyReserves ErrorCode = 100217

	// ErrFlashLoanCallbackFailed receiver callback did not return success
	ErrFlashLoanCallbackFailed ErrorCode = 100300

	// ErrBadMessageOrigin message origin is not the configurator
	ErrBadMessageOrigin ErrorCode = 100400
	// ErrWrongChainID message chain id does not match the local chain
	ErrWrongChainID ErrorCode = 100401
	// ErrWrongSelector message selector is not a known tag
	ErrWrongSelector ErrorCode = 100402
	// ErrMessageAuthFailed message authenticity proof failed
	ErrMessageAuthFailed ErrorCode = 100403

	// ErrLiquidationFailed liquidation collaborator reported failure
	ErrLiquidationFailed ErrorCode = 100500
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}
