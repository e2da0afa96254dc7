package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// FlashLoanMode selects, per asset, what happens after the receiver callback
// returns.
type FlashLoanMode int

const (
	// FlashLoanModeRepay pull principal plus premium back from the receiver
	FlashLoanModeRepay FlashLoanMode = iota
	// FlashLoanModeStableDebt keep the funds, open stable debt for the principal
	FlashLoanModeStableDebt
	// FlashLoanModeVariableDebt keep the funds, open variable debt for the principal
	FlashLoanModeVariableDebt
)

// FlashLoanReceiver is the externally supplied callback. It is invoked
// exactly once per flash-loan call, after all funds have been released.
// Returning an error aborts the whole call with no state change. For assets
// in repay mode the receiver must arrange for amount+premium to be available
// for pull-back before returning.
type FlashLoanReceiver interface {
	ExecuteOperation(ctx context.Context, assets []string, amounts, premiums []decimal.Decimal, initiator string, params []byte) error
}

// FlashLoanRequest one flash-loan call, possibly spanning several assets of
// the local chain. Assets are settled in the supplied order.
type FlashLoanRequest struct {
	Caller          string
	Initiator       string
	ReceiverAccount string
	Receiver        FlashLoanReceiver
	OnBehalfOf      string
	Assets          []string
	Amounts         []decimal.Decimal
	Modes           []FlashLoanMode
	Params          []byte
	Referral        string
	TraceID         string
}

// IFlashLoanService flash-loan coordinator interface
type IFlashLoanService interface {
	FlashLoan(ctx context.Context, req *FlashLoanRequest) error
}
