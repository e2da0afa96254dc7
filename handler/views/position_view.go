package views

import (
	"github.com/shopspring/decimal"

	"lendpool/core"
)

// Position user position view with current balances
type Position struct {
	core.Position
	ClaimBalance     decimal.Decimal `json:"claim_balance"`
	VariableDebt     decimal.Decimal `json:"variable_debt"`
	StableDebt       decimal.Decimal `json:"stable_debt"`
	UsedAsCollateral bool            `json:"used_as_collateral"`
	Borrowing        bool            `json:"borrowing"`
}

// Account user account view
type Account struct {
	core.AccountData
	Positions []*Position `json:"positions,omitempty"`
}
