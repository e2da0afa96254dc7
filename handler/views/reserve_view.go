package views

import (
	"github.com/shopspring/decimal"

	"lendpool/core"
)

// Reserve reserve view with derived figures
type Reserve struct {
	core.Reserve
	ReserveConfiguration core.ReserveConfiguration `json:"reserve_configuration"`
	TotalClaimSupply     decimal.Decimal           `json:"total_claim_supply"`
	TotalVariableDebt    decimal.Decimal           `json:"total_variable_debt"`
	UtilizationRate      decimal.Decimal           `json:"utilization_rate"`
	Suppliers            int64                     `json:"suppliers"`
}
