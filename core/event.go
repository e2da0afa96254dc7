package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/jmoiron/sqlx/types"
	"github.com/shopspring/decimal"
)

const (
	// EventTypeDeposit deposit
	EventTypeDeposit = "deposit"
	// EventTypeWithdraw withdraw
	EventTypeWithdraw = "withdraw"
	// EventTypeBorrow borrow
	EventTypeBorrow = "borrow"
	// EventTypeRepay repay
	EventTypeRepay = "repay"
	// EventTypeSwap swap borrow rate mode
	EventTypeSwap = "swap"
	// EventTypeRebalanceStableBorrowRate rebalance stable borrow rate
	EventTypeRebalanceStableBorrowRate = "rebalance_stable_borrow_rate"
	// EventTypeCollateralEnabled reserve used as collateral enabled
	EventTypeCollateralEnabled = "reserve_used_as_collateral_enabled"
	// EventTypeCollateralDisabled reserve used as collateral disabled
	EventTypeCollateralDisabled = "reserve_used_as_collateral_disabled"
	// EventTypeFlashLoan flash loan, one record per asset
	EventTypeFlashLoan = "flash_loan"
	// EventTypeReserveConfigurationChanged reserve configuration changed
	EventTypeReserveConfigurationChanged = "reserve_configuration_changed"
	// EventTypeReserveInitialized reserve initialized
	EventTypeReserveInitialized = "reserve_initialized"
	// EventTypeLiquidationCall liquidation call delegated
	EventTypeLiquidationCall = "liquidation_call"
)

// Event is an observable record emitted for external monitoring, persisted
// in the same transaction as the mutation it describes.
type Event struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID   string          `sql:"size:36;index:trace_idx" json:"trace_id"`
	ChainID   int64           `sql:"default:0" json:"chain_id"`
	Type      string          `sql:"size:64;index:type_idx" json:"type"`
	UserID    string          `sql:"size:36;index:user_idx" json:"user_id"`
	AssetID   string          `sql:"size:36" json:"asset_id"`
	Amount    decimal.Decimal `sql:"type:decimal(40,8)" json:"amount"`
	Data      types.JSONText  `sql:"type:varchar(2048)" json:"data,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// SetData marshals v into the event's data column.
func (e *Event) SetData(v interface{}) error {
	bts, err := json.Marshal(v)
	if err != nil {
		return err
	}
	e.Data = types.JSONText(bts)
	return nil
}

// FlashLoanEventData extra fields of a per-asset flash-loan record.
type FlashLoanEventData struct {
	Mode         FlashLoanMode   `json:"mode"`
	DebtFallback bool            `json:"debt_fallback"`
	Initiator    string          `json:"initiator"`
	Receiver     string          `json:"receiver"`
	Premium      decimal.Decimal `json:"premium"`
	Referral     string          `json:"referral,omitempty"`
}

// IEventStore event store interface
type IEventStore interface {
	Create(ctx context.Context, tx *db.DB, event *Event) error
	List(ctx context.Context, fromID uint64, limit int) ([]*Event, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*Event, error)
}
