package core

import (
	"context"
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

// Transfer directions.
const (
	// TransferDirectionOut funds leave the pool's holding
	TransferDirectionOut = iota
	// TransferDirectionIn funds are pulled into the pool's holding
	TransferDirectionIn
)

// Transfer is one pending movement of the underlying asset between the
// pool's holding and an opponent account, possibly on another chain. Rows
// are written inside the operation's transaction and executed by the
// external asset-ledger collaborator afterwards, so an aborted operation
// never leaks a fund movement.
type Transfer struct {
	ID              uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TraceID         string          `sql:"size:36;unique_index:transfer_trace_idx" json:"trace_id"`
	Direction       int             `sql:"default:0" json:"direction"`
	AssetID         string          `sql:"size:36" json:"asset_id"`
	Opponent        string          `sql:"size:64" json:"opponent"`
	OpponentChainID int64           `sql:"default:0" json:"opponent_chain_id"`
	Amount          decimal.Decimal `sql:"type:decimal(40,8)" json:"amount"`
	Memo            string          `sql:"size:200" json:"memo"`
	Handled         bool            `sql:"default:false" json:"handled"`
	CreatedAt       time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// ITransferStore transfer outbox store interface
type ITransferStore interface {
	Create(ctx context.Context, tx *db.DB, transfer *Transfer) error
	ListUnhandled(ctx context.Context, limit int) ([]*Transfer, error)
	MarkHandled(ctx context.Context, id uint64) error
}

// ILedgerService is the boundary to the underlying fungible-asset ledger.
// The pool only ever schedules movements; settlement is the collaborator's
// concern.
type ILedgerService interface {
	Transfer(ctx context.Context, tx *db.DB, transfer *Transfer) error
}
