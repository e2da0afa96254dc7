// Package ledger schedules movements of the underlying asset as outbox
// rows; the external asset-ledger collaborator settles them out of band.
package ledger

import (
	"context"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"

	"lendpool/core"
)

type ledgerService struct {
	transferStore core.ITransferStore
}

// New new outbox ledger service
func New(transferStore core.ITransferStore) core.ILedgerService {
	return &ledgerService{transferStore: transferStore}
}

func (s *ledgerService) Transfer(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	if !transfer.Amount.IsPositive() {
		return core.ErrInvalidAmount
	}

	if err := s.transferStore.Create(ctx, tx, transfer); err != nil {
		return err
	}

	logger.FromContext(ctx).
		WithField("asset", transfer.AssetID).
		WithField("trace", transfer.TraceID).
		Debugf("transfer scheduled: direction %d amount %s", transfer.Direction, transfer.Amount)
	return nil
}
