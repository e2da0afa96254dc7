package transfer

import (
	"context"

	"github.com/fox-one/pkg/store/db"

	"lendpool/core"
)

type transferStore struct {
	db *db.DB
}

// New new transfer outbox store
func New(db *db.DB) core.ITransferStore {
	return &transferStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transferStore) Create(ctx context.Context, tx *db.DB, transfer *core.Transfer) error {
	return tx.Update().Where("trace_id=?", transfer.TraceID).
		FirstOrCreate(transfer).Error
}

func (s *transferStore) ListUnhandled(ctx context.Context, limit int) ([]*core.Transfer, error) {
	var transfers []*core.Transfer
	if err := s.db.View().
		Where("handled = ?", false).
		Order("id").
		Limit(limit).
		Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}

func (s *transferStore) MarkHandled(ctx context.Context, id uint64) error {
	return s.db.Update().Model(core.Transfer{}).
		Where("id=?", id).
		Update("handled", true).Error
}
