package message

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"

	"lendpool/core"
)

type messageStore struct {
	db *db.DB
}

// New new inbound message store
func New(db *db.DB) core.IMessageStore {
	return &messageStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Message{})
		if err := tx.AutoMigrate(core.Message{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *messageStore) Create(ctx context.Context, message *core.Message) error {
	return s.db.Update().Where("trace_id=?", message.TraceID).
		FirstOrCreate(message).Error
}

func (s *messageStore) Find(ctx context.Context, traceID string) (*core.Message, bool, error) {
	var message core.Message
	err := s.db.View().Where("trace_id=?", traceID).First(&message).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &message, true, nil
}

func (s *messageStore) List(ctx context.Context, fromID uint64, limit int) ([]*core.Message, error) {
	var messages []*core.Message
	if err := s.db.View().
		Where("id > ? and status = ?", fromID, core.MessageStatusPending).
		Order("id").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *messageStore) Update(ctx context.Context, message *core.Message, version int64) error {
	if message.Version >= version {
		return nil
	}

	updates := map[string]interface{}{
		"status":     message.Status,
		"error_code": message.ErrorCode,
		"receipts":   message.Receipts,
		"version":    version,
	}

	tx := s.db.Update().Model(message).Where("version=?", message.Version).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	message.Version = version
	return nil
}
