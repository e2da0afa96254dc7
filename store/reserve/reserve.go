package reserve

import (
	"context"

	"github.com/fox-one/pkg/store/db"

	"lendpool/core"
)

type reserveStore struct {
	db *db.DB
}

// New new reserve store
func New(db *db.DB) core.IReserveStore {
	return &reserveStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Reserve{})
		if err := tx.AutoMigrate(core.Reserve{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *reserveStore) Create(ctx context.Context, tx *db.DB, reserve *core.Reserve) error {
	return tx.Update().Create(reserve).Error
}

func (s *reserveStore) Find(ctx context.Context, assetID string) (*core.Reserve, error) {
	var reserve core.Reserve
	if err := s.db.View().Where("asset_id=?", assetID).First(&reserve).Error; err != nil {
		return nil, err
	}
	return &reserve, nil
}

func (s *reserveStore) FindByID(ctx context.Context, id uint64) (*core.Reserve, error) {
	var reserve core.Reserve
	if err := s.db.View().Where("id=?", id).First(&reserve).Error; err != nil {
		return nil, err
	}
	return &reserve, nil
}

func (s *reserveStore) All(ctx context.Context) ([]*core.Reserve, error) {
	var reserves []*core.Reserve
	if err := s.db.View().Order("id").Find(&reserves).Error; err != nil {
		return nil, err
	}
	return reserves, nil
}

func (s *reserveStore) Update(ctx context.Context, tx *db.DB, reserve *core.Reserve) error {
	version := reserve.Version
	reserve.Version++

	update := tx.Update().Model(core.Reserve{}).
		Where("id=? and version=?", reserve.ID, version).
		Update(reserve)
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
