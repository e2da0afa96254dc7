package position

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"lendpool/core"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Find(ctx context.Context, userID, assetID string) (*core.Position, error) {
	var position core.Position
	err := s.db.View().Where("user_id=? and asset_id=?", userID, assetID).First(&position).Error
	if gorm.IsRecordNotFoundError(err) {
		return &core.Position{
			UserID:              userID,
			AssetID:             assetID,
			ScaledClaimBalance:  decimal.Zero,
			ScaledVariableDebt:  decimal.Zero,
			StableDebtPrincipal: decimal.Zero,
			StableBorrowRate:    decimal.Zero,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &position, nil
}

func (s *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("user_id=?", userID).Order("asset_id").Find(&positions).Error; err != nil {
		return nil, err
	}
	return positions, nil
}

func (s *positionStore) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	var n int64
	if err := s.db.View().Model(core.Position{}).Where("asset_id=?", assetID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *positionStore) Save(ctx context.Context, tx *db.DB, position *core.Position) error {
	if position.ID == 0 {
		position.Version++
		return tx.Update().Create(position).Error
	}

	version := position.Version
	position.Version++
	return tx.Update().Model(core.Position{}).
		Where("id=? and version=?", position.ID, version).
		Update(position).Error
}
