package userconfig

import (
	"context"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"

	"lendpool/core"
)

type userConfigStore struct {
	db *db.DB
}

// New new user configuration store
func New(db *db.DB) core.IUserConfigStore {
	return &userConfigStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.UserConfiguration{})
		if err := tx.AutoMigrate(core.UserConfiguration{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *userConfigStore) Find(ctx context.Context, userID string) (*core.UserConfiguration, error) {
	var cfg core.UserConfiguration
	err := s.db.View().Where("user_id=?", userID).First(&cfg).Error
	if gorm.IsRecordNotFoundError(err) {
		return &core.UserConfiguration{UserID: userID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s *userConfigStore) Save(ctx context.Context, tx *db.DB, cfg *core.UserConfiguration) error {
	if cfg.Version == 0 {
		cfg.Version++
		return tx.Update().Create(cfg).Error
	}

	version := cfg.Version
	cfg.Version++
	return tx.Update().Model(core.UserConfiguration{}).
		Where("user_id=? and version=?", cfg.UserID, version).
		Update(cfg).Error
}
