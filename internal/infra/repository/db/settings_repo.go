package db

import (
	"context"

	"github.com/volnyigory/storefront/internal/domain/model"
	"gorm.io/gorm/clause"
)

type ISettingsRepository interface {
	GetSettings(ctx context.Context, keys []string) ([]model.Setting, error)
	UpsertSetting(ctx context.Context, setting *model.Setting) error
}

type SettingsRepo struct {
	db *DbDao
}

func NewSettingsRepo(db *DbDao) *SettingsRepo {
	return &SettingsRepo{db: db}
}

func (s *SettingsRepo) GetSettings(ctx context.Context, keys []string) ([]model.Setting, error) {
	var settings []model.Setting
	err := s.db.WithContext(ctx).Where("key IN ?", keys).Find(&settings).Error
	return settings, err
}

func (s *SettingsRepo) UpsertSetting(ctx context.Context, setting *model.Setting) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(setting).Error
}
