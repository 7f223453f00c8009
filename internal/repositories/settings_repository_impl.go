package repositories

import (
	"context"
	"fmt"

	"vyuha/internal/models"
	"vyuha/internal/repositories/cache"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type settingsRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewSettingsRepository(db *gorm.DB, cacheService *cache.CacheService) SettingsRepository {
	return &settingsRepository{db: db, cache: cacheService}
}

func (r *settingsRepository) Get(key string) (*models.PlatformSetting, error) {
	var setting models.PlatformSetting
	err := r.db.Where("setting_key = ?", key).First(&setting).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return &setting, nil
}

func (r *settingsRepository) GetAll() ([]models.PlatformSetting, error) {
	var settings []models.PlatformSetting
	if err := r.db.Order("setting_key ASC").Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

func (r *settingsRepository) Upsert(key, value string) error {
	setting := models.PlatformSetting{
		SettingKey:   key,
		SettingValue: value,
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&setting).Error
	if err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", key, err)
	}

	if r.cache != nil {
		if err := r.cache.InvalidateSettings(context.Background()); err != nil {
			return fmt.Errorf("failed to invalidate settings cache: %w", err)
		}
	}
	return nil
}
