package repositories

import "vyuha/internal/models"

// SettingsRepository stores the platform's key/value configuration rows.
type SettingsRepository interface {
	Get(key string) (*models.PlatformSetting, error)
	GetAll() ([]models.PlatformSetting, error)
	Upsert(key, value string) error
}
