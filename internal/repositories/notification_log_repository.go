package repositories

import (
	"fmt"

	"vyuha/internal/models"

	"gorm.io/gorm"
)

// NotificationLogRepository records dispatched push notifications.
type NotificationLogRepository interface {
	Create(entry *models.PushNotificationLog) error
	List(limit, offset int) ([]models.PushNotificationLog, int64, error)
}

type notificationLogRepository struct {
	db *gorm.DB
}

func NewNotificationLogRepository(db *gorm.DB) NotificationLogRepository {
	return &notificationLogRepository{db: db}
}

func (r *notificationLogRepository) Create(entry *models.PushNotificationLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create notification log: %w", err)
	}
	return nil
}

func (r *notificationLogRepository) List(limit, offset int) ([]models.PushNotificationLog, int64, error) {
	var entries []models.PushNotificationLog
	var total int64

	if err := r.db.Model(&models.PushNotificationLog{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notification logs: %w", err)
	}
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notification logs: %w", err)
	}
	return entries, total, nil
}
