package models

import "time"

// PushNotificationLog records every dispatched push, written by the worker
// after the OneSignal call returns.
type PushNotificationLog struct {
	ID          uint `gorm:"primarykey"`
	Title       string
	Message     string
	TargetType  string `gorm:"default:'auto'"`
	TargetCount int
	Status      string
	Data        JSON `gorm:"type:jsonb"`
	CreatedAt   time.Time
}
