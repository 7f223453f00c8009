package models

import "time"

// Well-known platform setting keys.
const (
	SettingOrganizerCommissionPercent = "organizer_commission_percent"
	SettingPlatformCommissionPercent  = "platform_commission_percent"
	SettingPrizePoolPercent           = "prize_pool_percent"
	SettingAdminUPIID                 = "admin_upi_id"
	SettingPaymentQRURL               = "payment_qr_url"
)

// PlatformSetting is a key/value configuration row. The three commission
// percentages must sum to 100; the settings service enforces that on save.
type PlatformSetting struct {
	ID           uint   `gorm:"primarykey"`
	SettingKey   string `gorm:"uniqueIndex;not null"`
	SettingValue string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
