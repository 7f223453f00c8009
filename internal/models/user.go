package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser      = "user"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User account statuses
const (
	UserStatusActive = "active"
	UserStatusBanned = "banned"
)

type User struct {
	gorm.Model
	Email      string `gorm:"uniqueIndex;not null"`
	Phone      string `gorm:"uniqueIndex;not null"`
	Password   string `gorm:"not null" json:"-"`
	Username   string `gorm:"uniqueIndex;not null"`
	FullName   string
	InGameName string
	AvatarURL  string
	Role       string `gorm:"default:'user'"`
	Status     string `gorm:"default:'active'"`
	BanReason  string
	BannedAt   *time.Time
	// WalletBalance is the denormalized running balance. Every mutation commits in
	// the same database transaction as its ledger row, so it always equals the
	// signed sum of the user's completed wallet transactions.
	WalletBalance float64 `gorm:"default:0"`
	TokenVersion  int     `gorm:"default:1" json:"-"`
	LastLoginAt   time.Time
}

// DisplayName returns the name used in notification copy.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	if u.InGameName != "" {
		return u.InGameName
	}
	if u.FullName != "" {
		return u.FullName
	}
	return "Player"
}

// IsBanned reports whether the account is blocked from money movement.
func (u *User) IsBanned() bool {
	return u.Status == UserStatusBanned
}
