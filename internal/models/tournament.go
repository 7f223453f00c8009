package models

import (
	"time"

	"gorm.io/gorm"
)

// Tournament statuses. Transitions are one-way:
// upcoming -> ongoing -> completed, or upcoming -> cancelled.
const (
	TournamentStatusUpcoming  = "upcoming"
	TournamentStatusOngoing   = "ongoing"
	TournamentStatusCompleted = "completed"
	TournamentStatusCancelled = "cancelled"
)

// RegistrationStatusRegistered is the only registration status today.
const RegistrationStatusRegistered = "registered"

type Tournament struct {
	gorm.Model
	Title           string `gorm:"not null"`
	Game            string `gorm:"not null"`
	Description     string
	OrganizerID     uint `gorm:"index;not null"`
	EntryFee        float64
	MaxParticipants int
	StartDate       time.Time `gorm:"index"`
	Status          string    `gorm:"index;default:'upcoming'"`

	// Running aggregates, accumulated per join inside the join transaction.
	// CurrentPrizePool equals prize_pool_percent% x EntryFee x registration count
	// unless settings changed mid-event; the pre-start recalculation re-derives
	// all four from the registration count.
	CurrentPrizePool   float64
	OrganizerEarnings  float64
	PlatformEarnings   float64
	TotalFeesCollected float64

	WinnerUserID     *uint
	WinnerDeclaredAt *time.Time

	// Set by the recalculation job; non-nil means the pool has been re-derived
	// and the sweep must not process this tournament again.
	PoolRecalculatedAt *time.Time
}

// TournamentTotals is the platform-wide sum of the money aggregates.
type TournamentTotals struct {
	TotalFeesCollected float64
	PlatformEarnings   float64
	OrganizerEarnings  float64
	CurrentPrizePool   float64
}

// IsFull reports whether the tournament has reached its participant cap.
func (t *Tournament) IsFull(registered int64) bool {
	return t.MaxParticipants > 0 && registered >= int64(t.MaxParticipants)
}

// TournamentRegistration links a user to a tournament. CreatedAt gives join
// order; the unique index makes double registration impossible at the data layer.
type TournamentRegistration struct {
	ID           uint   `gorm:"primarykey"`
	TournamentID uint   `gorm:"uniqueIndex:idx_tournament_user;not null"`
	UserID       uint   `gorm:"uniqueIndex:idx_tournament_user;not null"`
	Status       string `gorm:"default:'registered'"`
	CreatedAt    time.Time
}
