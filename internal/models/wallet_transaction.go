package models

import (
	"strings"
	"time"
)

// Ledger transaction types. Stored as free-form strings and normalized on read, so
// rows written by older clients (e.g. "Prize_Won", "referral commission") still
// classify correctly.
const (
	TransactionTypeEntryFee   = "entry_fee"
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypePrize      = "prize"
	TransactionTypeBonus      = "bonus"
	TransactionTypeCommission = "commission"
)

// Ledger transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
)

// WalletTransaction is an append-only ledger row recording a single
// balance-affecting event. Deposits and withdrawals are created pending and
// flipped exactly once by an admin action; every other row is born completed
// and never mutated.
type WalletTransaction struct {
	ID          uint   `gorm:"primarykey"`
	UserID      uint   `gorm:"index;not null"`
	Type        string `gorm:"not null"`
	Amount      float64
	Status      string `gorm:"not null;default:'pending'"`
	Description string
	ReferenceNo string `gorm:"uniqueIndex"`

	// UPI deposit verification fields
	UTRNumber     string
	ScreenshotURL string

	// Structured prize metadata. TournamentID and Rank replace the prose-encoded
	// "Prize for ... - Rank N" channel; Description is kept for display and for
	// rows written before these fields existed.
	TournamentID *uint `gorm:"index"`
	Rank         int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizedType returns the lowercased, trimmed transaction type.
func (t *WalletTransaction) NormalizedType() string {
	return strings.ToLower(strings.TrimSpace(t.Type))
}

// IsCompleted reports whether the row has settled.
func (t *WalletTransaction) IsCompleted() bool {
	return strings.ToLower(strings.TrimSpace(t.Status)) == TransactionStatusCompleted
}

// IsPending reports whether the row still awaits an admin decision.
func (t *WalletTransaction) IsPending() bool {
	return strings.ToLower(strings.TrimSpace(t.Status)) == TransactionStatusPending
}
