package repositories

import "vyuha/internal/models"

// WalletRepository defines persistence for the wallet ledger and the
// denormalized balance on the user row. Balance mutations and their ledger rows
// must be issued inside ExecuteInTransaction so they commit or roll back
// together.
type WalletRepository interface {
	// GetUserByID retrieves the user owning a wallet
	GetUserByID(id uint) (*models.User, error)

	// CreditBalance atomically adds amount to the user's wallet balance
	CreditBalance(userID uint, amount float64) error

	// DebitBalance atomically subtracts amount; returns ErrInsufficientBalance
	// when the balance would go negative
	DebitBalance(userID uint, amount float64) error

	// CreateTransaction appends a ledger row
	CreateTransaction(txn *models.WalletTransaction) error

	// GetTransactionByID retrieves a single ledger row
	GetTransactionByID(id uint) (*models.WalletTransaction, error)

	// SettleTransaction flips a row's status from `from` to `to`; returns
	// ErrTransactionNotFound when no row in the `from` status matched, which
	// makes the flip idempotence-safe under concurrent admin actions
	SettleTransaction(id uint, from, to string) error

	// GetTransactionsByUser lists a user's ledger rows, newest first
	GetTransactionsByUser(userID uint, limit, offset int) ([]models.WalletTransaction, int64, error)

	// GetCompletedByUser returns every completed row for a user (input to the
	// withdrawable-earnings calculator)
	GetCompletedByUser(userID uint) ([]models.WalletTransaction, error)

	// ListByTypeAndStatus lists ledger rows for admin review queues
	ListByTypeAndStatus(txType, status string, limit, offset int) ([]models.WalletTransaction, int64, error)

	// HasCompletedBonus reports whether a completed bonus row with the exact
	// description exists (milestone re-claim guard)
	HasCompletedBonus(userID uint, description string) (bool, error)

	// CountByTypeAndStatus counts ledger rows for dashboard stats
	CountByTypeAndStatus(txType, status string) (int64, error)

	// ExecuteInTransaction runs fc inside a database transaction
	ExecuteInTransaction(fc func(tx WalletRepository) error) error
}
