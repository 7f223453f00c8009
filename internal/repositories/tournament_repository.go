package repositories

import (
	"time"

	"vyuha/internal/models"
)

// TournamentRepository defines persistence for tournaments and registrations.
type TournamentRepository interface {
	// Create creates a tournament
	Create(t *models.Tournament) error

	// GetByID retrieves a tournament
	GetByID(id uint) (*models.Tournament, error)

	// GetByIDForUpdate retrieves a tournament with a row lock; only meaningful
	// inside a settlement transaction
	GetByIDForUpdate(id uint) (*models.Tournament, error)

	// Update saves a tournament
	Update(t *models.Tournament) error

	// List retrieves tournaments filtered by status ("" for all), newest start first
	List(status string, limit, offset int) ([]models.Tournament, int64, error)

	// GetByOrganizer lists an organizer's tournaments
	GetByOrganizer(organizerID uint) ([]models.Tournament, error)

	// AddAggregates increments the running money aggregates for one join
	AddAggregates(id uint, pool, organizer, platform, fees float64) error

	// SetAggregates overwrites the aggregates with recomputed values and stamps
	// the recalculation time
	SetAggregates(id uint, pool, organizer, platform, fees float64, at time.Time) error

	// CountRegistrations returns the number of registered users
	CountRegistrations(tournamentID uint) (int64, error)

	// IsRegistered reports whether the user already joined
	IsRegistered(tournamentID, userID uint) (bool, error)

	// CreateRegistration appends a registration row
	CreateRegistration(reg *models.TournamentRegistration) error

	// ListRegistrations returns registrations in join order
	ListRegistrations(tournamentID uint) ([]models.TournamentRegistration, error)

	// DueForRecalculation finds upcoming tournaments starting within [from, to)
	// that have not been recalculated yet
	DueForRecalculation(from, to time.Time) ([]models.Tournament, error)

	// AggregateTotals sums the money aggregates across all tournaments for
	// admin reporting
	AggregateTotals() (*models.TournamentTotals, error)
}

// SettlementRepository widens TournamentRepository with the wallet-side writes
// a settlement needs, so a join or winner declaration can mutate the balance,
// the ledger and the tournament inside one database transaction.
type SettlementRepository interface {
	TournamentRepository

	// GetUserByID retrieves a user row
	GetUserByID(id uint) (*models.User, error)

	// CreditBalance atomically adds to a user's wallet balance
	CreditBalance(userID uint, amount float64) error

	// DebitBalance atomically subtracts; ErrInsufficientBalance on shortfall
	DebitBalance(userID uint, amount float64) error

	// CreateTransaction appends a ledger row
	CreateTransaction(txn *models.WalletTransaction) error

	// ExecuteInTransaction runs fc inside a database transaction
	ExecuteInTransaction(fc func(tx SettlementRepository) error) error
}
