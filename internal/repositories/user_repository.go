package repositories

import "vyuha/internal/models"

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	// Create creates a new user in the database
	Create(user *models.User) error

	// GetByID retrieves a user by their ID
	GetByID(id uint) (*models.User, error)

	// GetByEmail retrieves a user by their email address
	GetByEmail(email string) (*models.User, error)

	// GetByPhone retrieves a user by their phone number
	GetByPhone(phone string) (*models.User, error)

	// GetByUsername retrieves a user by their username
	GetByUsername(username string) (*models.User, error)

	// UpdateFields updates only the named columns so a concurrent balance
	// credit is never overwritten by a stale read
	UpdateFields(userID uint, fields map[string]interface{}) error

	// IncrementTokenVersion invalidates all of the user's outstanding tokens
	IncrementTokenVersion(userID uint) error

	// List retrieves users with pagination, newest first
	List(offset, limit int) ([]models.User, int64, error)

	// CountByStatus returns the number of users with the given account status
	CountByStatus(status string) (int64, error)
}
