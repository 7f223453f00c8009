package repositories

import "vyuha/internal/models"

// TeamRepository defines the interface for player-team database operations
type TeamRepository interface {
	// CreateWithLeader creates the team and its leader membership atomically
	CreateWithLeader(team *models.Team, leaderID uint) error

	// GetByID retrieves a team by its ID
	GetByID(id uint) (*models.Team, error)

	// ListOpen retrieves teams accepting new players, newest first
	ListOpen(limit, offset int) ([]models.Team, int64, error)

	// UpdateFields updates only the named team columns
	UpdateFields(teamID uint, fields map[string]interface{}) error

	// Disband deletes the team and all of its memberships atomically
	Disband(teamID uint) error

	// GetMembershipByUser returns the membership row for a user, if any
	GetMembershipByUser(userID uint) (*models.TeamMember, error)

	// ListMembers returns a team's roster in join order
	ListMembers(teamID uint) ([]models.TeamMember, error)

	// CountMembers returns the roster size of one team
	CountMembers(teamID uint) (int64, error)

	// MemberCounts returns roster sizes for a set of teams
	MemberCounts(teamIDs []uint) (map[uint]int64, error)

	// AddMember inserts a membership row
	AddMember(member *models.TeamMember) error

	// RemoveMember deletes one user's membership in a team
	RemoveMember(teamID, userID uint) error
}
