package repositories

import (
	"errors"
	"fmt"

	"vyuha/internal/models"

	"gorm.io/gorm"
)

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) CreateWithLeader(team *models.Team, leaderID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		member := &models.TeamMember{
			TeamID: team.ID,
			UserID: leaderID,
			Role:   models.TeamRoleLeader,
		}
		if err := tx.Create(member).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyInTeam
			}
			return fmt.Errorf("failed to create leader membership: %w", err)
		}
		return nil
	})
}

func (r *teamRepository) GetByID(id uint) (*models.Team, error) {
	var team models.Team
	if err := r.db.First(&team, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &team, nil
}

func (r *teamRepository) ListOpen(limit, offset int) ([]models.Team, int64, error) {
	var teams []models.Team
	var total int64

	query := r.db.Model(&models.Team{}).Where("open_for_players = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count teams: %w", err)
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&teams).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, total, nil
}

func (r *teamRepository) UpdateFields(teamID uint, fields map[string]interface{}) error {
	result := r.db.Model(&models.Team{}).Where("id = ?", teamID).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update team: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *teamRepository) Disband(teamID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_id = ?", teamID).Delete(&models.TeamMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete team members: %w", err)
		}
		result := tx.Delete(&models.Team{}, teamID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete team: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTeamNotFound
		}
		return nil
	})
}

func (r *teamRepository) GetMembershipByUser(userID uint) (*models.TeamMember, error) {
	var member models.TeamMember
	if err := r.db.Where("user_id = ?", userID).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to get team membership: %w", err)
	}
	return &member, nil
}

func (r *teamRepository) ListMembers(teamID uint) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := r.db.Where("team_id = ?", teamID).Order("joined_at ASC").Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	return members, nil
}

func (r *teamRepository) CountMembers(teamID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count team members: %w", err)
	}
	return count, nil
}

func (r *teamRepository) MemberCounts(teamIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(teamIDs))
	if len(teamIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TeamID uint
		Count  int64
	}
	err := r.db.Model(&models.TeamMember{}).
		Select("team_id, COUNT(*) as count").
		Where("team_id IN ?", teamIDs).
		Group("team_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count team members: %w", err)
	}
	for _, row := range rows {
		counts[row.TeamID] = row.Count
	}
	return counts, nil
}

func (r *teamRepository) AddMember(member *models.TeamMember) error {
	if err := r.db.Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyInTeam
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

func (r *teamRepository) RemoveMember(teamID, userID uint) error {
	result := r.db.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMember{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove team member: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMembershipNotFound
	}
	return nil
}
