// Package team manages player squads: creation, the roster, open-team joins
// and leader-only moderation. A player belongs to at most one team.
package team

import (
	"context"
	"fmt"
	"strings"

	domainerrors "vyuha/internal/errors"
	"vyuha/internal/models"
	"vyuha/internal/repositories"
	"vyuha/internal/validation"
)

// CreateInput is a new team request.
type CreateInput struct {
	Name           string `json:"name"`
	Slogan         string `json:"slogan"`
	Game           string `json:"game"`
	LogoURL        string `json:"logo_url"`
	OpenForPlayers bool   `json:"open_for_players"`
}

// Member is a roster entry resolved to its player profile.
type Member struct {
	UserID     uint   `json:"user_id"`
	Username   string `json:"username"`
	FullName   string `json:"full_name,omitempty"`
	InGameName string `json:"in_game_name,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	Role       string `json:"role"`
}

// TeamView is a team with its resolved roster.
type TeamView struct {
	Team    models.Team `json:"team"`
	Members []Member    `json:"members"`
}

// OpenTeam is one browse-list entry.
type OpenTeam struct {
	Team        models.Team `json:"team"`
	MemberCount int64       `json:"member_count"`
}

type Service interface {
	Create(ctx context.Context, leaderID uint, input CreateInput) (*models.Team, error)
	MyTeam(ctx context.Context, userID uint) (*TeamView, error)
	ListOpen(ctx context.Context, limit, offset int) ([]OpenTeam, int64, error)
	Join(ctx context.Context, userID, teamID uint) error
	Leave(ctx context.Context, userID uint) error
	AddMember(ctx context.Context, leaderID uint, username string) error
	RemoveMember(ctx context.Context, leaderID, memberUserID uint) error
	SetOpen(ctx context.Context, leaderID uint, open bool) error
}

type service struct {
	repo  repositories.TeamRepository
	users repositories.UserRepository
}

func NewService(repo repositories.TeamRepository, users repositories.UserRepository) Service {
	return &service{
		repo:  repo,
		users: users,
	}
}

func (s *service) Create(ctx context.Context, leaderID uint, input CreateInput) (*models.Team, error) {
	name := strings.TrimSpace(input.Name)

	v := validation.New()
	v.Required("name", name)
	v.MaxLength("name", name, 30)
	if !v.Valid() {
		for field, message := range v.Errors {
			return nil, fmt.Errorf("%s %s", field, message)
		}
	}

	if _, err := s.repo.GetMembershipByUser(leaderID); err == nil {
		return nil, domainerrors.ErrAlreadyInTeam
	} else if err != repositories.ErrMembershipNotFound {
		return nil, err
	}

	team := &models.Team{
		Name:           name,
		Slogan:         strings.TrimSpace(input.Slogan),
		Game:           input.Game,
		LogoURL:        input.LogoURL,
		LeaderID:       leaderID,
		OpenForPlayers: input.OpenForPlayers,
		MaxMembers:     models.DefaultTeamSize,
	}
	if err := s.repo.CreateWithLeader(team, leaderID); err != nil {
		if err == repositories.ErrAlreadyInTeam {
			return nil, domainerrors.ErrAlreadyInTeam
		}
		return nil, err
	}
	return team, nil
}

func (s *service) MyTeam(ctx context.Context, userID uint) (*TeamView, error) {
	membership, err := s.repo.GetMembershipByUser(userID)
	if err != nil {
		return nil, err
	}

	team, err := s.repo.GetByID(membership.TeamID)
	if err != nil {
		return nil, err
	}

	rows, err := s.repo.ListMembers(team.ID)
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, len(rows))
	for _, row := range rows {
		m := Member{UserID: row.UserID, Role: row.Role}
		if user, err := s.users.GetByID(row.UserID); err == nil {
			m.Username = user.Username
			m.FullName = user.FullName
			m.InGameName = user.InGameName
			m.AvatarURL = user.AvatarURL
		}
		members = append(members, m)
	}
	return &TeamView{Team: *team, Members: members}, nil
}

func (s *service) ListOpen(ctx context.Context, limit, offset int) ([]OpenTeam, int64, error) {
	teams, total, err := s.repo.ListOpen(limit, offset)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uint, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	counts, err := s.repo.MemberCounts(ids)
	if err != nil {
		return nil, 0, err
	}

	out := make([]OpenTeam, len(teams))
	for i, t := range teams {
		out[i] = OpenTeam{Team: t, MemberCount: counts[t.ID]}
	}
	return out, total, nil
}

func (s *service) Join(ctx context.Context, userID, teamID uint) error {
	if _, err := s.repo.GetMembershipByUser(userID); err == nil {
		return domainerrors.ErrAlreadyInTeam
	} else if err != repositories.ErrMembershipNotFound {
		return err
	}

	team, err := s.repo.GetByID(teamID)
	if err != nil {
		return err
	}
	if !team.OpenForPlayers {
		return domainerrors.ErrTeamClosed
	}

	count, err := s.repo.CountMembers(teamID)
	if err != nil {
		return err
	}
	if count >= int64(team.MaxMembers) {
		return domainerrors.ErrTeamFull
	}

	err = s.repo.AddMember(&models.TeamMember{
		TeamID: teamID,
		UserID: userID,
		Role:   models.TeamRoleMember,
	})
	if err == repositories.ErrAlreadyInTeam {
		return domainerrors.ErrAlreadyInTeam
	}
	return err
}

// Leave removes the caller from their team. A leaving leader disbands the
// whole team, mirroring roster ownership.
func (s *service) Leave(ctx context.Context, userID uint) error {
	membership, err := s.repo.GetMembershipByUser(userID)
	if err != nil {
		return err
	}

	team, err := s.repo.GetByID(membership.TeamID)
	if err != nil {
		return err
	}

	if team.LeaderID == userID {
		return s.repo.Disband(team.ID)
	}
	return s.repo.RemoveMember(team.ID, userID)
}

func (s *service) AddMember(ctx context.Context, leaderID uint, username string) error {
	team, err := s.leaderTeam(leaderID)
	if err != nil {
		return err
	}

	target, err := s.users.GetByUsername(strings.TrimSpace(username))
	if err != nil {
		return err
	}

	count, err := s.repo.CountMembers(team.ID)
	if err != nil {
		return err
	}
	if count >= int64(team.MaxMembers) {
		return domainerrors.ErrTeamFull
	}

	err = s.repo.AddMember(&models.TeamMember{
		TeamID: team.ID,
		UserID: target.ID,
		Role:   models.TeamRoleMember,
	})
	if err == repositories.ErrAlreadyInTeam {
		return domainerrors.ErrAlreadyInTeam
	}
	return err
}

func (s *service) RemoveMember(ctx context.Context, leaderID, memberUserID uint) error {
	team, err := s.leaderTeam(leaderID)
	if err != nil {
		return err
	}
	if memberUserID == leaderID {
		return domainerrors.ErrCannotRemoveLeader
	}
	return s.repo.RemoveMember(team.ID, memberUserID)
}

func (s *service) SetOpen(ctx context.Context, leaderID uint, open bool) error {
	team, err := s.leaderTeam(leaderID)
	if err != nil {
		return err
	}
	return s.repo.UpdateFields(team.ID, map[string]interface{}{
		"open_for_players": open,
	})
}

// leaderTeam resolves the caller's team and verifies leadership.
func (s *service) leaderTeam(userID uint) (*models.Team, error) {
	membership, err := s.repo.GetMembershipByUser(userID)
	if err != nil {
		return nil, err
	}
	team, err := s.repo.GetByID(membership.TeamID)
	if err != nil {
		return nil, err
	}
	if team.LeaderID != userID {
		return nil, domainerrors.ErrNotTeamLeader
	}
	return team, nil
}
