package team

import (
	"context"
	"testing"

	domainerrors "vyuha/internal/errors"
	"vyuha/internal/models"
	"vyuha/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTeamRepo struct {
	teams   map[uint]*models.Team
	members []models.TeamMember
	nextID  uint
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[uint]*models.Team), nextID: 1}
}

func (f *fakeTeamRepo) CreateWithLeader(team *models.Team, leaderID uint) error {
	for _, m := range f.members {
		if m.UserID == leaderID {
			return repositories.ErrAlreadyInTeam
		}
	}
	team.ID = f.nextID
	f.nextID++
	f.teams[team.ID] = team
	f.members = append(f.members, models.TeamMember{
		TeamID: team.ID,
		UserID: leaderID,
		Role:   models.TeamRoleLeader,
	})
	return nil
}

func (f *fakeTeamRepo) GetByID(id uint) (*models.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTeamRepo) ListOpen(limit, offset int) ([]models.Team, int64, error) {
	var out []models.Team
	for _, t := range f.teams {
		if t.OpenForPlayers {
			out = append(out, *t)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeTeamRepo) UpdateFields(teamID uint, fields map[string]interface{}) error {
	t, ok := f.teams[teamID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	if v, ok := fields["open_for_players"]; ok {
		t.OpenForPlayers = v.(bool)
	}
	return nil
}

func (f *fakeTeamRepo) Disband(teamID uint) error {
	if _, ok := f.teams[teamID]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(f.teams, teamID)
	kept := f.members[:0]
	for _, m := range f.members {
		if m.TeamID != teamID {
			kept = append(kept, m)
		}
	}
	f.members = kept
	return nil
}

func (f *fakeTeamRepo) GetMembershipByUser(userID uint) (*models.TeamMember, error) {
	for _, m := range f.members {
		if m.UserID == userID {
			copied := m
			return &copied, nil
		}
	}
	return nil, repositories.ErrMembershipNotFound
}

func (f *fakeTeamRepo) ListMembers(teamID uint) ([]models.TeamMember, error) {
	var out []models.TeamMember
	for _, m := range f.members {
		if m.TeamID == teamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeTeamRepo) CountMembers(teamID uint) (int64, error) {
	var n int64
	for _, m := range f.members {
		if m.TeamID == teamID {
			n++
		}
	}
	return n, nil
}

func (f *fakeTeamRepo) MemberCounts(teamIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64)
	for _, id := range teamIDs {
		n, _ := f.CountMembers(id)
		counts[id] = n
	}
	return counts, nil
}

func (f *fakeTeamRepo) AddMember(member *models.TeamMember) error {
	for _, m := range f.members {
		if m.UserID == member.UserID {
			return repositories.ErrAlreadyInTeam
		}
	}
	f.members = append(f.members, *member)
	return nil
}

func (f *fakeTeamRepo) RemoveMember(teamID, userID uint) error {
	for i, m := range f.members {
		if m.TeamID == teamID && m.UserID == userID {
			f.members = append(f.members[:i], f.members[i+1:]...)
			return nil
		}
	}
	return repositories.ErrMembershipNotFound
}

type fakeUserLookup struct {
	users map[uint]*models.User
}

func newFakeUserLookup(users ...*models.User) *fakeUserLookup {
	l := &fakeUserLookup{users: make(map[uint]*models.User)}
	for _, u := range users {
		l.users[u.ID] = u
	}
	return l
}

func (l *fakeUserLookup) Create(user *models.User) error { return nil }

func (l *fakeUserLookup) GetByID(id uint) (*models.User, error) {
	u, ok := l.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (l *fakeUserLookup) GetByEmail(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (l *fakeUserLookup) GetByPhone(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (l *fakeUserLookup) GetByUsername(username string) (*models.User, error) {
	for _, u := range l.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (l *fakeUserLookup) UpdateFields(uint, map[string]interface{}) error { return nil }
func (l *fakeUserLookup) IncrementTokenVersion(uint) error                { return nil }

func (l *fakeUserLookup) List(int, int) ([]models.User, int64, error) {
	return nil, 0, nil
}

func (l *fakeUserLookup) CountByStatus(string) (int64, error) { return 0, nil }

func player(id uint, username string) *models.User {
	u := &models.User{Username: username}
	u.ID = id
	return u
}

func TestCreateTeam(t *testing.T) {
	t.Run("creates team with leader on the roster", func(t *testing.T) {
		repo := newFakeTeamRepo()
		svc := NewService(repo, newFakeUserLookup(player(1, "leader")))

		created, err := svc.Create(context.Background(), 1, CreateInput{
			Name:           "Night Owls",
			OpenForPlayers: true,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(1), created.LeaderID)
		assert.Equal(t, models.DefaultTeamSize, created.MaxMembers)

		members, err := repo.ListMembers(created.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, models.TeamRoleLeader, members[0].Role)
	})

	t.Run("rejects a second team for the same player", func(t *testing.T) {
		repo := newFakeTeamRepo()
		svc := NewService(repo, newFakeUserLookup(player(1, "leader")))

		_, err := svc.Create(context.Background(), 1, CreateInput{Name: "First"})
		require.NoError(t, err)
		_, err = svc.Create(context.Background(), 1, CreateInput{Name: "Second"})
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyInTeam)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		svc := NewService(newFakeTeamRepo(), newFakeUserLookup())
		_, err := svc.Create(context.Background(), 1, CreateInput{Name: "   "})
		assert.Error(t, err)
	})
}

func TestJoinTeam(t *testing.T) {
	setup := func(open bool, maxMembers int) (*fakeTeamRepo, Service, *models.Team) {
		repo := newFakeTeamRepo()
		svc := NewService(repo, newFakeUserLookup(player(1, "leader"), player(2, "joiner")))
		created, err := svc.Create(context.Background(), 1, CreateInput{
			Name:           "Night Owls",
			OpenForPlayers: open,
		})
		if err != nil {
			panic(err)
		}
		if maxMembers > 0 {
			repo.teams[created.ID].MaxMembers = maxMembers
		}
		return repo, svc, created
	}

	t.Run("joins an open team", func(t *testing.T) {
		repo, svc, created := setup(true, 0)

		require.NoError(t, svc.Join(context.Background(), 2, created.ID))
		count, _ := repo.CountMembers(created.ID)
		assert.Equal(t, int64(2), count)
	})

	t.Run("closed team rejected", func(t *testing.T) {
		_, svc, created := setup(false, 0)
		err := svc.Join(context.Background(), 2, created.ID)
		assert.ErrorIs(t, err, domainerrors.ErrTeamClosed)
	})

	t.Run("full team rejected", func(t *testing.T) {
		_, svc, created := setup(true, 1)
		err := svc.Join(context.Background(), 2, created.ID)
		assert.ErrorIs(t, err, domainerrors.ErrTeamFull)
	})

	t.Run("player already in a team rejected", func(t *testing.T) {
		_, svc, created := setup(true, 0)
		err := svc.Join(context.Background(), 1, created.ID)
		assert.ErrorIs(t, err, domainerrors.ErrAlreadyInTeam)
	})

	t.Run("unknown team", func(t *testing.T) {
		svc := NewService(newFakeTeamRepo(), newFakeUserLookup())
		err := svc.Join(context.Background(), 2, 99)
		assert.ErrorIs(t, err, repositories.ErrTeamNotFound)
	})
}

func TestLeaveTeam(t *testing.T) {
	t.Run("member leaves, team survives", func(t *testing.T) {
		repo := newFakeTeamRepo()
		svc := NewService(repo, newFakeUserLookup(player(1, "leader"), player(2, "member")))
		created, err := svc.Create(context.Background(), 1, CreateInput{Name: "Owls", OpenForPlayers: true})
		require.NoError(t, err)
		require.NoError(t, svc.Join(context.Background(), 2, created.ID))

		require.NoError(t, svc.Leave(context.Background(), 2))
		count, _ := repo.CountMembers(created.ID)
		assert.Equal(t, int64(1), count)
		_, err = repo.GetByID(created.ID)
		assert.NoError(t, err)
	})

	t.Run("leader leaves, team disbands", func(t *testing.T) {
		repo := newFakeTeamRepo()
		svc := NewService(repo, newFakeUserLookup(player(1, "leader"), player(2, "member")))
		created, err := svc.Create(context.Background(), 1, CreateInput{Name: "Owls", OpenForPlayers: true})
		require.NoError(t, err)
		require.NoError(t, svc.Join(context.Background(), 2, created.ID))

		require.NoError(t, svc.Leave(context.Background(), 1))
		_, err = repo.GetByID(created.ID)
		assert.ErrorIs(t, err, repositories.ErrTeamNotFound)
		_, err = repo.GetMembershipByUser(2)
		assert.ErrorIs(t, err, repositories.ErrMembershipNotFound)
	})

	t.Run("not in a team", func(t *testing.T) {
		svc := NewService(newFakeTeamRepo(), newFakeUserLookup())
		err := svc.Leave(context.Background(), 5)
		assert.ErrorIs(t, err, repositories.ErrMembershipNotFound)
	})
}

func TestAddMember(t *testing.T) {
	t.Run("leader adds by username", func(t *testing.T) {
		repo := newFakeTeamRepo()
		svc := NewService(repo, newFakeUserLookup(player(1, "leader"), player(2, "recruit")))
		created, err := svc.Create(context.Background(), 1, CreateInput{Name: "Owls"})
		require.NoError(t, err)

		require.NoError(t, svc.AddMember(context.Background(), 1, "recruit"))
		count, _ := repo.CountMembers(created.ID)
		assert.Equal(t, int64(2), count)
	})

	t.Run("non-leader cannot add", func(t *testing.T) {
		repo := newFakeTeamRepo()
		svc := NewService(repo, newFakeUserLookup(player(1, "leader"), player(2, "member"), player(3, "recruit")))
		created, err := svc.Create(context.Background(), 1, CreateInput{Name: "Owls", OpenForPlayers: true})
		require.NoError(t, err)
		require.NoError(t, svc.Join(context.Background(), 2, created.ID))

		err = svc.AddMember(context.Background(), 2, "recruit")
		assert.ErrorIs(t, err, domainerrors.ErrNotTeamLeader)
	})

	t.Run("unknown username", func(t *testing.T) {
		svc := NewService(newFakeTeamRepo(), newFakeUserLookup(player(1, "leader")))
		_, err := svc.Create(context.Background(), 1, CreateInput{Name: "Owls"})
		require.NoError(t, err)

		err = svc.AddMember(context.Background(), 1, "ghost")
		assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	})
}

func TestRemoveMember(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := NewService(repo, newFakeUserLookup(player(1, "leader"), player(2, "member")))
	created, err := svc.Create(context.Background(), 1, CreateInput{Name: "Owls", OpenForPlayers: true})
	require.NoError(t, err)
	require.NoError(t, svc.Join(context.Background(), 2, created.ID))

	t.Run("leader cannot remove self", func(t *testing.T) {
		err := svc.RemoveMember(context.Background(), 1, 1)
		assert.ErrorIs(t, err, domainerrors.ErrCannotRemoveLeader)
	})

	t.Run("leader removes member", func(t *testing.T) {
		require.NoError(t, svc.RemoveMember(context.Background(), 1, 2))
		count, _ := repo.CountMembers(created.ID)
		assert.Equal(t, int64(1), count)
	})
}

func TestSetOpen(t *testing.T) {
	repo := newFakeTeamRepo()
	svc := NewService(repo, newFakeUserLookup(player(1, "leader")))
	created, err := svc.Create(context.Background(), 1, CreateInput{Name: "Owls", OpenForPlayers: true})
	require.NoError(t, err)

	require.NoError(t, svc.SetOpen(context.Background(), 1, false))
	team, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.False(t, team.OpenForPlayers)
}
