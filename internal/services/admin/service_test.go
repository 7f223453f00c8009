package admin

import (
	"context"
	"testing"

	"vyuha/internal/models"
	"vyuha/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users         map[uint]*models.User
	updatedFields []map[string]interface{}
	tokenBumps    []uint
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uint]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByPhone(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(string) (*models.User, error) {
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateFields(userID uint, fields map[string]interface{}) error {
	if _, ok := r.users[userID]; !ok {
		return repositories.ErrUserNotFound
	}
	r.updatedFields = append(r.updatedFields, fields)
	return nil
}

func (r *fakeUserRepo) IncrementTokenVersion(userID uint) error {
	u, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.TokenVersion++
	r.tokenBumps = append(r.tokenBumps, userID)
	return nil
}

func (r *fakeUserRepo) List(offset, limit int) ([]models.User, int64, error) {
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) CountByStatus(status string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Status == status {
			n++
		}
	}
	return n, nil
}

func TestBanUser(t *testing.T) {
	t.Run("writes only ban columns and bumps token version", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.users[7] = &models.User{Status: models.UserStatusActive, WalletBalance: 500, TokenVersion: 1}
		svc := NewService(repo, nil, nil, nil)

		require.NoError(t, svc.BanUser(context.Background(), 7, "fraud"))

		require.Len(t, repo.updatedFields, 1)
		fields := repo.updatedFields[0]
		assert.Equal(t, models.UserStatusBanned, fields["status"])
		assert.Equal(t, "fraud", fields["ban_reason"])
		assert.NotContains(t, fields, "wallet_balance")
		assert.Equal(t, []uint{7}, repo.tokenBumps)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc := NewService(newFakeUserRepo(), nil, nil, nil)
		err := svc.BanUser(context.Background(), 99, "spam")
		assert.ErrorIs(t, err, repositories.ErrUserNotFound)
	})
}

func TestUnbanUser(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users[7] = &models.User{Status: models.UserStatusBanned, BanReason: "fraud", WalletBalance: 500}
	svc := NewService(repo, nil, nil, nil)

	require.NoError(t, svc.UnbanUser(context.Background(), 7))

	require.Len(t, repo.updatedFields, 1)
	fields := repo.updatedFields[0]
	assert.Equal(t, models.UserStatusActive, fields["status"])
	assert.Equal(t, "", fields["ban_reason"])
	assert.Nil(t, fields["banned_at"])
	assert.NotContains(t, fields, "wallet_balance")
	assert.Empty(t, repo.tokenBumps)
}
