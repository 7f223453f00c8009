package settings

import (
	"context"
	"testing"

	domainerrors "vyuha/internal/errors"
	"vyuha/internal/models"
	"vyuha/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	rows map[string]string
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{rows: make(map[string]string)}
}

func (r *fakeSettingsRepo) Get(key string) (*models.PlatformSetting, error) {
	value, ok := r.rows[key]
	if !ok {
		return nil, repositories.ErrSettingNotFound
	}
	return &models.PlatformSetting{SettingKey: key, SettingValue: value}, nil
}

func (r *fakeSettingsRepo) GetAll() ([]models.PlatformSetting, error) {
	out := make([]models.PlatformSetting, 0, len(r.rows))
	for key, value := range r.rows {
		out = append(out, models.PlatformSetting{SettingKey: key, SettingValue: value})
	}
	return out, nil
}

func (r *fakeSettingsRepo) Upsert(key, value string) error {
	r.rows[key] = value
	return nil
}

func TestGet_DefaultsWhenRowsMissing(t *testing.T) {
	svc := NewService(newFakeSettingsRepo(), nil)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.OrganizerPercent)
	assert.Equal(t, 10.0, got.PlatformPercent)
	assert.Equal(t, 80.0, got.PrizePoolPercent)
}

func TestGet_ReadsStoredValues(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.rows[models.SettingOrganizerCommissionPercent] = "15"
	repo.rows[models.SettingPlatformCommissionPercent] = "5"
	repo.rows[models.SettingPrizePoolPercent] = "80"
	svc := NewService(repo, nil)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 15.0, got.OrganizerPercent)
	assert.Equal(t, 5.0, got.PlatformPercent)
	assert.Equal(t, 80.0, got.PrizePoolPercent)
}

func TestGet_IgnoresUnparseableValues(t *testing.T) {
	repo := newFakeSettingsRepo()
	repo.rows[models.SettingOrganizerCommissionPercent] = "not-a-number"
	svc := NewService(repo, nil)

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.OrganizerPercent)
}

func TestSave_RejectsInvalidSplit(t *testing.T) {
	svc := NewService(newFakeSettingsRepo(), nil)

	err := svc.Save(context.Background(), CommissionSettings{
		OrganizerPercent: 10,
		PlatformPercent:  10,
		PrizePoolPercent: 79,
	})
	assert.ErrorIs(t, err, domainerrors.ErrCommissionSplitInvalid)

	err = svc.Save(context.Background(), CommissionSettings{
		OrganizerPercent: -5,
		PlatformPercent:  25,
		PrizePoolPercent: 80,
	})
	assert.ErrorIs(t, err, domainerrors.ErrCommissionSplitInvalid)
}

func TestSave_PersistsValidSplit(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewService(repo, nil)

	err := svc.Save(context.Background(), CommissionSettings{
		OrganizerPercent: 20,
		PlatformPercent:  20,
		PrizePoolPercent: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, "20", repo.rows[models.SettingOrganizerCommissionPercent])
	assert.Equal(t, "60", repo.rows[models.SettingPrizePoolPercent])

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 60.0, got.PrizePoolPercent)
}

func TestPaymentDetails_RoundTrip(t *testing.T) {
	repo := newFakeSettingsRepo()
	svc := NewService(repo, nil)

	err := svc.SetPaymentDetails(context.Background(), PaymentDetails{
		AdminUPIID:   "vyuha@upi",
		PaymentQRURL: "https://cdn.example.com/qr.png",
	})
	require.NoError(t, err)

	got, err := svc.GetPaymentDetails(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "vyuha@upi", got.AdminUPIID)
	assert.Equal(t, "https://cdn.example.com/qr.png", got.PaymentQRURL)
}

func TestPaymentDetails_MissingRowsAreEmpty(t *testing.T) {
	svc := NewService(newFakeSettingsRepo(), nil)

	got, err := svc.GetPaymentDetails(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.AdminUPIID)
	assert.Empty(t, got.PaymentQRURL)
}
