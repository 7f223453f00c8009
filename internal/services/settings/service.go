// Package settings stores and serves the platform's commission configuration.
package settings

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"

	domainerrors "vyuha/internal/errors"
	"vyuha/internal/models"
	"vyuha/internal/repositories"
	"vyuha/internal/repositories/cache"
)

// Defaults applied when a settings row is missing or unparseable.
const (
	DefaultOrganizerPercent = 10.0
	DefaultPlatformPercent  = 10.0
	DefaultPrizePoolPercent = 80.0
)

// CommissionSettings is the snapshot injected into settlement computations.
// It is read once per operation so a mid-flight settings change cannot split
// a single entry fee inconsistently.
type CommissionSettings struct {
	OrganizerPercent float64 `json:"organizer_commission_percent"`
	PlatformPercent  float64 `json:"platform_commission_percent"`
	PrizePoolPercent float64 `json:"prize_pool_percent"`
}

// Valid reports whether the split covers the whole fee.
func (s CommissionSettings) Valid() bool {
	for _, pct := range []float64{s.OrganizerPercent, s.PlatformPercent, s.PrizePoolPercent} {
		if pct < 0 || pct > 100 {
			return false
		}
	}
	sum := s.OrganizerPercent + s.PlatformPercent + s.PrizePoolPercent
	return math.Abs(sum-100) < 1e-9
}

// PaymentDetails is what the deposit page needs to render a UPI payment.
type PaymentDetails struct {
	AdminUPIID   string `json:"admin_upi_id"`
	PaymentQRURL string `json:"payment_qr_url"`
}

type Service interface {
	Get(ctx context.Context) (CommissionSettings, error)
	Save(ctx context.Context, s CommissionSettings) error
	GetPaymentDetails(ctx context.Context) (PaymentDetails, error)
	SetPaymentDetails(ctx context.Context, d PaymentDetails) error
}

type service struct {
	repo  repositories.SettingsRepository
	cache *cache.CacheService
}

func NewService(repo repositories.SettingsRepository, cacheService *cache.CacheService) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
	}
}

func (s *service) Get(ctx context.Context) (CommissionSettings, error) {
	if s.cache != nil {
		var cached CommissionSettings
		found, err := s.cache.Get(ctx, s.cache.SettingsKey(), &cached)
		if err != nil {
			log.Printf("settings cache read failed: %v", err)
		} else if found {
			return cached, nil
		}
	}

	settings := CommissionSettings{
		OrganizerPercent: DefaultOrganizerPercent,
		PlatformPercent:  DefaultPlatformPercent,
		PrizePoolPercent: DefaultPrizePoolPercent,
	}

	rows, err := s.repo.GetAll()
	if err != nil {
		return CommissionSettings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	for _, row := range rows {
		pct, parseErr := strconv.ParseFloat(row.SettingValue, 64)
		if parseErr != nil {
			continue
		}
		switch row.SettingKey {
		case models.SettingOrganizerCommissionPercent:
			settings.OrganizerPercent = pct
		case models.SettingPlatformCommissionPercent:
			settings.PlatformPercent = pct
		case models.SettingPrizePoolPercent:
			settings.PrizePoolPercent = pct
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cache.SettingsKey(), settings); err != nil {
			log.Printf("settings cache write failed: %v", err)
		}
	}
	return settings, nil
}

func (s *service) Save(ctx context.Context, settings CommissionSettings) error {
	if !settings.Valid() {
		return domainerrors.ErrCommissionSplitInvalid
	}

	pairs := map[string]float64{
		models.SettingOrganizerCommissionPercent: settings.OrganizerPercent,
		models.SettingPlatformCommissionPercent:  settings.PlatformPercent,
		models.SettingPrizePoolPercent:           settings.PrizePoolPercent,
	}
	for key, pct := range pairs {
		value := strconv.FormatFloat(pct, 'f', -1, 64)
		if err := s.repo.Upsert(key, value); err != nil {
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	if s.cache != nil {
		if err := s.cache.InvalidateSettings(ctx); err != nil {
			log.Printf("settings cache invalidation failed: %v", err)
		}
	}
	return nil
}

func (s *service) GetPaymentDetails(_ context.Context) (PaymentDetails, error) {
	var details PaymentDetails

	if row, err := s.repo.Get(models.SettingAdminUPIID); err == nil {
		details.AdminUPIID = row.SettingValue
	} else if err != repositories.ErrSettingNotFound {
		return PaymentDetails{}, fmt.Errorf("failed to load admin UPI id: %w", err)
	}

	if row, err := s.repo.Get(models.SettingPaymentQRURL); err == nil {
		details.PaymentQRURL = row.SettingValue
	} else if err != repositories.ErrSettingNotFound {
		return PaymentDetails{}, fmt.Errorf("failed to load payment QR url: %w", err)
	}

	return details, nil
}

func (s *service) SetPaymentDetails(_ context.Context, d PaymentDetails) error {
	if d.AdminUPIID != "" {
		if err := s.repo.Upsert(models.SettingAdminUPIID, d.AdminUPIID); err != nil {
			return fmt.Errorf("failed to save admin UPI id: %w", err)
		}
	}
	if d.PaymentQRURL != "" {
		if err := s.repo.Upsert(models.SettingPaymentQRURL, d.PaymentQRURL); err != nil {
			return fmt.Errorf("failed to save payment QR url: %w", err)
		}
	}
	return nil
}
