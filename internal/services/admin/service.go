// Package admin bundles the moderation and reporting operations behind the
// admin API: user bans, the transaction review queues and dashboard stats.
package admin

import (
	"context"
	"log"
	"time"

	"vyuha/internal/models"
	"vyuha/internal/repositories"
	"vyuha/internal/services/notification"
)

// DashboardStats is the admin landing page summary.
type DashboardStats struct {
	TotalUsers         int64   `json:"total_users"`
	ActiveUsers        int64   `json:"active_users"`
	BannedUsers        int64   `json:"banned_users"`
	TotalRevenue       float64 `json:"total_revenue"`
	PlatformRevenue    float64 `json:"platform_revenue"`
	OrganizerPayouts   float64 `json:"organizer_payouts"`
	ActivePrizePools   float64 `json:"active_prize_pools"`
	PendingDeposits    int64   `json:"pending_deposits"`
	PendingWithdrawals int64   `json:"pending_withdrawals"`
}

type Service interface {
	ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error)
	BanUser(ctx context.Context, userID uint, reason string) error
	UnbanUser(ctx context.Context, userID uint) error
	ListTransactions(ctx context.Context, txType, status string, limit, offset int) ([]models.WalletTransaction, int64, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type service struct {
	users       repositories.UserRepository
	wallets     repositories.WalletRepository
	tournaments repositories.TournamentRepository
	notifier    notification.Service
}

func NewService(
	users repositories.UserRepository,
	wallets repositories.WalletRepository,
	tournaments repositories.TournamentRepository,
	notifier notification.Service,
) Service {
	return &service{
		users:       users,
		wallets:     wallets,
		tournaments: tournaments,
		notifier:    notifier,
	}
}

func (s *service) ListUsers(ctx context.Context, limit, offset int) ([]models.User, int64, error) {
	return s.users.List(offset, limit)
}

func (s *service) BanUser(ctx context.Context, userID uint, reason string) error {
	now := time.Now()
	err := s.users.UpdateFields(userID, map[string]interface{}{
		"status":     models.UserStatusBanned,
		"ban_reason": reason,
		"banned_at":  &now,
	})
	if err != nil {
		return err
	}
	// Force re-login; the middleware then sees the ban.
	return s.users.IncrementTokenVersion(userID)
}

func (s *service) UnbanUser(ctx context.Context, userID uint) error {
	err := s.users.UpdateFields(userID, map[string]interface{}{
		"status":     models.UserStatusActive,
		"ban_reason": "",
		"banned_at":  nil,
	})
	if err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, notification.EventBanLifted, userID, nil); err != nil {
			log.Printf("failed to notify user %d of ban lift: %v", userID, err)
		}
	}
	return nil
}

func (s *service) ListTransactions(ctx context.Context, txType, status string, limit, offset int) ([]models.WalletTransaction, int64, error) {
	return s.wallets.ListByTypeAndStatus(txType, status, limit, offset)
}

func (s *service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	active, err := s.users.CountByStatus(models.UserStatusActive)
	if err != nil {
		return nil, err
	}
	banned, err := s.users.CountByStatus(models.UserStatusBanned)
	if err != nil {
		return nil, err
	}
	stats.ActiveUsers = active
	stats.BannedUsers = banned
	stats.TotalUsers = active + banned

	totals, err := s.tournaments.AggregateTotals()
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = totals.TotalFeesCollected
	stats.PlatformRevenue = totals.PlatformEarnings
	stats.OrganizerPayouts = totals.OrganizerEarnings
	stats.ActivePrizePools = totals.CurrentPrizePool

	stats.PendingDeposits, err = s.wallets.CountByTypeAndStatus(models.TransactionTypeDeposit, models.TransactionStatusPending)
	if err != nil {
		return nil, err
	}
	stats.PendingWithdrawals, err = s.wallets.CountByTypeAndStatus(models.TransactionTypeWithdrawal, models.TransactionStatusPending)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
