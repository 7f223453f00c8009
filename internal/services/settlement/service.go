// Package settlement owns every money movement tied to a tournament: entry
// fee splits on join, prize payout on winner declaration, refunds on
// cancellation and the pre-start pool recomputation. Each movement is one
// database transaction; a partially settled join or payout cannot persist.
package settlement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	domainerrors "vyuha/internal/errors"
	"vyuha/internal/models"
	"vyuha/internal/repositories"
	"vyuha/internal/services/notification"
	"vyuha/internal/services/settings"
	"vyuha/internal/utils"
	"vyuha/internal/validation"
)

type Service interface {
	CreateTournament(ctx context.Context, organizerID uint, t *models.Tournament) error
	GetTournament(ctx context.Context, id uint) (*models.Tournament, int64, error)
	ListTournaments(ctx context.Context, status string, limit, offset int) ([]models.Tournament, int64, error)
	ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Tournament, error)

	JoinTournament(ctx context.Context, userID, tournamentID uint) error
	StartTournament(ctx context.Context, organizerID, tournamentID uint) error
	CancelTournament(ctx context.Context, organizerID, tournamentID uint) error
	DeclareWinner(ctx context.Context, organizerID, tournamentID, winnerUserID uint) error
	Recalculate(ctx context.Context, tournamentID uint) error
}

type service struct {
	repo     repositories.SettlementRepository
	settings settings.Service
	notifier notification.Service
}

func NewService(
	repo repositories.SettlementRepository,
	settingsService settings.Service,
	notifier notification.Service,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if settingsService == nil {
		panic("settings service is required")
	}
	return &service{
		repo:     repo,
		settings: settingsService,
		notifier: notifier,
	}
}

func (s *service) CreateTournament(ctx context.Context, organizerID uint, t *models.Tournament) error {
	t.OrganizerID = organizerID
	t.Status = models.TournamentStatusUpcoming
	t.CurrentPrizePool = 0
	t.OrganizerEarnings = 0
	t.PlatformEarnings = 0
	t.TotalFeesCollected = 0

	v := validation.New()
	v.Tournament(t)
	if !v.Valid() {
		for field, message := range v.Errors {
			return fmt.Errorf("invalid tournament: %s %s", field, message)
		}
	}

	return s.repo.Create(t)
}

func (s *service) GetTournament(ctx context.Context, id uint) (*models.Tournament, int64, error) {
	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, 0, err
	}
	count, err := s.repo.CountRegistrations(id)
	if err != nil {
		return nil, 0, err
	}
	return t, count, nil
}

func (s *service) ListTournaments(ctx context.Context, status string, limit, offset int) ([]models.Tournament, int64, error) {
	return s.repo.List(status, limit, offset)
}

func (s *service) ListByOrganizer(ctx context.Context, organizerID uint) ([]models.Tournament, error) {
	return s.repo.GetByOrganizer(organizerID)
}

// JoinTournament registers the user and settles their entry fee in one
// transaction: debit, entry_fee ledger row, registration row, aggregate
// increments. Preconditions are checked before the transaction and the
// contended ones re-checked inside it under a row lock.
func (s *service) JoinTournament(ctx context.Context, userID, tournamentID uint) error {
	snapshot, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load commission settings: %w", err)
	}

	t, err := s.repo.GetByID(tournamentID)
	if err != nil {
		return err
	}
	if t.Status != models.TournamentStatusUpcoming {
		return domainerrors.ErrTournamentNotJoinable
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user.IsBanned() {
		return domainerrors.ErrAccountBanned
	}

	if registered, err := s.repo.IsRegistered(tournamentID, userID); err != nil {
		return err
	} else if registered {
		return domainerrors.ErrAlreadyRegistered
	}

	count, err := s.repo.CountRegistrations(tournamentID)
	if err != nil {
		return err
	}
	if t.IsFull(count) {
		return domainerrors.ErrTournamentFull
	}

	fee := t.EntryFee
	if fee > 0 && user.WalletBalance < fee {
		return repositories.ErrInsufficientBalance
	}

	organizerShare := fee * snapshot.OrganizerPercent / 100
	platformShare := fee * snapshot.PlatformPercent / 100
	prizeShare := fee * snapshot.PrizePoolPercent / 100

	err = s.repo.ExecuteInTransaction(func(tx repositories.SettlementRepository) error {
		locked, err := tx.GetByIDForUpdate(tournamentID)
		if err != nil {
			return err
		}
		if locked.Status != models.TournamentStatusUpcoming {
			return domainerrors.ErrTournamentNotJoinable
		}

		if registered, err := tx.IsRegistered(tournamentID, userID); err != nil {
			return err
		} else if registered {
			return domainerrors.ErrAlreadyRegistered
		}

		count, err := tx.CountRegistrations(tournamentID)
		if err != nil {
			return err
		}
		if locked.IsFull(count) {
			return domainerrors.ErrTournamentFull
		}

		if fee > 0 {
			if err := tx.DebitBalance(userID, fee); err != nil {
				return err
			}
			if err := tx.CreateTransaction(&models.WalletTransaction{
				UserID:       userID,
				Type:         models.TransactionTypeEntryFee,
				Amount:       -fee,
				Status:       models.TransactionStatusCompleted,
				Description:  fmt.Sprintf("Entry fee for %s", locked.Title),
				ReferenceNo:  newReference("FEE"),
				TournamentID: &tournamentID,
			}); err != nil {
				return err
			}
		}

		if err := tx.CreateRegistration(&models.TournamentRegistration{
			TournamentID: tournamentID,
			UserID:       userID,
			Status:       models.RegistrationStatusRegistered,
		}); err != nil {
			// The unique index catches a duplicate join that slipped past
			// the IsRegistered re-check.
			if errors.Is(err, repositories.ErrAlreadyRegistered) {
				return domainerrors.ErrAlreadyRegistered
			}
			return err
		}

		if fee > 0 {
			return tx.AddAggregates(tournamentID, prizeShare, organizerShare, platformShare, fee)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notify(ctx, notification.EventTournamentJoined, userID, map[string]string{
		"tournament":    t.Title,
		"tournament_id": strconv.FormatUint(uint64(tournamentID), 10),
	})
	return nil
}

// StartTournament moves upcoming to ongoing. One-way; joins close here.
func (s *service) StartTournament(ctx context.Context, organizerID, tournamentID uint) error {
	return s.repo.ExecuteInTransaction(func(tx repositories.SettlementRepository) error {
		t, err := tx.GetByIDForUpdate(tournamentID)
		if err != nil {
			return err
		}
		if t.OrganizerID != organizerID {
			return domainerrors.ErrNotTournamentOrganizer
		}
		if t.Status != models.TournamentStatusUpcoming {
			return domainerrors.ErrInvalidTransition
		}
		t.Status = models.TournamentStatusOngoing
		return tx.Update(t)
	})
}

// CancelTournament refunds every registrant's entry fee and zeroes the
// aggregates, all in one transaction with the status flip.
func (s *service) CancelTournament(ctx context.Context, organizerID, tournamentID uint) error {
	var refunded []uint
	var title string
	var fee float64

	err := s.repo.ExecuteInTransaction(func(tx repositories.SettlementRepository) error {
		t, err := tx.GetByIDForUpdate(tournamentID)
		if err != nil {
			return err
		}
		if t.OrganizerID != organizerID {
			return domainerrors.ErrNotTournamentOrganizer
		}
		if t.Status != models.TournamentStatusUpcoming {
			return domainerrors.ErrInvalidTransition
		}

		title = t.Title
		fee = t.EntryFee

		regs, err := tx.ListRegistrations(tournamentID)
		if err != nil {
			return err
		}
		for _, reg := range regs {
			if fee > 0 {
				if err := tx.CreditBalance(reg.UserID, fee); err != nil {
					return err
				}
				if err := tx.CreateTransaction(&models.WalletTransaction{
					UserID:       reg.UserID,
					Type:         models.TransactionTypeEntryFee,
					Amount:       fee,
					Status:       models.TransactionStatusCompleted,
					Description:  fmt.Sprintf("Entry fee refund for %s", title),
					ReferenceNo:  newReference("RFD"),
					TournamentID: &tournamentID,
				}); err != nil {
					return err
				}
			}
			refunded = append(refunded, reg.UserID)
		}

		t.Status = models.TournamentStatusCancelled
		t.CurrentPrizePool = 0
		t.OrganizerEarnings = 0
		t.PlatformEarnings = 0
		t.TotalFeesCollected = 0
		return tx.Update(t)
	})
	if err != nil {
		return err
	}

	for _, userID := range refunded {
		s.notify(ctx, notification.EventTournamentCancelled, userID, map[string]string{
			"tournament": title,
			"amount":     formatAmount(fee),
		})
	}
	return nil
}

// DeclareWinner completes the tournament and pays the prize pool out, exactly
// once, on the ongoing-to-completed edge.
func (s *service) DeclareWinner(ctx context.Context, organizerID, tournamentID, winnerUserID uint) error {
	var prize float64
	var title string

	err := s.repo.ExecuteInTransaction(func(tx repositories.SettlementRepository) error {
		t, err := tx.GetByIDForUpdate(tournamentID)
		if err != nil {
			return err
		}
		if t.OrganizerID != organizerID {
			return domainerrors.ErrNotTournamentOrganizer
		}
		if t.WinnerUserID != nil {
			return domainerrors.ErrWinnerAlreadyDeclared
		}
		if t.Status != models.TournamentStatusOngoing {
			return domainerrors.ErrInvalidTransition
		}

		registered, err := tx.IsRegistered(tournamentID, winnerUserID)
		if err != nil {
			return err
		}
		if !registered {
			return domainerrors.ErrWinnerNotRegistered
		}

		prize = t.CurrentPrizePool
		title = t.Title

		if prize > 0 {
			if err := tx.CreditBalance(winnerUserID, prize); err != nil {
				return err
			}
			if err := tx.CreateTransaction(&models.WalletTransaction{
				UserID:       winnerUserID,
				Type:         models.TransactionTypePrize,
				Amount:       prize,
				Status:       models.TransactionStatusCompleted,
				Description:  fmt.Sprintf("Prize for winning %s", title),
				ReferenceNo:  newReference("PRZ"),
				TournamentID: &tournamentID,
				Rank:         1,
			}); err != nil {
				return err
			}
		}

		now := time.Now()
		t.WinnerUserID = &winnerUserID
		t.WinnerDeclaredAt = &now
		t.Status = models.TournamentStatusCompleted
		return tx.Update(t)
	})
	if err != nil {
		return err
	}

	s.notify(ctx, notification.EventTournamentWon, winnerUserID, map[string]string{
		"tournament":    title,
		"tournament_id": strconv.FormatUint(uint64(tournamentID), 10),
		"amount":        formatAmount(prize),
	})
	return nil
}

// Recalculate recomputes the pool and earnings aggregates from the
// registration count, overwriting any drift the incremental join updates may
// have accumulated, and stamps PoolRecalculatedAt.
func (s *service) Recalculate(ctx context.Context, tournamentID uint) error {
	snapshot, err := s.settings.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load commission settings: %w", err)
	}

	return s.repo.ExecuteInTransaction(func(tx repositories.SettlementRepository) error {
		t, err := tx.GetByIDForUpdate(tournamentID)
		if err != nil {
			return err
		}
		if t.Status != models.TournamentStatusUpcoming {
			return domainerrors.ErrInvalidTransition
		}

		count, err := tx.CountRegistrations(tournamentID)
		if err != nil {
			return err
		}

		fees := t.EntryFee * float64(count)
		pool := fees * snapshot.PrizePoolPercent / 100
		organizer := fees * snapshot.OrganizerPercent / 100
		platform := fees * snapshot.PlatformPercent / 100

		return tx.SetAggregates(tournamentID, pool, organizer, platform, fees, time.Now())
	})
}

func (s *service) notify(ctx context.Context, event string, userID uint, data map[string]string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event, userID, data); err != nil {
		log.Printf("notification %s for user %d failed: %v", event, userID, err)
	}
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// newReference mirrors the wallet service's reference scheme so every ledger
// row carries a unique reference number.
func newReference(prefix string) string {
	id, err := utils.GenerateUniqueID(8)
	if err != nil {
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return prefix + "-" + strings.ToUpper(id)
}
