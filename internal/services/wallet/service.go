package wallet

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"vyuha/internal/models"
	"vyuha/internal/repositories"
	"vyuha/internal/services/earnings"
	"vyuha/internal/services/notification"
	"vyuha/internal/utils"
	"vyuha/internal/validation"
)

// Service is the wallet ledger service interface.
type Service interface {
	GetBalance(ctx context.Context, userID uint) (*Balance, error)
	GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, int64, error)
	GetWithdrawable(ctx context.Context, userID uint) (*Withdrawable, error)

	SubmitDeposit(ctx context.Context, req DepositRequest) (*models.WalletTransaction, error)
	ApproveDeposit(ctx context.Context, txnID uint) error
	RejectDeposit(ctx context.Context, txnID uint) error

	RequestWithdrawal(ctx context.Context, userID uint, amount float64) (*models.WalletTransaction, error)
	ApproveWithdrawal(ctx context.Context, txnID uint) error
	RejectWithdrawal(ctx context.Context, txnID uint) error

	ClaimStatsBonus(ctx context.Context, userID uint, points int) (*models.WalletTransaction, error)
}

type service struct {
	repo        repositories.WalletRepository
	tournaments repositories.TournamentRepository
	notifier    notification.Service
	metrics     MetricsCollector
}

// NewService creates a new wallet service.
func NewService(
	repo repositories.WalletRepository,
	tournaments repositories.TournamentRepository,
	notifier notification.Service,
	metrics MetricsCollector,
) Service {
	if repo == nil {
		panic("repo is required")
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		repo:        repo,
		tournaments: tournaments,
		notifier:    notifier,
		metrics:     metrics,
	}
}

func (s *service) GetBalance(ctx context.Context, userID uint) (*Balance, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.repo.GetCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	return &Balance{
		UserID:       user.ID,
		Total:        user.WalletBalance,
		Withdrawable: earnings.WithdrawableEarnings(completed),
	}, nil
}

func (s *service) GetTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	return s.repo.GetTransactionsByUser(userID, limit, offset)
}

func (s *service) GetWithdrawable(ctx context.Context, userID uint) (*Withdrawable, error) {
	completed, err := s.repo.GetCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	earningRows := earnings.EarningTransactions(completed)
	titles := s.tournamentTitles(earningRows)

	return &Withdrawable{
		Total:     earnings.WithdrawableEarnings(completed),
		Breakdown: earnings.BuildBreakdown(earningRows, titles),
	}, nil
}

// tournamentTitles resolves the titles for rows carrying a structured
// tournament reference. A missing tournament just falls back to the
// description parse.
func (s *service) tournamentTitles(rows []models.WalletTransaction) map[uint]string {
	titles := make(map[uint]string)
	if s.tournaments == nil {
		return titles
	}
	for _, row := range rows {
		if row.TournamentID == nil {
			continue
		}
		id := *row.TournamentID
		if _, seen := titles[id]; seen {
			continue
		}
		t, err := s.tournaments.GetByID(id)
		if err != nil {
			continue
		}
		titles[id] = t.Title
	}
	return titles
}

func (s *service) SubmitDeposit(ctx context.Context, req DepositRequest) (*models.WalletTransaction, error) {
	start := time.Now()
	defer func() { s.metrics.RecordOperationDuration("submit_deposit", time.Since(start)) }()

	if req.Amount <= 0 {
		s.metrics.RecordError("submit_deposit", "invalid_amount")
		return nil, ErrInvalidAmount
	}
	utr := strings.TrimSpace(req.UTRNumber)
	if utr == "" {
		s.metrics.RecordError("submit_deposit", "missing_utr")
		return nil, ErrMissingUTR
	}

	v := validation.New()
	v.Deposit(req.Amount, utr)
	if !v.Valid() {
		if _, bad := v.Errors["amount"]; bad {
			s.metrics.RecordError("submit_deposit", "invalid_amount")
			return nil, ErrInvalidAmount
		}
		s.metrics.RecordError("submit_deposit", "invalid_utr")
		return nil, ErrInvalidUTR
	}

	if _, err := s.repo.GetUserByID(req.UserID); err != nil {
		return nil, err
	}

	txn := &models.WalletTransaction{
		UserID:        req.UserID,
		Type:          models.TransactionTypeDeposit,
		Amount:        req.Amount,
		Status:        models.TransactionStatusPending,
		Description:   "UPI deposit",
		ReferenceNo:   newReference("DEP"),
		UTRNumber:     utr,
		ScreenshotURL: req.ScreenshotURL,
	}
	if err := s.repo.CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) ApproveDeposit(ctx context.Context, txnID uint) error {
	txn, err := s.repo.GetTransactionByID(txnID)
	if err != nil {
		return err
	}
	if txn.NormalizedType() != models.TransactionTypeDeposit {
		return repositories.ErrTransactionNotFound
	}
	if !txn.IsPending() {
		return ErrAlreadySettled
	}

	err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		if err := tx.SettleTransaction(txn.ID, models.TransactionStatusPending, models.TransactionStatusCompleted); err != nil {
			return err
		}
		return tx.CreditBalance(txn.UserID, txn.Amount)
	})
	if err != nil {
		s.metrics.RecordError("approve_deposit", "settlement_failed")
		return err
	}

	s.notify(ctx, notification.EventDepositApproved, txn.UserID, map[string]string{
		"amount": formatAmount(txn.Amount),
	})
	return nil
}

func (s *service) RejectDeposit(ctx context.Context, txnID uint) error {
	txn, err := s.repo.GetTransactionByID(txnID)
	if err != nil {
		return err
	}
	if txn.NormalizedType() != models.TransactionTypeDeposit {
		return repositories.ErrTransactionNotFound
	}
	if !txn.IsPending() {
		return ErrAlreadySettled
	}
	return s.repo.SettleTransaction(txn.ID, models.TransactionStatusPending, models.TransactionStatusFailed)
}

func (s *service) RequestWithdrawal(ctx context.Context, userID uint, amount float64) (*models.WalletTransaction, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned() {
		return nil, ErrAccountBanned
	}

	v := validation.New()
	v.Withdrawal(amount)
	if !v.Valid() {
		return nil, ErrInvalidAmount
	}

	completed, err := s.repo.GetCompletedByUser(userID)
	if err != nil {
		return nil, err
	}
	if amount > earnings.WithdrawableEarnings(completed) {
		return nil, ErrExceedsWithdrawable
	}

	// The balance stays untouched until an admin approves; the pending row
	// only reserves the request.
	txn := &models.WalletTransaction{
		UserID:      userID,
		Type:        models.TransactionTypeWithdrawal,
		Amount:      -amount,
		Status:      models.TransactionStatusPending,
		Description: "Withdrawal request",
		ReferenceNo: newReference("WDL"),
	}
	if err := s.repo.CreateTransaction(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

func (s *service) ApproveWithdrawal(ctx context.Context, txnID uint) error {
	txn, err := s.repo.GetTransactionByID(txnID)
	if err != nil {
		return err
	}
	if txn.NormalizedType() != models.TransactionTypeWithdrawal {
		return repositories.ErrTransactionNotFound
	}
	if !txn.IsPending() {
		return ErrAlreadySettled
	}

	amount := -txn.Amount
	err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		if err := tx.SettleTransaction(txn.ID, models.TransactionStatusPending, models.TransactionStatusCompleted); err != nil {
			return err
		}
		return tx.DebitBalance(txn.UserID, amount)
	})
	if err != nil {
		s.metrics.RecordError("approve_withdrawal", "settlement_failed")
		return err
	}

	s.notify(ctx, notification.EventWithdrawalApproved, txn.UserID, map[string]string{
		"amount": formatAmount(amount),
	})
	return nil
}

func (s *service) RejectWithdrawal(ctx context.Context, txnID uint) error {
	txn, err := s.repo.GetTransactionByID(txnID)
	if err != nil {
		return err
	}
	if txn.NormalizedType() != models.TransactionTypeWithdrawal {
		return repositories.ErrTransactionNotFound
	}
	if !txn.IsPending() {
		return ErrAlreadySettled
	}
	if err := s.repo.SettleTransaction(txn.ID, models.TransactionStatusPending, models.TransactionStatusFailed); err != nil {
		return err
	}

	s.notify(ctx, notification.EventWithdrawalRejected, txn.UserID, map[string]string{
		"amount": formatAmount(-txn.Amount),
	})
	return nil
}

func (s *service) ClaimStatsBonus(ctx context.Context, userID uint, points int) (*models.WalletTransaction, error) {
	amount, ok := Milestones[points]
	if !ok {
		return nil, ErrUnknownMilestone
	}

	description := fmt.Sprintf("Stats milestone bonus - %d points", points)
	claimed, err := s.repo.HasCompletedBonus(userID, description)
	if err != nil {
		return nil, err
	}
	if claimed {
		return nil, ErrBonusAlreadyClaimed
	}

	txn := &models.WalletTransaction{
		UserID:      userID,
		Type:        models.TransactionTypeBonus,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		Description: description,
		ReferenceNo: newReference("BON"),
	}
	err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}
		return tx.CreditBalance(userID, amount)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, notification.EventBonusReceived, userID, map[string]string{
		"amount": formatAmount(amount),
	})
	return txn, nil
}

func (s *service) notify(ctx context.Context, event string, userID uint, data map[string]string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, event, userID, data); err != nil {
		log.Printf("notification %s for user %d failed: %v", event, userID, err)
	}
}

func newReference(prefix string) string {
	id, err := utils.GenerateUniqueID(8)
	if err != nil {
		// crypto/rand failing means the process is in a bad state; a
		// timestamp reference still keeps the row traceable.
		return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
	}
	return prefix + "-" + strings.ToUpper(id)
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
