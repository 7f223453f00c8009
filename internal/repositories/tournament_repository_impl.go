package repositories

import (
	"errors"
	"fmt"
	"time"

	"vyuha/internal/models"
	"vyuha/internal/repositories/cache"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type tournamentRepository struct {
	db *gorm.DB
}

func NewTournamentRepository(db *gorm.DB) TournamentRepository {
	return &tournamentRepository{db: db}
}

func (r *tournamentRepository) Create(t *models.Tournament) error {
	if err := r.db.Create(t).Error; err != nil {
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *tournamentRepository) GetByID(id uint) (*models.Tournament, error) {
	var t models.Tournament
	if err := r.db.First(&t, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return &t, nil
}

func (r *tournamentRepository) GetByIDForUpdate(id uint) (*models.Tournament, error) {
	var t models.Tournament
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&t, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to lock tournament: %w", err)
	}
	return &t, nil
}

func (r *tournamentRepository) Update(t *models.Tournament) error {
	if err := r.db.Save(t).Error; err != nil {
		return fmt.Errorf("failed to update tournament: %w", err)
	}
	return nil
}

func (r *tournamentRepository) List(status string, limit, offset int) ([]models.Tournament, int64, error) {
	var tournaments []models.Tournament
	var total int64

	query := r.db.Model(&models.Tournament{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tournaments: %w", err)
	}

	err := query.Order("start_date DESC").Limit(limit).Offset(offset).Find(&tournaments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, total, nil
}

func (r *tournamentRepository) GetByOrganizer(organizerID uint) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	err := r.db.Where("organizer_id = ?", organizerID).
		Order("start_date DESC").
		Find(&tournaments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer tournaments: %w", err)
	}
	return tournaments, nil
}

func (r *tournamentRepository) AddAggregates(id uint, pool, organizer, platform, fees float64) error {
	result := r.db.Model(&models.Tournament{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_prize_pool":   gorm.Expr("current_prize_pool + ?", pool),
			"organizer_earnings":   gorm.Expr("organizer_earnings + ?", organizer),
			"platform_earnings":    gorm.Expr("platform_earnings + ?", platform),
			"total_fees_collected": gorm.Expr("total_fees_collected + ?", fees),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to add tournament aggregates: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTournamentNotFound
	}
	return nil
}

func (r *tournamentRepository) SetAggregates(id uint, pool, organizer, platform, fees float64, at time.Time) error {
	result := r.db.Model(&models.Tournament{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_prize_pool":   pool,
			"organizer_earnings":   organizer,
			"platform_earnings":    platform,
			"total_fees_collected": fees,
			"pool_recalculated_at": at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to set tournament aggregates: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTournamentNotFound
	}
	return nil
}

func (r *tournamentRepository) CountRegistrations(tournamentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.TournamentRegistration{}).
		Where("tournament_id = ?", tournamentID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func (r *tournamentRepository) IsRegistered(tournamentID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.TournamentRegistration{}).
		Where("tournament_id = ? AND user_id = ?", tournamentID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return count > 0, nil
}

func (r *tournamentRepository) CreateRegistration(reg *models.TournamentRegistration) error {
	if err := r.db.Create(reg).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyRegistered
		}
		return fmt.Errorf("failed to create registration: %w", err)
	}
	return nil
}

func (r *tournamentRepository) ListRegistrations(tournamentID uint) ([]models.TournamentRegistration, error) {
	var regs []models.TournamentRegistration
	err := r.db.Where("tournament_id = ?", tournamentID).
		Order("created_at ASC").
		Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return regs, nil
}

func (r *tournamentRepository) DueForRecalculation(from, to time.Time) ([]models.Tournament, error) {
	var tournaments []models.Tournament
	err := r.db.
		Where("status = ? AND start_date >= ? AND start_date < ? AND pool_recalculated_at IS NULL",
			models.TournamentStatusUpcoming, from, to).
		Find(&tournaments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find tournaments due for recalculation: %w", err)
	}
	return tournaments, nil
}

func (r *tournamentRepository) AggregateTotals() (*models.TournamentTotals, error) {
	var totals models.TournamentTotals
	err := r.db.Model(&models.Tournament{}).
		Select("COALESCE(SUM(total_fees_collected), 0) AS total_fees_collected, " +
			"COALESCE(SUM(platform_earnings), 0) AS platform_earnings, " +
			"COALESCE(SUM(organizer_earnings), 0) AS organizer_earnings, " +
			"COALESCE(SUM(current_prize_pool), 0) AS current_prize_pool").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum tournament aggregates: %w", err)
	}
	return &totals, nil
}

// settlementRepository composes the tournament and wallet repositories over one
// gorm handle so settlements can span both inside a single transaction.
type settlementRepository struct {
	*tournamentRepository
	wallet *walletRepository
	db     *gorm.DB
}

func NewSettlementRepository(db *gorm.DB, cacheService *cache.CacheService) SettlementRepository {
	return &settlementRepository{
		tournamentRepository: &tournamentRepository{db: db},
		wallet:               &walletRepository{db: db, cache: cacheService},
		db:                   db,
	}
}

func (r *settlementRepository) GetUserByID(id uint) (*models.User, error) {
	return r.wallet.GetUserByID(id)
}

func (r *settlementRepository) CreditBalance(userID uint, amount float64) error {
	return r.wallet.CreditBalance(userID, amount)
}

func (r *settlementRepository) DebitBalance(userID uint, amount float64) error {
	return r.wallet.DebitBalance(userID, amount)
}

func (r *settlementRepository) CreateTransaction(txn *models.WalletTransaction) error {
	return r.wallet.CreateTransaction(txn)
}

func (r *settlementRepository) ExecuteInTransaction(fc func(tx SettlementRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fc(&settlementRepository{
			tournamentRepository: &tournamentRepository{db: tx},
			wallet:               &walletRepository{db: tx, cache: r.wallet.cache},
			db:                   tx,
		})
	})
}
