package repositories

import (
	"context"
	"fmt"

	"vyuha/internal/models"
	"vyuha/internal/repositories/cache"

	"gorm.io/gorm"
)

type walletRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewWalletRepository(db *gorm.DB, cacheService *cache.CacheService) WalletRepository {
	return &walletRepository{
		db:    db,
		cache: cacheService,
	}
}

func (r *walletRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *walletRepository) CreditBalance(userID uint, amount float64) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to credit balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidateUser(userID)
	return nil
}

func (r *walletRepository) DebitBalance(userID uint, amount float64) error {
	// The balance guard lives in the WHERE clause so two concurrent debits can
	// never both succeed against the same funds.
	result := r.db.Model(&models.User{}).
		Where("id = ? AND wallet_balance >= ?", userID, amount).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to debit balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	r.invalidateUser(userID)
	return nil
}

func (r *walletRepository) CreateTransaction(txn *models.WalletTransaction) error {
	if err := r.db.Create(txn).Error; err != nil {
		return fmt.Errorf("failed to create wallet transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) GetTransactionByID(id uint) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	if err := r.db.First(&txn, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get wallet transaction: %w", err)
	}
	return &txn, nil
}

func (r *walletRepository) SettleTransaction(id uint, from, to string) error {
	result := r.db.Model(&models.WalletTransaction{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return fmt.Errorf("failed to settle wallet transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *walletRepository) GetTransactionsByUser(userID uint, limit, offset int) ([]models.WalletTransaction, int64, error) {
	var txns []models.WalletTransaction
	var total int64

	query := r.db.Model(&models.WalletTransaction{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wallet transactions: %w", err)
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txns, total, nil
}

func (r *walletRepository) GetCompletedByUser(userID uint) ([]models.WalletTransaction, error) {
	var txns []models.WalletTransaction
	err := r.db.
		Where("user_id = ? AND status = ?", userID, models.TransactionStatusCompleted).
		Order("created_at DESC").
		Find(&txns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completed transactions: %w", err)
	}
	return txns, nil
}

func (r *walletRepository) ListByTypeAndStatus(txType, status string, limit, offset int) ([]models.WalletTransaction, int64, error) {
	var txns []models.WalletTransaction
	var total int64

	query := r.db.Model(&models.WalletTransaction{})
	if txType != "" {
		query = query.Where("type = ?", txType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wallet transactions: %w", err)
	}

	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&txns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	return txns, total, nil
}

func (r *walletRepository) HasCompletedBonus(userID uint, description string) (bool, error) {
	var count int64
	err := r.db.Model(&models.WalletTransaction{}).
		Where("user_id = ? AND type = ? AND status = ? AND description = ?",
			userID, models.TransactionTypeBonus, models.TransactionStatusCompleted, description).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check bonus claim: %w", err)
	}
	return count > 0, nil
}

func (r *walletRepository) CountByTypeAndStatus(txType, status string) (int64, error) {
	var count int64
	query := r.db.Model(&models.WalletTransaction{})
	if txType != "" {
		query = query.Where("type = ?", txType)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count wallet transactions: %w", err)
	}
	return count, nil
}

func (r *walletRepository) ExecuteInTransaction(fc func(tx WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fc(&walletRepository{db: tx, cache: r.cache})
	})
}

func (r *walletRepository) invalidateUser(userID uint) {
	if r.cache != nil {
		_ = r.cache.Delete(context.Background(), r.cache.UserKey(userID))
	}
}
