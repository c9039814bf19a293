package repository

import (
	"context"
	"errors"

	"github.com/Behyna/gem-services/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository interface {
	EnsureExists(ctx context.Context, userID string) error
	GetForUpdate(ctx context.Context, userID string) (model.GemAccount, error)
	Get(ctx context.Context, userID string) (model.GemAccount, error)
	UpdateTotals(ctx context.Context, account model.GemAccount) error
	Count(ctx context.Context) (int64, error)
}

type account struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &account{db: db}
}

// EnsureExists creates a zeroed account for userID unless one is present.
func (r *account) EnsureExists(ctx context.Context, userID string) error {
	db := GetTx(ctx, r.db)
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.GemAccount{UserID: userID}).Error
}

func (r *account) GetForUpdate(ctx context.Context, userID string) (model.GemAccount, error) {
	var acc model.GemAccount
	db := GetTx(ctx, r.db)
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.GemAccount{}, ErrAccountNotFound
	}

	return acc, err
}

func (r *account) Get(ctx context.Context, userID string) (model.GemAccount, error) {
	var acc model.GemAccount
	err := GetTx(ctx, r.db).Where("user_id = ?", userID).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.GemAccount{}, ErrAccountNotFound
	}

	return acc, err
}

func (r *account) UpdateTotals(ctx context.Context, acc model.GemAccount) error {
	result := GetTx(ctx, r.db).Model(&model.GemAccount{}).
		Where("user_id = ?", acc.UserID).
		Updates(map[string]any{
			"balance":      acc.Balance,
			"total_earned": acc.TotalEarned,
			"total_spent":  acc.TotalSpent,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}

	return nil
}

func (r *account) Count(ctx context.Context) (int64, error) {
	var count int64
	err := GetTx(ctx, r.db).Model(&model.GemAccount{}).Count(&count).Error
	return count, err
}
