package repository

import (
	"context"
	"errors"

	"github.com/Behyna/gem-services/internal/model"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	UpdateStatus(ctx context.Context, id int64, to model.TxStatus) error
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*model.Transaction, error)
	FindCompletedOffer(ctx context.Context, userID, partnerID, offerType string) (*model.Transaction, error)
	ListCompletedOffers(ctx context.Context, userID string) ([]model.Transaction, error)
	ListByUser(ctx context.Context, userID string, cursor int64, limit int) ([]model.Transaction, error)
	SumCompleted(ctx context.Context, userID string) (int64, int64, error)
	CountByStatus(ctx context.Context, userID string) (map[model.TxStatus]int64, error)
}

type transaction struct {
	db  *gorm.DB
	ids IDGenerator
}

func NewTransactionRepository(db *gorm.DB, ids IDGenerator) TransactionRepository {
	return &transaction{db: db, ids: ids}
}

// Create assigns an id when none is set. A clash on the idempotency key is
// reported as ErrTransactionExisted.
func (t *transaction) Create(ctx context.Context, tx *model.Transaction) error {
	if tx.ID == 0 {
		tx.ID = t.ids.NextID()
	}

	err := GetTx(ctx, t.db).Create(tx).Error
	if err == nil {
		return nil
	}

	if isDuplicateKey(err) {
		return ErrTransactionExisted
	}

	return err
}

func (t *transaction) UpdateStatus(ctx context.Context, id int64, to model.TxStatus) error {
	if !to.Terminal() {
		return ErrInvalidTransition
	}

	result := GetTx(ctx, t.db).Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, model.TxStatusPending).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrInvalidTransition
	}

	return nil
}

func (t *transaction) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	return t.first(GetTx(ctx, t.db).Where("id = ?", id))
}

func (t *transaction) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*model.Transaction, error) {
	return t.first(GetTx(ctx, t.db).Where("idempotency_key = ?", idempotencyKey))
}

func (t *transaction) FindCompletedOffer(ctx context.Context, userID, partnerID, offerType string) (
	*model.Transaction, error) {

	return t.first(GetTx(ctx, t.db).
		Where("user_id = ? AND type = ? AND partner_id = ? AND offer_type = ? AND status = ?",
			userID, model.TxTypePartnerOffer, partnerID, offerType, model.TxStatusCompleted))
}

func (t *transaction) ListCompletedOffers(ctx context.Context, userID string) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := GetTx(ctx, t.db).
		Where("user_id = ? AND type = ? AND status = ?", userID, model.TxTypePartnerOffer, model.TxStatusCompleted).
		Order("id ASC").
		Find(&txs).Error

	return txs, err
}

// ListByUser returns up to limit transactions older than cursor, newest first.
// A zero cursor starts from the newest transaction.
func (t *transaction) ListByUser(ctx context.Context, userID string, cursor int64, limit int) (
	[]model.Transaction, error) {

	query := GetTx(ctx, t.db).Where("user_id = ?", userID)
	if cursor > 0 {
		query = query.Where("id < ?", cursor)
	}

	var txs []model.Transaction
	err := query.Order("id DESC").Limit(limit).Find(&txs).Error

	return txs, err
}

// SumCompleted returns the credited and debited gem totals over the completed
// transactions of userID.
func (t *transaction) SumCompleted(ctx context.Context, userID string) (int64, int64, error) {
	var sums struct {
		Earned int64
		Spent  int64
	}

	err := GetTx(ctx, t.db).Model(&model.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN gems_delta > 0 THEN gems_delta ELSE 0 END), 0) AS earned, "+
			"COALESCE(SUM(CASE WHEN gems_delta < 0 THEN -gems_delta ELSE 0 END), 0) AS spent").
		Where("user_id = ? AND status = ?", userID, model.TxStatusCompleted).
		Scan(&sums).Error

	return sums.Earned, sums.Spent, err
}

func (t *transaction) CountByStatus(ctx context.Context, userID string) (map[model.TxStatus]int64, error) {
	var rows []struct {
		Status model.TxStatus
		Total  int64
	}

	err := GetTx(ctx, t.db).Model(&model.Transaction{}).
		Select("status, COUNT(*) AS total").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[model.TxStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Total
	}

	return counts, nil
}

func (t *transaction) first(query *gorm.DB) (*model.Transaction, error) {
	var tx model.Transaction
	err := query.First(&tx).Error
	if err == nil {
		return &tx, nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTransactionNotFound
	}

	return nil, err
}
