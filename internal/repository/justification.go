package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Behyna/gem-services/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JustificationRepository interface {
	CreateIfMissing(ctx context.Context, j *model.Justification) error
	GetByTransactionID(ctx context.Context, transactionID int64) (*model.Justification, error)
	ListByTransactionIDs(ctx context.Context, transactionIDs []int64) ([]model.Justification, error)
	MarkIssued(ctx context.Context, transactionID int64, reference, url string) error
	RecordFailure(ctx context.Context, transactionID int64, lastError string, republish bool) error
	FindUnpublishedPending(ctx context.Context, limit int) ([]model.Justification, error)
	MarkPublished(ctx context.Context, transactionID int64, attempts int) error
	CountPending(ctx context.Context) (int64, error)
}

type justification struct {
	db *gorm.DB
}

func NewJustificationRepository(db *gorm.DB) JustificationRepository {
	return &justification{db: db}
}

func (r *justification) CreateIfMissing(ctx context.Context, j *model.Justification) error {
	return GetTx(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(j).Error
}

func (r *justification) GetByTransactionID(ctx context.Context, transactionID int64) (*model.Justification, error) {
	var j model.Justification
	err := GetTx(ctx, r.db).Where("transaction_id = ?", transactionID).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJustificationNotFound
	}

	if err != nil {
		return nil, err
	}

	return &j, nil
}

func (r *justification) ListByTransactionIDs(ctx context.Context, transactionIDs []int64) (
	[]model.Justification, error) {

	if len(transactionIDs) == 0 {
		return nil, nil
	}

	var js []model.Justification
	err := GetTx(ctx, r.db).Where("transaction_id IN ?", transactionIDs).Find(&js).Error
	return js, err
}

func (r *justification) MarkIssued(ctx context.Context, transactionID int64, reference, url string) error {
	now := time.Now()
	result := GetTx(ctx, r.db).Model(&model.Justification{}).
		Where("transaction_id = ?", transactionID).
		Updates(map[string]any{
			"status":     model.JustificationStatusIssued,
			"reference":  reference,
			"url":        url,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": nil,
			"issued_at":  now,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrJustificationNotFound
	}

	return nil
}

// RecordFailure keeps the justification pending. With republish set it goes
// back to the outbox publisher; otherwise it waits for an explicit regenerate.
func (r *justification) RecordFailure(ctx context.Context, transactionID int64, lastError string,
	republish bool) error {

	updates := map[string]any{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": lastError,
		"published":  !republish,
	}
	if republish {
		updates["published_at"] = nil
	}

	result := GetTx(ctx, r.db).Model(&model.Justification{}).
		Where("transaction_id = ? AND status = ?", transactionID, model.JustificationStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrJustificationNotFound
	}

	return nil
}

func (r *justification) FindUnpublishedPending(ctx context.Context, limit int) ([]model.Justification, error) {
	var js []model.Justification
	err := GetTx(ctx, r.db).
		Where("status = ? AND published = ?", model.JustificationStatusPending, false).
		Order("created_at ASC").
		Limit(limit).
		Find(&js).Error
	return js, err
}

// MarkPublished only flags the row it read. If a consumer recorded an attempt
// in between, the row is left for the next publish and ErrJustificationChanged
// is returned.
func (r *justification) MarkPublished(ctx context.Context, transactionID int64, attempts int) error {
	result := GetTx(ctx, r.db).Model(&model.Justification{}).
		Where("transaction_id = ? AND status = ? AND published = ? AND attempts = ?",
			transactionID, model.JustificationStatusPending, false, attempts).
		Updates(map[string]any{"published": true, "published_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrJustificationChanged
	}

	return nil
}

func (r *justification) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := GetTx(ctx, r.db).Model(&model.Justification{}).
		Where("status = ?", model.JustificationStatusPending).
		Count(&count).Error
	return count, err
}
