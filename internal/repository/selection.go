package repository

import (
	"context"
	"time"

	"github.com/Behyna/gem-services/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SelectionRepository interface {
	Activate(ctx context.Context, selection model.ActiveSelection) error
	ListByUser(ctx context.Context, userID string) ([]model.ActiveSelection, error)
}

type selection struct {
	db *gorm.DB
}

func NewSelectionRepository(db *gorm.DB) SelectionRepository {
	return &selection{db: db}
}

// Activate replaces whatever was active in the selection's category.
func (r *selection) Activate(ctx context.Context, sel model.ActiveSelection) error {
	sel.UpdatedAt = time.Now()
	return GetTx(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "category"}},
		DoUpdates: clause.AssignmentColumns([]string{"item_id", "custom_value", "transaction_id", "updated_at"}),
	}).Create(&sel).Error
}

func (r *selection) ListByUser(ctx context.Context, userID string) ([]model.ActiveSelection, error) {
	var selections []model.ActiveSelection
	err := GetTx(ctx, r.db).Where("user_id = ?", userID).Order("category ASC").Find(&selections).Error
	return selections, err
}
