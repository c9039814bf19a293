package repository

import (
	"context"

	"github.com/Behyna/gem-services/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OwnedItemRepository interface {
	Record(ctx context.Context, userID, category, itemID string, transactionID int64) error
	ListByUser(ctx context.Context, userID string) ([]model.OwnedItem, error)
}

type ownedItem struct {
	db *gorm.DB
}

func NewOwnedItemRepository(db *gorm.DB) OwnedItemRepository {
	return &ownedItem{db: db}
}

// Record marks the item as owned, counting repeat purchases.
func (r *ownedItem) Record(ctx context.Context, userID, category, itemID string, transactionID int64) error {
	item := model.OwnedItem{
		UserID:             userID,
		Category:           category,
		ItemID:             itemID,
		FirstTransactionID: transactionID,
		LastTransactionID:  transactionID,
		PurchaseCount:      1,
	}

	return GetTx(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "category"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"purchase_count":      gorm.Expr("purchase_count + 1"),
			"last_transaction_id": transactionID,
		}),
	}).Create(&item).Error
}

func (r *ownedItem) ListByUser(ctx context.Context, userID string) ([]model.OwnedItem, error) {
	var items []model.OwnedItem
	err := GetTx(ctx, r.db).Where("user_id = ?", userID).
		Order("category ASC, created_at ASC").
		Find(&items).Error
	return items, err
}
