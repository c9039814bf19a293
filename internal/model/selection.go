package model

import "time"

// ActiveSelection holds the one active item per category per account.
type ActiveSelection struct {
	UserID        string    `gorm:"column:user_id;primaryKey;type:varchar(64)"`
	Category      string    `gorm:"column:category;primaryKey;type:varchar(32)"`
	ItemID        string    `gorm:"column:item_id;type:varchar(64);not null"`
	CustomValue   string    `gorm:"column:custom_value;type:varchar(16);not null;default:''"`
	TransactionID int64     `gorm:"column:transaction_id;not null"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ActiveSelection) TableName() string {
	return "active_selections"
}

type OwnedItem struct {
	UserID             string    `gorm:"column:user_id;primaryKey;type:varchar(64)"`
	Category           string    `gorm:"column:category;primaryKey;type:varchar(32)"`
	ItemID             string    `gorm:"column:item_id;primaryKey;type:varchar(64)"`
	FirstTransactionID int64     `gorm:"column:first_transaction_id;not null"`
	LastTransactionID  int64     `gorm:"column:last_transaction_id;not null"`
	PurchaseCount      int       `gorm:"column:purchase_count;not null;default:1"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (OwnedItem) TableName() string {
	return "owned_items"
}
