package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type TxType string

const (
	TxTypeConversion   TxType = "conversion"
	TxTypePurchase     TxType = "purchase"
	TxTypeRefund       TxType = "refund"
	TxTypeBonus        TxType = "bonus"
	TxTypePartnerOffer TxType = "partner_offer"
	TxTypeReward       TxType = "reward"
	TxTypeAdminGrant   TxType = "admin_grant"
	TxTypeAdminDeduct  TxType = "admin_deduct"
)

type TxStatus string

const (
	TxStatusPending   TxStatus = "pending"
	TxStatusCompleted TxStatus = "completed"
	TxStatusFailed    TxStatus = "failed"
	TxStatusCancelled TxStatus = "cancelled"
)

func (s TxStatus) Terminal() bool {
	return s == TxStatusCompleted || s == TxStatusFailed || s == TxStatusCancelled
}

// CanTransition reports whether a transaction may move from one status to
// another. Only pending transactions move, and only to a terminal status.
func CanTransition(from, to TxStatus) bool {
	return from == TxStatusPending && to.Terminal()
}

type Transaction struct {
	ID             int64          `gorm:"column:id;primaryKey;autoIncrement:false"`
	UserID         string         `gorm:"column:user_id;type:varchar(64);not null;index:idx_gem_tx_offer,priority:1;index:idx_gem_tx_user"`
	Type           TxType         `gorm:"column:type;type:varchar(20);not null;index:idx_gem_tx_offer,priority:2"`
	GemsDelta      int64          `gorm:"column:gems_delta;not null"`
	Status         TxStatus       `gorm:"column:status;type:varchar(20);not null"`
	Description    string         `gorm:"column:description;type:varchar(255)"`
	Metadata       datatypes.JSON `gorm:"column:metadata"`
	PartnerID      string         `gorm:"column:partner_id;type:varchar(64);not null;default:'';index:idx_gem_tx_offer,priority:3"`
	OfferType      string         `gorm:"column:offer_type;type:varchar(20);not null;default:'';index:idx_gem_tx_offer,priority:4"`
	IdempotencyKey *string        `gorm:"column:idempotency_key;type:varchar(191);uniqueIndex"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (Transaction) TableName() string {
	return "gem_transactions"
}

func (t *Transaction) SetMetadata(v any) error {
	if v == nil {
		t.Metadata = nil
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}

	t.Metadata = datatypes.JSON(raw)
	return nil
}

func (t Transaction) DecodeMetadata(v any) error {
	if len(t.Metadata) == 0 {
		return nil
	}
	return json.Unmarshal(t.Metadata, v)
}

type ConversionMetadata struct {
	PointsRequested int64  `json:"pointsRequested"`
	PointsDebited   int64  `json:"pointsDebited"`
	PointsRemainder int64  `json:"pointsRemainder"`
	PointsTxID      int64  `json:"pointsTransactionId,omitempty"`
	IdempotencyKey  string `json:"idempotencyKey,omitempty"`
}

type PurchaseMetadata struct {
	Category    string `json:"category"`
	ItemID      string `json:"itemId"`
	CustomValue string `json:"customValue,omitempty"`
	Price       int64  `json:"price"`
}

type PartnerOfferMetadata struct {
	PartnerID         string `json:"partnerId"`
	OfferType         string `json:"offerType"`
	PromoCode         string `json:"promoCode"`
	JustificationType string `json:"justificationType,omitempty"`
}

type AdjustmentMetadata struct {
	ActorID string `json:"actorId"`
	Reason  string `json:"reason"`
}
