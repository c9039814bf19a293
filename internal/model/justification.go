package model

import "time"

type JustificationStatus string

const (
	JustificationStatusPending JustificationStatus = "pending"
	JustificationStatusIssued  JustificationStatus = "issued"
)

// Justification tracks the proof artifact for a completed partner offer
// transaction. It lives beside the transaction so the transaction row stays
// immutable once completed.
type Justification struct {
	TransactionID int64               `gorm:"column:transaction_id;primaryKey;autoIncrement:false"`
	UserID        string              `gorm:"column:user_id;type:varchar(64);not null;index"`
	PartnerID     string              `gorm:"column:partner_id;type:varchar(64);not null"`
	OfferType     string              `gorm:"column:offer_type;type:varchar(20);not null"`
	Type          string              `gorm:"column:type;type:varchar(10);not null"`
	Status        JustificationStatus `gorm:"column:status;type:varchar(10);not null;index:idx_justification_outbox,priority:1"`
	Reference     *string             `gorm:"column:reference;type:varchar(255)"`
	URL           *string             `gorm:"column:url;type:varchar(512)"`
	Attempts      int                 `gorm:"column:attempts;not null;default:0"`
	LastError     *string             `gorm:"column:last_error;type:text"`
	Published     bool                `gorm:"column:published;not null;default:false;index:idx_justification_outbox,priority:2"`
	PublishedAt   *time.Time          `gorm:"column:published_at"`
	IssuedAt      *time.Time          `gorm:"column:issued_at"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Justification) TableName() string {
	return "justifications"
}

func (j Justification) Issued() bool {
	return j.Status == JustificationStatusIssued && j.Reference != nil
}
