package service

import (
	"encoding/json"
	"time"

	"github.com/Behyna/gem-services/internal/model"
)

type ApplyResult struct {
	Transaction model.Transaction
	Replayed    bool
}

type AccountResponse struct {
	UserID           string                   `json:"user_id"`
	Balance          int64                    `json:"balance"`
	TotalEarned      int64                    `json:"total_earned"`
	TotalSpent       int64                    `json:"total_spent"`
	ActiveSelections map[string]SelectionView `json:"active_selections"`
}

type SelectionView struct {
	ItemID      string `json:"item_id"`
	CustomValue string `json:"custom_value,omitempty"`
}

type TransactionView struct {
	ID            int64              `json:"id,string"`
	Type          string             `json:"type"`
	GemsDelta     int64              `json:"gems_delta"`
	Status        string             `json:"status"`
	Description   string             `json:"description"`
	Metadata      json.RawMessage    `json:"metadata,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	Justification *JustificationView `json:"justification,omitempty"`
}

type JustificationView struct {
	Status    string `json:"status"`
	Type      string `json:"type"`
	Reference string `json:"reference,omitempty"`
	URL       string `json:"url,omitempty"`
}

type HistoryResponse struct {
	Transactions []TransactionView `json:"transactions"`
	NextCursor   int64             `json:"next_cursor,string,omitempty"`
}

type AuditReport struct {
	UserID          string           `json:"user_id"`
	Balance         int64            `json:"balance"`
	TotalEarned     int64            `json:"total_earned"`
	TotalSpent      int64            `json:"total_spent"`
	CompletedEarned int64            `json:"completed_earned"`
	CompletedSpent  int64            `json:"completed_spent"`
	StatusCounts    map[string]int64 `json:"status_counts"`
	Consistent      bool             `json:"consistent"`
}

type ConvertResponse struct {
	GemsEarned      int64           `json:"gems_earned"`
	PointsDebited   int64           `json:"points_debited"`
	PointsRemainder int64           `json:"points_remainder"`
	Transaction     TransactionView `json:"transaction"`
	Replayed        bool            `json:"replayed"`
}

type PurchaseResponse struct {
	Transaction      TransactionView          `json:"transaction"`
	ActiveSelections map[string]SelectionView `json:"active_selections"`
	Replayed         bool                     `json:"replayed"`
}

type OwnedItemView struct {
	Category      string    `json:"category"`
	ItemID        string    `json:"item_id"`
	PurchaseCount int       `json:"purchase_count"`
	Active        bool      `json:"active"`
	AcquiredAt    time.Time `json:"acquired_at"`
}

type ActivateOfferResponse struct {
	Transaction      TransactionView    `json:"transaction"`
	PromoCode        string             `json:"promo_code"`
	Justification    *JustificationView `json:"justification,omitempty"`
	AlreadyActivated bool               `json:"already_activated"`
}

type OfferKey struct {
	PartnerID string `json:"partner_id"`
	OfferType string `json:"offer_type"`
}

type ReconcileResponse struct {
	Activated       []OfferKey `json:"activated"`
	ServerConfirmed []OfferKey `json:"server_confirmed"`
	Unconfirmed     []OfferKey `json:"unconfirmed"`
}

type ItemView struct {
	Category string `json:"category"`
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Rarity   string `json:"rarity"`
	Custom   bool   `json:"custom"`
}

type OfferView struct {
	PartnerID             string `json:"partner_id"`
	PartnerName           string `json:"partner_name"`
	OfferType             string `json:"offer_type"`
	Title                 string `json:"title"`
	GemsCost              int64  `json:"gems_cost"`
	JustificationRequired bool   `json:"justification_required"`
	JustificationType     string `json:"justification_type,omitempty"`
}

type CatalogResponse struct {
	Items  []ItemView  `json:"items"`
	Offers []OfferView `json:"offers"`
}

func newTransactionView(tx model.Transaction) TransactionView {
	view := TransactionView{
		ID:          tx.ID,
		Type:        string(tx.Type),
		GemsDelta:   tx.GemsDelta,
		Status:      string(tx.Status),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt,
	}

	if len(tx.Metadata) > 0 {
		view.Metadata = json.RawMessage(tx.Metadata)
	}

	return view
}

func newJustificationView(j model.Justification) *JustificationView {
	view := &JustificationView{Status: string(j.Status), Type: j.Type}
	if j.Reference != nil {
		view.Reference = *j.Reference
	}
	if j.URL != nil {
		view.URL = *j.URL
	}
	return view
}

func newSelectionViews(selections []model.ActiveSelection) map[string]SelectionView {
	views := make(map[string]SelectionView, len(selections))
	for _, s := range selections {
		views[s.Category] = SelectionView{ItemID: s.ItemID, CustomValue: s.CustomValue}
	}
	return views
}
