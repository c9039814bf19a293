package service

import (
	"context"

	"github.com/Behyna/gem-services/internal/model"
)

// ApplyDeltaCommand describes one balance change. Within, when set, runs in
// the same database transaction after the balance moved and before the
// transaction completes; an error from it rolls the whole change back.
type ApplyDeltaCommand struct {
	UserID         string
	Delta          int64
	Type           model.TxType
	Description    string
	Metadata       any
	PartnerID      string
	OfferType      string
	IdempotencyKey string
	Within         func(ctx context.Context, tx model.Transaction) error
}

type HistoryQuery struct {
	UserID string
	Limit  int
	Cursor int64
}

type ConvertCommand struct {
	UserID         string
	Points         int64
	IdempotencyKey string
}

type MovePointsCommand struct {
	UserID         string
	Points         int64
	IdempotencyKey string
	Reason         string
}

type PurchaseCommand struct {
	UserID         string
	Category       string
	ItemID         string
	CustomValue    string
	IdempotencyKey string
}

type ActivateOfferCommand struct {
	UserID    string
	PartnerID string
	OfferType string
}

type RegenerateJustificationCommand struct {
	UserID    string
	PartnerID string
	OfferType string
}

type IssueJustificationCommand struct {
	TransactionID int64  `json:"transaction_id"`
	UserID        string `json:"user_id"`
	PartnerID     string `json:"partner_id"`
	OfferType     string `json:"offer_type"`
	Attempts      int    `json:"attempts"`
}

type AdjustBalanceCommand struct {
	UserID  string
	Amount  int64
	Type    model.TxType
	Reason  string
	ActorID string
}
