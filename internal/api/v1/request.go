package v1

type HistoryRequest struct {
	Limit  int   `query:"limit" validate:"omitempty,min=1"`
	Cursor int64 `query:"cursor" validate:"omitempty,min=1"`
}

// ConvertRequest leaves range checks on points to the conversion service so
// that small amounts report INVALID_AMOUNT rather than a validation failure.
type ConvertRequest struct {
	Points         int64  `json:"points"`
	IdempotencyKey string `json:"idempotency_key" validate:"idempotencykey"`
}

type PurchaseRequest struct {
	Category       string `json:"category" validate:"required"`
	ItemID         string `json:"item_id" validate:"required"`
	CustomValue    string `json:"custom_value"`
	IdempotencyKey string `json:"idempotency_key" validate:"idempotencykey"`
}

type OfferRequest struct {
	PartnerID string `json:"partner_id" validate:"required"`
	OfferType string `json:"offer_type" validate:"required"`
}

type OfferKeyRequest struct {
	PartnerID string `json:"partner_id"`
	OfferType string `json:"offer_type"`
}

type ReconcileRequest struct {
	Local []OfferKeyRequest `json:"local" validate:"max=500"`
}

type AdjustBalanceRequest struct {
	UserID string `json:"user_id" validate:"required,userid"`
	Amount int64  `json:"amount" validate:"required,min=1"`
	Type   string `json:"type" validate:"required,oneof=admin_grant admin_deduct bonus reward refund"`
	Reason string `json:"reason" validate:"required,max=255"`
}

type AuditRequest struct {
	UserID string `params:"userID" validate:"required,userid"`
}
