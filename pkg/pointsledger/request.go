package pointsledger

type MovePointsRequest struct {
	UserID         string `json:"user_id"`
	Points         int64  `json:"points"`
	IdempotencyKey string `json:"idempotency_key"`
	Reason         string `json:"reason,omitempty"`
}
