package pointsledger

import "time"

type BalanceResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message,omitempty"`
	Result  BalanceResult `json:"result"`
}

type BalanceResult struct {
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
}

type MoveResponse struct {
	Code    string     `json:"code"`
	Message string     `json:"message,omitempty"`
	TrackID string     `json:"x_track_id,omitempty"`
	Result  MoveResult `json:"result"`
}

type MoveResult struct {
	TransactionID   int64     `json:"transaction_id"`
	Points          int64     `json:"points"`
	TransactionTime time.Time `json:"transaction_time"`
}
