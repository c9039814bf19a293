package proofissuer

import "time"

type IssueResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Result  IssueResult `json:"result"`
}

type IssueResult struct {
	Reference string    `json:"reference"`
	URL       string    `json:"url"`
	IssuedAt  time.Time `json:"issued_at"`
}
