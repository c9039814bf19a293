package proofissuer

type IssueRequest struct {
	TransactionID     int64  `json:"transaction_id"`
	UserID            string `json:"user_id"`
	PartnerID         string `json:"partner_id"`
	OfferType         string `json:"offer_type"`
	JustificationType string `json:"justification_type"`
	PromoCode         string `json:"promo_code"`
}
