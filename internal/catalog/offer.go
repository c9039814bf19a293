package catalog

type OfferType string

const (
	OfferTypeFree    OfferType = "free"
	OfferTypePremium OfferType = "premium"
)

func (o OfferType) Valid() bool {
	return o == OfferTypeFree || o == OfferTypePremium
}

type JustificationType string

const (
	JustificationImage JustificationType = "image"
	JustificationQR    JustificationType = "qr"
	JustificationPDF   JustificationType = "pdf"
)

func (j JustificationType) Valid() bool {
	switch j {
	case JustificationImage, JustificationQR, JustificationPDF:
		return true
	}
	return false
}

type Offer struct {
	PartnerID             string
	PartnerName           string
	Type                  OfferType
	Title                 string
	GemsCost              int64
	PromoCode             string
	JustificationRequired bool
	JustificationType     JustificationType
}

type OfferKey struct {
	PartnerID string
	Type      OfferType
}

func (o Offer) Key() OfferKey {
	return OfferKey{PartnerID: o.PartnerID, Type: o.Type}
}
