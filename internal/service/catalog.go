package service

import (
	"github.com/Behyna/gem-services/internal/catalog"
)

// CatalogService exposes the read-only catalog. Promo codes never leave it.
type CatalogService interface {
	Catalog() CatalogResponse
}

type catalogView struct {
	catalog *catalog.Catalog
}

func NewCatalogService(c *catalog.Catalog) CatalogService {
	return &catalogView{catalog: c}
}

func (c *catalogView) Catalog() CatalogResponse {
	items := c.catalog.Items()
	offers := c.catalog.Offers()

	response := CatalogResponse{
		Items:  make([]ItemView, 0, len(items)),
		Offers: make([]OfferView, 0, len(offers)),
	}

	for _, item := range items {
		response.Items = append(response.Items, newItemView(item))
	}

	for _, offer := range offers {
		response.Offers = append(response.Offers, OfferView{
			PartnerID:             offer.PartnerID,
			PartnerName:           offer.PartnerName,
			OfferType:             string(offer.Type),
			Title:                 offer.Title,
			GemsCost:              offer.GemsCost,
			JustificationRequired: offer.JustificationRequired,
			JustificationType:     string(offer.JustificationType),
		})
	}

	return response
}

func newItemView(item catalog.Item) ItemView {
	view := ItemView{
		Category: string(item.ItemCategory()),
		ItemID:   item.ItemID(),
		Price:    item.Price(),
		Rarity:   item.ItemRarity().String(),
	}

	switch it := item.(type) {
	case catalog.FixedItem:
		view.Name = it.Name
	case catalog.CustomColor:
		view.Name = it.Name
		view.Custom = true
	}

	return view
}
