package catalog

import (
	"errors"
	"fmt"
	"sort"
)

var ErrInvalidCatalog = errors.New("INVALID_CATALOG")

type itemKey struct {
	category Category
	id       string
}

// Catalog is immutable after New and safe for concurrent readers.
type Catalog struct {
	items      map[itemKey]Item
	itemOrder  []Item
	offers     map[OfferKey]Offer
	offerOrder []Offer
}

// New builds a catalog from configuration. An empty configuration yields the
// default catalog.
func New(cfg Config) (*Catalog, error) {
	if len(cfg.Items) == 0 && len(cfg.Offers) == 0 {
		cfg = DefaultConfig()
	}

	c := &Catalog{
		items:  make(map[itemKey]Item, len(cfg.Items)),
		offers: make(map[OfferKey]Offer, len(cfg.Offers)),
	}

	for _, ic := range cfg.Items {
		item, err := buildItem(ic)
		if err != nil {
			return nil, err
		}

		key := itemKey{category: item.ItemCategory(), id: item.ItemID()}
		if _, exists := c.items[key]; exists {
			return nil, fmt.Errorf("%w: duplicate item %s/%s", ErrInvalidCatalog, key.category, key.id)
		}

		c.items[key] = item
		c.itemOrder = append(c.itemOrder, item)
	}

	for _, oc := range cfg.Offers {
		offer, err := buildOffer(oc)
		if err != nil {
			return nil, err
		}

		if _, exists := c.offers[offer.Key()]; exists {
			return nil, fmt.Errorf("%w: duplicate offer %s/%s", ErrInvalidCatalog, offer.PartnerID, offer.Type)
		}

		c.offers[offer.Key()] = offer
		c.offerOrder = append(c.offerOrder, offer)
	}

	return c, nil
}

func buildItem(ic ItemConfig) (Item, error) {
	category := Category(ic.Category)
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidCatalog, ic.Category)
	}

	if ic.ID == "" {
		return nil, fmt.Errorf("%w: item without id in %s", ErrInvalidCatalog, category)
	}

	if ic.Price < 0 {
		return nil, fmt.Errorf("%w: negative price for %s/%s", ErrInvalidCatalog, category, ic.ID)
	}

	rarity, ok := ParseRarity(ic.Rarity)
	if !ok && ic.Rarity != "" {
		return nil, fmt.Errorf("%w: unknown rarity %q", ErrInvalidCatalog, ic.Rarity)
	}

	if ic.ID == CustomItemID {
		if category != CategoryUsernameColor {
			return nil, fmt.Errorf("%w: custom item only exists for %s", ErrInvalidCatalog, CategoryUsernameColor)
		}
		return CustomColor{Name: ic.Name, Cost: ic.Price, Rarity: rarity}, nil
	}

	return FixedItem{ID: ic.ID, Category: category, Name: ic.Name, Cost: ic.Price, Rarity: rarity}, nil
}

func buildOffer(oc OfferConfig) (Offer, error) {
	offerType := OfferType(oc.Type)
	if !offerType.Valid() {
		return Offer{}, fmt.Errorf("%w: unknown offer type %q", ErrInvalidCatalog, oc.Type)
	}

	if oc.PartnerID == "" {
		return Offer{}, fmt.Errorf("%w: offer without partner id", ErrInvalidCatalog)
	}

	if offerType == OfferTypeFree && oc.GemsCost != 0 {
		return Offer{}, fmt.Errorf("%w: free offer %s must cost 0 gems", ErrInvalidCatalog, oc.PartnerID)
	}

	if oc.GemsCost < 0 {
		return Offer{}, fmt.Errorf("%w: negative cost for offer %s", ErrInvalidCatalog, oc.PartnerID)
	}

	justificationType := JustificationType(oc.JustificationType)
	if oc.JustificationRequired && !justificationType.Valid() {
		return Offer{}, fmt.Errorf("%w: offer %s/%s needs a justification type", ErrInvalidCatalog,
			oc.PartnerID, oc.Type)
	}

	return Offer{
		PartnerID:             oc.PartnerID,
		PartnerName:           oc.PartnerName,
		Type:                  offerType,
		Title:                 oc.Title,
		GemsCost:              oc.GemsCost,
		PromoCode:             oc.PromoCode,
		JustificationRequired: oc.JustificationRequired,
		JustificationType:     justificationType,
	}, nil
}

func (c *Catalog) Item(category Category, itemID string) (Item, bool) {
	item, ok := c.items[itemKey{category: category, id: itemID}]
	return item, ok
}

// Items returns items grouped by category in configuration order.
func (c *Catalog) Items() []Item {
	items := make([]Item, len(c.itemOrder))
	copy(items, c.itemOrder)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ItemCategory() < items[j].ItemCategory()
	})
	return items
}

func (c *Catalog) Offer(partnerID string, offerType OfferType) (Offer, bool) {
	offer, ok := c.offers[OfferKey{PartnerID: partnerID, Type: offerType}]
	return offer, ok
}

func (c *Catalog) Offers() []Offer {
	offers := make([]Offer, len(c.offerOrder))
	copy(offers, c.offerOrder)
	return offers
}
