package service_test

import (
	"testing"

	"github.com/Behyna/gem-services/internal/catalog"
	"github.com/Behyna/gem-services/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Catalog(t *testing.T) {
	cat, err := catalog.New(catalog.DefaultConfig())
	require.NoError(t, err)

	resp := service.NewCatalogService(cat).Catalog()

	assert.Len(t, resp.Items, len(cat.Items()))
	assert.Len(t, resp.Offers, len(cat.Offers()))

	var custom *service.ItemView
	for i := range resp.Items {
		if resp.Items[i].ItemID == catalog.CustomItemID {
			custom = &resp.Items[i]
		}
	}
	require.NotNil(t, custom)
	assert.True(t, custom.Custom)
	assert.Equal(t, "usernameColor", custom.Category)
	assert.Equal(t, int64(400), custom.Price)
	assert.Equal(t, "epic", custom.Rarity)

	for _, offer := range resp.Offers {
		if offer.OfferType == "free" {
			assert.Zero(t, offer.GemsCost, offer.PartnerID)
		}
	}
}
