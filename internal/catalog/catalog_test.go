package catalog_test

import (
	"testing"

	"github.com/Behyna/gem-services/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("empty config falls back to defaults", func(t *testing.T) {
		c, err := catalog.New(catalog.Config{})

		require.NoError(t, err)
		assert.Len(t, c.Items(), len(catalog.DefaultConfig().Items))
		assert.Len(t, c.Offers(), len(catalog.DefaultConfig().Offers))
	})

	t.Run("custom username colour becomes a tagged variant", func(t *testing.T) {
		c, err := catalog.New(catalog.DefaultConfig())
		require.NoError(t, err)

		item, ok := c.Item(catalog.CategoryUsernameColor, catalog.CustomItemID)

		require.True(t, ok)
		custom, isCustom := item.(catalog.CustomColor)
		assert.True(t, isCustom)
		assert.Equal(t, int64(400), custom.Price())
		assert.Equal(t, catalog.CategoryUsernameColor, custom.ItemCategory())
	})

	t.Run("fixed item lookup", func(t *testing.T) {
		c, err := catalog.New(catalog.DefaultConfig())
		require.NoError(t, err)

		item, ok := c.Item(catalog.CategoryUsernameColor, "rainbow")

		require.True(t, ok)
		assert.IsType(t, catalog.FixedItem{}, item)
		assert.Equal(t, int64(300), item.Price())
		assert.Equal(t, catalog.RarityEpic, item.ItemRarity())
	})

	t.Run("unknown item", func(t *testing.T) {
		c, err := catalog.New(catalog.DefaultConfig())
		require.NoError(t, err)

		_, ok := c.Item(catalog.CategoryProfileBorder, "rainbow")

		assert.False(t, ok)
	})

	t.Run("rejects invalid configurations", func(t *testing.T) {
		testCases := []struct {
			name string
			cfg  catalog.Config
		}{
			{name: "unknown category", cfg: catalog.Config{Items: []catalog.ItemConfig{
				{Category: "hat", ID: "top", Price: 1}}}},
			{name: "negative price", cfg: catalog.Config{Items: []catalog.ItemConfig{
				{Category: "profileImage", ID: "x", Price: -1}}}},
			{name: "duplicate item", cfg: catalog.Config{Items: []catalog.ItemConfig{
				{Category: "profileImage", ID: "x", Price: 1},
				{Category: "profileImage", ID: "x", Price: 2}}}},
			{name: "custom outside username colour", cfg: catalog.Config{Items: []catalog.ItemConfig{
				{Category: "profileBorder", ID: "custom", Price: 1}}}},
			{name: "unknown rarity", cfg: catalog.Config{Items: []catalog.ItemConfig{
				{Category: "profileImage", ID: "x", Price: 1, Rarity: "mythic"}}}},
			{name: "free offer with cost", cfg: catalog.Config{Offers: []catalog.OfferConfig{
				{PartnerID: "p", Type: "free", GemsCost: 5}}}},
			{name: "unknown offer type", cfg: catalog.Config{Offers: []catalog.OfferConfig{
				{PartnerID: "p", Type: "gold"}}}},
			{name: "justification without type", cfg: catalog.Config{Offers: []catalog.OfferConfig{
				{PartnerID: "p", Type: "premium", GemsCost: 5, JustificationRequired: true}}}},
			{name: "duplicate offer", cfg: catalog.Config{Offers: []catalog.OfferConfig{
				{PartnerID: "p", Type: "free"}, {PartnerID: "p", Type: "free"}}}},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := catalog.New(tc.cfg)

				assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
			})
		}
	})
}

func TestCatalog_Offer(t *testing.T) {
	c, err := catalog.New(catalog.DefaultConfig())
	require.NoError(t, err)

	free, ok := c.Offer("cinema", catalog.OfferTypeFree)
	require.True(t, ok)
	assert.Equal(t, int64(0), free.GemsCost)
	assert.False(t, free.JustificationRequired)

	premium, ok := c.Offer("cinema", catalog.OfferTypePremium)
	require.True(t, ok)
	assert.Equal(t, int64(50), premium.GemsCost)
	assert.Equal(t, catalog.JustificationQR, premium.JustificationType)

	_, ok = c.Offer("unknown", catalog.OfferTypeFree)
	assert.False(t, ok)
}

func TestCatalog_ItemsAreGroupedByCategory(t *testing.T) {
	c, err := catalog.New(catalog.DefaultConfig())
	require.NoError(t, err)

	items := c.Items()
	for i := 1; i < len(items); i++ {
		assert.LessOrEqual(t, items[i-1].ItemCategory(), items[i].ItemCategory())
	}
}
