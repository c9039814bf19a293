package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Behyna/gem-services/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(content), 0o600))
	return dir
}

func TestLoadFrom(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadFrom(t.TempDir())

		assert.Error(t, err)
	})

	t.Run("defaults fill omitted keys", func(t *testing.T) {
		dir := writeConfig(t, "api:\n  port: \":9090\"\n")

		cfg, err := config.LoadFrom(dir)

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.API.Port)
		assert.Equal(t, int64(100), cfg.Conversion.PointsPerGem)
		assert.Equal(t, int64(100), cfg.Conversion.MinimumPoints)
		assert.Equal(t, 20, cfg.Ledger.HistoryDefaultLimit)
		assert.Equal(t, 100, cfg.Ledger.HistoryMaxLimit)
		assert.Equal(t, 30*time.Second, cfg.Justification.PublishInterval)
		assert.Equal(t, "gems.justification", cfg.Justification.Queue)
		assert.Equal(t, "admin", cfg.Auth.AdminRole)
		assert.Equal(t, ":9091", cfg.Metrics.Port)
		assert.Empty(t, cfg.Catalog.Items)
	})

	t.Run("file values and catalog", func(t *testing.T) {
		dir := writeConfig(t, `
points_ledger:
  base_url: "http://points:8080"
  timeout: 2s
  max_retries: 5
catalog:
  items:
    - category: usernameColor
      id: teal
      price: 70
      rarity: rare
  offers:
    - partner_id: cafe
      type: free
      promo_code: CAFE1
`)

		cfg, err := config.LoadFrom(dir)

		require.NoError(t, err)
		assert.Equal(t, "http://points:8080", cfg.PointsLedger.BaseURL)
		assert.Equal(t, 2*time.Second, cfg.PointsLedger.Timeout)
		assert.Equal(t, 5, cfg.PointsLedger.MaxRetries)
		require.Len(t, cfg.Catalog.Items, 1)
		assert.Equal(t, "teal", cfg.Catalog.Items[0].ID)
		assert.Equal(t, int64(70), cfg.Catalog.Items[0].Price)
		require.Len(t, cfg.Catalog.Offers, 1)
		assert.Equal(t, "CAFE1", cfg.Catalog.Offers[0].PromoCode)
	})

	t.Run("environment overrides", func(t *testing.T) {
		dir := writeConfig(t, "auth:\n  jwt_secret: from-file\n")
		t.Setenv("GEMS_AUTH_JWT_SECRET", "from-env")
		t.Setenv("GEMS_LEDGER_NODE_ID", "7")

		cfg, err := config.LoadFrom(dir)

		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
		assert.Equal(t, int64(7), cfg.Ledger.NodeID)
	})
}
