package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend.local/api")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Inventory.RefreshInterval)
	assert.Equal(t, 3*time.Second, cfg.Inventory.RefreshJitter)
	assert.True(t, cfg.Terminal.TaxRate.IsZero())
	assert.Equal(t, "Cash", cfg.Terminal.DefaultPaymentMethod)
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend.local/api")
	t.Setenv("STOCK_REFRESH_INTERVAL", "45s")
	t.Setenv("TAX_RATE", "7.5")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 45*time.Second, cfg.Inventory.RefreshInterval)
	assert.Equal(t, "7.5", cfg.Terminal.TaxRate.String())
}

func TestLoadRequiresBackendBaseURL(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BACKEND_BASE_URL")
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "http://backend.local/api")
	t.Setenv("STOCK_REFRESH_INTERVAL", "soon")

	_, err := Load("")
	require.Error(t, err)
}
