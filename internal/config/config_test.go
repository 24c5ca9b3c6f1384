package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "invoices", cfg.S3Bucket)
	assert.Equal(t, DeletePolicyCascade, cfg.InvoiceDeletePolicy)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("POSTGRES_DB_URL", "postgres://localhost:5432/invoices")
	t.Setenv("INVOICE_DELETE_POLICY", "RESTRICT")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/invoices", cfg.DatabaseURL)
	// Policy values are case-insensitive
	assert.Equal(t, DeletePolicyRestrict, cfg.InvoiceDeletePolicy)
}

func TestLoadConfigInvalidDeletePolicy(t *testing.T) {
	t.Setenv("INVOICE_DELETE_POLICY", "purge")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVOICE_DELETE_POLICY")
}

func TestLoadConfigInvalidIntFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}
