package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("AUTO_APPROVE_HORIZON_MONTHS", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
	assert.Equal(t, 6, cfg.AutoApproveHorizonMonths)
	assert.Equal(t, "300-M", cfg.RateLimit)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "Memory")
	t.Setenv("AUTO_APPROVE_HORIZON_MONTHS", "3")
	t.Setenv("APPROVER_EMAILS", "a@example.com, ,b@example.com")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://register.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.StorageBackend)
	assert.Equal(t, 3, cfg.AutoApproveHorizonMonths)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.ApproverEmails)
	assert.Equal(t, []string{"https://register.example.com"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{}, splitList(""))
	assert.Equal(t, []string{"x", "y"}, splitList(" x ,y,"))
}
