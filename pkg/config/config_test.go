package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("PORT", "9090")
	t.Setenv("SUBMIT_DELAY", "")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example ")

	cfg := Load()

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, time.Duration(0), cfg.Booking.SubmitDelay)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestValidate_ProdRequiresSecret(t *testing.T) {
	cfg := Config{AppEnv: "prod", Session: SessionConfig{Secret: defaultSessionSecret, TTL: time.Hour}}
	require.Error(t, cfg.Validate())

	cfg.Session.Secret = "rotated"
	require.NoError(t, cfg.Validate())
}

func TestUsePostgres(t *testing.T) {
	assert.False(t, Config{}.UsePostgres())
	assert.True(t, Config{DatabaseURL: "postgres://x"}.UsePostgres())
	assert.False(t, Config{Storage: "memory", DatabaseURL: "postgres://x"}.UsePostgres())
	assert.True(t, Config{Storage: "postgres"}.UsePostgres())
}
