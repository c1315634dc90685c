package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "request-tracker", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, "rt_session", cfg.Auth.CookieName)
	assert.Equal(t, 12*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, 5, cfg.Upload.MaxFiles)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxFileSizeBytes)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_SESSION_TTL_MINUTES", "30")
	t.Setenv("UPLOAD_ALLOWED_MIME_TYPES", "image/png, application/pdf")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, 30*time.Minute, cfg.Auth.SessionTTL())
	assert.Equal(t, []string{"image/png", "application/pdf"}, cfg.Upload.AllowedMimeTypes)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestAllowsMimeType(t *testing.T) {
	cfg := UploadConfig{AllowedMimeTypes: []string{"image/png", "application/pdf"}}

	assert.True(t, cfg.AllowsMimeType("image/png"))
	assert.True(t, cfg.AllowsMimeType("IMAGE/PNG"))
	assert.False(t, cfg.AllowsMimeType("image/svg+xml"))
	assert.False(t, cfg.AllowsMimeType(""))
}

func TestInvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
