package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, "https://advert-api.wildberries.ru", cfg.AdvertURL)
	assert.Equal(t, "https://analytics-api.wildberries.ru", cfg.AnalyticsURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 4, cfg.ChunkConcurrency)
	assert.False(t, cfg.TracingEnabled)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("WB_API_BASE_URL", "http://127.0.0.1:9999/")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "5")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "1000")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "7")
	t.Setenv("CHUNK_CONCURRENCY", "0")
	t.Setenv("ENV", "Development")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "http://127.0.0.1:9999", cfg.AdvertURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 7, cfg.RateLimitMax)
	assert.Equal(t, 1, cfg.ChunkConcurrency)
	assert.Equal(t, "development", cfg.Env)
}

func TestFromEnvConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("FRONTEND_URL: https://dash.example.com\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "https://dash.example.com", cfg.FrontendURL)
}

func TestFromEnvMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := FromEnv()
	assert.Error(t, err)
}
