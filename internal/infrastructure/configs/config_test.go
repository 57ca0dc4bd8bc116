package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, uint16(8080), cfg.HTTP.Port)
	assert.Equal(t, "zap", cfg.Logger.Logger)
	assert.Equal(t, 64, cfg.Chat.SessionBuffer)
	assert.Equal(t, 50, cfg.Chat.HistoryLimit)
	assert.Equal(t, "community_chat", cfg.Mongo.Database)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yaml := `
http:
  port: 9090
logger:
  logger: zerolog
  level: debug
chat:
  session_buffer: 128
rate_limiter:
  requests_per_time_frame: 10
  time_frame: 1s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint16(9090), cfg.HTTP.Port)
	assert.Equal(t, "zerolog", cfg.Logger.Logger)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 128, cfg.Chat.SessionBuffer)
	assert.Equal(t, 10, cfg.RateLimiter.RequestsPerTimeFrame)
	assert.Equal(t, time.Second, cfg.RateLimiter.TimeFrame)

	// Untouched keys keep their defaults.
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}
