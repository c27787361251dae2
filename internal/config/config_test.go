package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
log:
  level: debug
rawg:
  page_size: 12
  timeout: 3s
http:
  addr: ":9090"
redis:
  ttl: 1h
`)
	t.Setenv("RAWG_API_KEY", "from-env")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Rawg.APIKey)
	assert.Equal(t, 12, cfg.Rawg.PageSize)
	assert.Equal(t, 3*time.Second, cfg.Rawg.Timeout)
	assert.Equal(t, "https://api.rawg.io/api", cfg.Rawg.BaseURL)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.HTTP.Enabled)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoadRequiresAPIKey(t *testing.T) {
	dir := writeConfig(t, "rawg:\n  page_size: 20\n")
	t.Setenv("RAWG_API_KEY", "")

	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RAWG_API_KEY")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("RAWG_API_KEY", "k")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Rawg.PageSize)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestValidate(t *testing.T) {
	cfg := Config{
		Rawg:     RawgConfig{APIKey: "k", PageSize: 20},
		Telegram: TelegramConfig{Enabled: true},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_TOKEN")

	cfg.Telegram.Token = "t"
	assert.NoError(t, cfg.Validate())

	cfg.Telegram.Enabled = false
	assert.Contains(t, cfg.Validate().Error(), "enable at least one")
}

func TestSlogLevelFallback(t *testing.T) {
	cfg := Config{Log: LogConfig{Level: "loud"}}
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}
