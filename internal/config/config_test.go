package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 120*time.Second, cfg.Paginator.IdleTimeout)
	assert.Equal(t, 250, cfg.YouTube.MaxResults)
	assert.Equal(t, "https://www.googleapis.com/youtube/v3/", cfg.YouTube.BaseURL)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("YTBOT_TELEGRAM_TOKEN", "  tok  ")
	t.Setenv("YTBOT_YOUTUBE_MAX_RESULTS", "40")
	t.Setenv("YTBOT_PAGINATOR_IDLE_TIMEOUT", "30s")

	v, err := New("")
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.Telegram.Token)
	assert.Equal(t, 40, cfg.YouTube.MaxResults)
	assert.Equal(t, 30*time.Second, cfg.Paginator.IdleTimeout)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ytbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
youtube:
  api_key: abc
  max_results: 10
history:
  path: ""
logging:
  level: debug
  format: json
`), 0644))

	v, err := New(path)
	require.NoError(t, err)
	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "abc", cfg.YouTube.APIKey)
	assert.Equal(t, 10, cfg.YouTube.MaxResults)
	assert.Empty(t, cfg.History.Path)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	v, err := New("")
	require.NoError(t, err)
	v.Set("youtube.max_results", 0)
	v.Set("paginator.idle_timeout", "0s")

	_, err = Load(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "youtube.max_results")
	assert.Contains(t, err.Error(), "paginator.idle_timeout")
}
