package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, int64(1<<20), cfg.ReadLimit)
	assert.Equal(t, 25*time.Second, cfg.PingPeriod)
	assert.Equal(t, 60*time.Second, cfg.PongWait)
	assert.Equal(t, 500*time.Millisecond, cfg.Exec.MinDelay)
	assert.Equal(t, 5, cfg.Exec.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Exec.Timeout)
	assert.Equal(t, "judge0-ce.p.rapidapi.com", cfg.Exec.Host)
	assert.Equal(t, int64(1024), cfg.Chat.MaxTokens)
}

func TestLoadFileYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.test.yaml")
	yaml := `
mode: debug
port: 8080
rate:
  messages: 10
  interval: 2s
exec:
  min_delay: 250ms
chat:
  provider: anthropic
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("CODEROOM_PORT", "9090")
	t.Setenv("RAPID_API_KEY", "rk")
	t.Setenv("CODEROOM_CHAT_API_KEY", "ck")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Mode)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 10, cfg.Rate.Messages)
	assert.Equal(t, 2*time.Second, cfg.Rate.Interval)
	assert.Equal(t, 250*time.Millisecond, cfg.Exec.MinDelay)
	assert.Equal(t, "rk", cfg.Exec.APIKey)
	assert.Equal(t, "anthropic", cfg.Chat.Provider)
	assert.Equal(t, "ck", cfg.Chat.APIKey)
}

func TestLoadFileBoundsRetries(t *testing.T) {
	t.Setenv("CODEROOM_EXEC_MAX_RETRIES", "40")
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "exec.max_retries")

	t.Setenv("CODEROOM_EXEC_MAX_RETRIES", "10")
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, MaxExecRetries, cfg.Exec.MaxRetries)
	assert.Empty(t, cfg.Chat.SystemPrompt)
}

func TestLoadFileRejectsPingAfterPong(t *testing.T) {
	t.Setenv("CODEROOM_PING_PERIOD", "90s")
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
