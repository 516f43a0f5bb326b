package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultValidates(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadFromYAMLKeepsDefaultsForOmittedFields(t *testing.T) {
	path := writeFile(t, "config.yaml", `
stream:
  url: wss://stream.example.com/ws
  max_reconnect_attempts: 9
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://stream.example.com/ws", cfg.Stream.URL)
	assert.Equal(t, 9, cfg.Stream.MaxReconnectAttempts)
	// Untouched sections keep their defaults.
	assert.Equal(t, 1000, cfg.Store.MaxCandles)
	assert.Equal(t, 50, cfg.OrderBook.MaxDepth)
}

func TestLoadFromJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"stream":{"url":"wss://j.example.com","timeframe":"5m"}}`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://j.example.com", cfg.Stream.URL)
	assert.Equal(t, "5m", cfg.Stream.Timeframe)
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	t.Setenv("STREAM_URL", "wss://env.example.com")
	t.Setenv("ORDER_BOOK_MAX_DEPTH", "25")
	t.Setenv("RISK_CRITICAL_LEVERAGE", "20")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "wss://env.example.com", cfg.Stream.URL)
	assert.Equal(t, 25, cfg.OrderBook.MaxDepth)
	assert.Equal(t, 20.0, cfg.Risk.CriticalLeverage)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing url", func(c *Config) { c.Stream.URL = "" }},
		{"zero base delay", func(c *Config) { c.Stream.ReconnectBaseDelayMs = 0 }},
		{"zero queue", func(c *Config) { c.Stream.MaxQueueLength = 0 }},
		{"inverted bands", func(c *Config) { c.OrderBook.FarBandPct = 0.1 }},
		{"journal without path", func(c *Config) { c.Journal.Enabled = true; c.Journal.DBPath = "" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
