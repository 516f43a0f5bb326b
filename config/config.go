// Package config loads the runtime configuration from YAML or JSON
// files with environment variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/ahmadakra1997/tradecore/risk"
)

// Config is the complete runtime configuration.
type Config struct {
	Stream    StreamConfig    `json:"stream" yaml:"stream"`
	Store     StoreConfig     `json:"store" yaml:"store"`
	OrderBook OrderBookConfig `json:"order_book" yaml:"order_book"`
	Risk      risk.Thresholds `json:"risk" yaml:"risk"`
	History   HistoryConfig   `json:"history" yaml:"history"`
	Journal   JournalConfig   `json:"journal" yaml:"journal"`
	Server    ServerConfig    `json:"server" yaml:"server"`
	Log       LogConfig       `json:"log" yaml:"log"`
}

// StreamConfig tunes the websocket transport.
type StreamConfig struct {
	URL                  string   `json:"url" yaml:"url" env:"STREAM_URL"`
	Symbols              []string `json:"symbols" yaml:"symbols" env:"STREAM_SYMBOLS"`
	Timeframe            string   `json:"timeframe" yaml:"timeframe" env:"STREAM_TIMEFRAME"`
	MaxReconnectAttempts int      `json:"max_reconnect_attempts" yaml:"max_reconnect_attempts" env:"STREAM_MAX_RECONNECT_ATTEMPTS"`
	ReconnectBaseDelayMs int      `json:"reconnect_base_delay_ms" yaml:"reconnect_base_delay_ms" env:"STREAM_RECONNECT_BASE_DELAY_MS"`
	ReconnectJitterMaxMs int      `json:"reconnect_jitter_max_ms" yaml:"reconnect_jitter_max_ms" env:"STREAM_RECONNECT_JITTER_MAX_MS"`
	MaxQueueLength       int      `json:"max_queue_length" yaml:"max_queue_length" env:"STREAM_MAX_QUEUE_LENGTH"`
}

// BaseDelay converts the millisecond setting to a duration.
func (s StreamConfig) BaseDelay() time.Duration {
	return time.Duration(s.ReconnectBaseDelayMs) * time.Millisecond
}

// JitterMax converts the millisecond setting to a duration.
func (s StreamConfig) JitterMax() time.Duration {
	return time.Duration(s.ReconnectJitterMaxMs) * time.Millisecond
}

// StoreConfig bounds the rolling buffers.
type StoreConfig struct {
	MaxCandles int `json:"max_candles" yaml:"max_candles" env:"STORE_MAX_CANDLES"`
	MaxTrades  int `json:"max_trades" yaml:"max_trades" env:"STORE_MAX_TRADES"`
}

// OrderBookConfig tunes the depth analyzer.
type OrderBookConfig struct {
	MaxDepth    int     `json:"max_depth" yaml:"max_depth" env:"ORDER_BOOK_MAX_DEPTH"`
	WallRatio   float64 `json:"wall_ratio" yaml:"wall_ratio" env:"ORDER_BOOK_WALL_RATIO"`
	NearBandPct float64 `json:"near_band_pct" yaml:"near_band_pct" env:"ORDER_BOOK_NEAR_BAND_PCT"`
	FarBandPct  float64 `json:"far_band_pct" yaml:"far_band_pct" env:"ORDER_BOOK_FAR_BAND_PCT"`
}

// HistoryConfig points at the REST endpoint for candle backfills.
type HistoryConfig struct {
	BaseURL   string `json:"base_url" yaml:"base_url" env:"HISTORY_BASE_URL"`
	TimeoutMs int    `json:"timeout_ms" yaml:"timeout_ms" env:"HISTORY_TIMEOUT_MS"`
}

// Timeout converts the millisecond setting to a duration.
func (h HistoryConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutMs) * time.Millisecond
}

// JournalConfig controls the SQLite market data journal.
type JournalConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" env:"JOURNAL_ENABLED"`
	DBPath  string `json:"db_path" yaml:"db_path" env:"JOURNAL_DB_PATH"`
}

// ServerConfig controls the HTTP summary and metrics server.
type ServerConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled" env:"SERVER_ENABLED"`
	Addr    string `json:"addr" yaml:"addr" env:"SERVER_ADDR"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"LOG_LEVEL"`
	Format string `json:"format" yaml:"format" env:"LOG_FORMAT"`
}

// Default returns a configuration that works out of the box against a
// local stream endpoint.
func Default() *Config {
	return &Config{
		Stream: StreamConfig{
			URL:                  "wss://localhost:8443/stream",
			Symbols:              []string{"BTCUSDT"},
			Timeframe:            "1m",
			MaxReconnectAttempts: 5,
			ReconnectBaseDelayMs: 1000,
			ReconnectJitterMaxMs: 250,
			MaxQueueLength:       100,
		},
		Store:     StoreConfig{MaxCandles: 1000, MaxTrades: 500},
		OrderBook: OrderBookConfig{MaxDepth: 50, WallRatio: 2.0, NearBandPct: 0.2, FarBandPct: 1.0},
		Risk:      risk.DefaultThresholds(),
		History:   HistoryConfig{TimeoutMs: 5000},
		Journal:   JournalConfig{DBPath: "tradecore.db"},
		Server:    ServerConfig{Addr: ":8080"},
		Log:       LogConfig{Level: "info", Format: "json"},
	}
}

// Load builds the configuration: defaults, then the optional file,
// then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		loaded, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("apply env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile reads a YAML or JSON configuration file on top of the
// defaults, so partial files are fine.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}
	return cfg, nil
}

// SaveToFile writes the configuration to path, as YAML for .yaml/.yml
// extensions and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error
	if ext := filepath.Ext(path); ext == ".yaml" || ext == ".yml" {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration for impossible values.
func (c *Config) Validate() error {
	if c.Stream.URL == "" {
		return fmt.Errorf("stream.url is required")
	}
	if c.Stream.MaxReconnectAttempts < 0 {
		return fmt.Errorf("stream.max_reconnect_attempts must not be negative")
	}
	if c.Stream.ReconnectBaseDelayMs <= 0 {
		return fmt.Errorf("stream.reconnect_base_delay_ms must be positive")
	}
	if c.Stream.MaxQueueLength <= 0 {
		return fmt.Errorf("stream.max_queue_length must be positive")
	}
	if c.Store.MaxCandles <= 0 || c.Store.MaxTrades <= 0 {
		return fmt.Errorf("store buffer bounds must be positive")
	}
	if c.OrderBook.MaxDepth <= 0 {
		return fmt.Errorf("order_book.max_depth must be positive")
	}
	if c.OrderBook.NearBandPct <= 0 || c.OrderBook.FarBandPct <= c.OrderBook.NearBandPct {
		return fmt.Errorf("order_book bands must satisfy 0 < near < far")
	}
	if c.Journal.Enabled && c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required when the journal is enabled")
	}
	if c.Server.Enabled && c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required when the server is enabled")
	}
	switch c.Log.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text")
	}
	return nil
}
