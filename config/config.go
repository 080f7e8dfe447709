// Package config loads and validates terminal configuration from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete terminal configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Market  MarketConfig  `json:"market" yaml:"market"`
	Monitor MonitorConfig `json:"monitor" yaml:"monitor"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Session SessionConfig `json:"session" yaml:"session"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID           string  `json:"id" yaml:"id"`
	StartingCash float64 `json:"starting_cash" yaml:"starting_cash"`
}

// MarketConfig contains data source and watchlist settings.
type MarketConfig struct {
	BaseURL   string   `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Symbol    string   `json:"symbol" yaml:"symbol"`
	Watchlist []string `json:"watchlist" yaml:"watchlist"`
}

// MonitorConfig contains order-monitor polling parameters.
type MonitorConfig struct {
	Interval string `json:"interval" yaml:"interval"` // e.g. "30s", "1m"
}

// ParseInterval converts the interval string to a time.Duration.
func (mc MonitorConfig) ParseInterval() (time.Duration, error) {
	if mc.Interval == "" {
		return 30 * time.Second, nil
	}
	return time.ParseDuration(mc.Interval)
}

// JournalConfig contains durable trade journaling parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv", or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
}

// SessionConfig contains session persistence parameters.
type SessionConfig struct {
	SnapshotFile string `json:"snapshot_file" yaml:"snapshot_file"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file, choosing the format by
// extension (.yaml/.yml writes YAML, anything else JSON).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
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

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.StartingCash <= 0 {
		return fmt.Errorf("account.starting_cash must be positive")
	}
	if c.Market.Symbol == "" {
		return fmt.Errorf("market.symbol is required")
	}
	if _, err := c.Monitor.ParseInterval(); err != nil {
		return fmt.Errorf("monitor.interval: %w", err)
	}
	switch c.Journal.Type {
	case "", "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite journal")
		}
	case "csv":
		if c.Journal.TradesFile == "" {
			return fmt.Errorf("journal.trades_file required for csv journal")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv', or 'none'")
	}
	if c.Session.SnapshotFile == "" {
		return fmt.Errorf("session.snapshot_file is required")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:           "PAPER-001",
			StartingCash: 100_000,
		},
		Market: MarketConfig{
			Symbol:    "NVDA",
			Watchlist: []string{"AAPL", "MSFT", "GOOGL", "TSLA"},
		},
		Monitor: MonitorConfig{
			Interval: "30s",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./odyssey.sqlite",
		},
		Session: SessionConfig{
			SnapshotFile: "./portfolio.json",
		},
	}
}
