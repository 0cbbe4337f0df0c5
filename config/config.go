package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/tradejournal/analytics"
	"github.com/rustyeddy/tradejournal/journal"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file values.
const (
	EnvDBPath   = "TRADEJOURNAL_DB"
	EnvDriver   = "TRADEJOURNAL_DRIVER"
	EnvLogLevel = "TRADEJOURNAL_LOG_LEVEL"
	EnvTimezone = "TRADEJOURNAL_TIMEZONE"
)

// Config is the complete journal and analytics configuration.
type Config struct {
	Journal   JournalConfig        `json:"journal" yaml:"journal" toml:"journal"`
	Analytics AnalyticsConfig      `json:"analytics" yaml:"analytics" toml:"analytics"`
	Emotions  []journal.EmotionTag `json:"emotions,omitempty" yaml:"emotions,omitempty" toml:"emotions,omitempty"`
	Log       LogConfig            `json:"log" yaml:"log" toml:"log"`
}

// JournalConfig selects the trade store.
type JournalConfig struct {
	Driver string `json:"driver" yaml:"driver" toml:"driver"` // "sqlite3" or "sqlite"
	DBPath string `json:"db_path" yaml:"db_path" toml:"db_path"`
}

// AnalyticsConfig holds the defaults for the analytics views.
type AnalyticsConfig struct {
	Timeframe  string `json:"timeframe" yaml:"timeframe" toml:"timeframe"`       // e.g. "7d", "30d", "90d", "1y"
	TopSymbols int    `json:"top_symbols" yaml:"top_symbols" toml:"top_symbols"` // ranking size; 0 is the default, -1 keeps all
	Timezone   string `json:"timezone,omitempty" yaml:"timezone,omitempty" toml:"timezone,omitempty"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level" toml:"level"`
}

// LoadFromFile loads configuration from a file. .toml and .json are decoded
// by extension; anything else is tried as YAML, then JSON.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse toml config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse json config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			if jerr := json.Unmarshal(data, cfg); jerr != nil {
				return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration in the format implied by the extension.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	case ".toml":
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(c)
		data = []byte(b.String())
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides file values with any environment variables that are set.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Journal.DBPath = v
	}
	if v := os.Getenv(EnvDriver); v != "" {
		c.Journal.Driver = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvTimezone); v != "" {
		c.Analytics.Timezone = v
	}
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Journal.Driver == "" {
		c.Journal.Driver = d.Journal.Driver
	}
	if c.Analytics.Timeframe == "" {
		c.Analytics.Timeframe = d.Analytics.Timeframe
	}
	if c.Analytics.TopSymbols == 0 {
		c.Analytics.TopSymbols = d.Analytics.TopSymbols
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Journal.Driver != journal.DriverCGO && c.Journal.Driver != journal.DriverPure {
		return fmt.Errorf("journal.driver must be %q or %q", journal.DriverCGO, journal.DriverPure)
	}
	if c.Journal.DBPath == "" {
		return fmt.Errorf("journal.db_path is required")
	}
	if _, err := analytics.ParseTimeframe(c.Analytics.Timeframe); err != nil {
		return fmt.Errorf("analytics.timeframe: %w", err)
	}
	if c.Analytics.TopSymbols < -1 {
		return fmt.Errorf("analytics.top_symbols must be -1 (all) or a positive count")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("analytics.timezone: %w", err)
	}
	if err := journal.ValidateCatalog(c.Emotions); err != nil {
		return fmt.Errorf("emotions: %w", err)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Catalog returns the configured emotion catalog, or the default one.
func (c *Config) Catalog() []journal.EmotionTag {
	if len(c.Emotions) == 0 {
		return journal.DefaultEmotionTags
	}
	return c.Emotions
}

// Location resolves the timezone used for calendar days. Empty means the
// local zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Analytics.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Analytics.Timezone)
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			Driver: journal.DefaultDriver,
			DBPath: "./tradejournal.sqlite",
		},
		Analytics: AnalyticsConfig{
			Timeframe:  "30d",
			TopSymbols: 5,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
