package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/finstat/internal/lineitem"
	"github.com/cleared-dev/finstat/internal/logger"
)

// FileName is the default config file name in the working directory.
const FileName = "finstat.yaml"

// Config represents the top-level finstat.yaml configuration.
type Config struct {
	Periods    int                 `yaml:"periods"`
	Locale     string              `yaml:"locale"`
	Split      SplitConfig         `yaml:"split"`
	Keywords   map[string][]string `yaml:"keywords,omitempty"`
	Assistant  AssistantConfig     `yaml:"assistant"`
	Cache      CacheConfig         `yaml:"cache"`
	Log        LogConfig           `yaml:"log"`
	Transcript TranscriptConfig    `yaml:"transcript"`
}

// SplitConfig holds the keywords used to separate the two statements.
type SplitConfig struct {
	IncomeStatementKeyword string `yaml:"income_statement_keyword"`
	HeaderKeyword          string `yaml:"header_keyword"`
}

// AssistantConfig controls the LLM chat assistant.
type AssistantConfig struct {
	Model          string  `yaml:"model"`
	APIKeyEnv      string  `yaml:"api_key_env"`
	TimeoutSeconds int     `yaml:"timeout_seconds"`
	Temperature    float32 `yaml:"temperature"`
}

// CacheConfig controls the per-session analysis cache.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// TranscriptConfig controls where chat turns are recorded.
type TranscriptConfig struct {
	Path string `yaml:"path"`
}

// Timeout returns the assistant call timeout.
func (a AssistantConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// APIKey reads the assistant API key from the configured environment variable.
func (a AssistantConfig) APIKey() string {
	return os.Getenv(a.APIKeyEnv)
}

// TTL returns the cache expiry.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// Load reads a finstat.yaml file from disk, overlaying it on Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields Default.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for Vietnamese statements.
func Default() *Config {
	return &Config{
		Periods: 2,
		Locale:  "vi",
		Split: SplitConfig{
			IncomeStatementKeyword: "KẾT QUẢ HOẠT ĐỘNG KINH DOANH",
			HeaderKeyword:          "CHỈ TIÊU",
		},
		Assistant: AssistantConfig{
			Model:          "gemini-2.5-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			TimeoutSeconds: 60,
			Temperature:    0.2,
		},
		Cache:      CacheConfig{TTLMinutes: 15},
		Log:        LogConfig{Level: "info"},
		Transcript: TranscriptConfig{Path: "logs/chat-transcript.csv"},
	}
}

// Validate checks field values that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	if c.Periods < 2 || c.Periods > 4 {
		return fmt.Errorf("periods must be 2, 3 or 4, got %d", c.Periods)
	}
	if c.Locale != "vi" && c.Locale != "en" {
		return fmt.Errorf("locale must be vi or en, got %q", c.Locale)
	}
	if c.Split.IncomeStatementKeyword == "" {
		return fmt.Errorf("split.income_statement_keyword is required")
	}
	if c.Split.HeaderKeyword == "" {
		return fmt.Errorf("split.header_keyword is required")
	}
	for name := range c.Keywords {
		if !lineitem.Known(lineitem.Item(name)) {
			return fmt.Errorf("keywords: unknown line item %q (want one of %s)", name, strings.Join(lineitem.Names(), ", "))
		}
	}
	if c.Assistant.TimeoutSeconds <= 0 {
		return fmt.Errorf("assistant.timeout_seconds must be positive")
	}
	if c.Cache.TTLMinutes <= 0 {
		return fmt.Errorf("cache.ttl_minutes must be positive")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// Catalogue returns the default line-item catalogue extended with Keywords.
func (c *Config) Catalogue() (lineitem.Catalogue, error) {
	return lineitem.DefaultCatalogue().Merge(c.Keywords)
}
