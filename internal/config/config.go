package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/matheuskafuri/pulse/internal/health"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Exporter points at the read-only health metrics exporter.
type Exporter struct {
	URL     string `yaml:"url"`
	Token   string `yaml:"token,omitempty"`
	Timeout string `yaml:"timeout,omitempty"`
}

type AIConfig struct {
	Provider string `yaml:"provider"` // "claude" or "openai"
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type Config struct {
	Span               string    `yaml:"span,omitempty"`
	Retention          string    `yaml:"retention,omitempty"`
	Exporter           Exporter  `yaml:"exporter"`
	DisabledCategories []string  `yaml:"disabled_categories,omitempty"`
	AI                 *AIConfig `yaml:"ai,omitempty"`
}

// AIEnabled returns true if AI is configured with a valid API key.
func (c *Config) AIEnabled() bool {
	if c.AI == nil {
		return false
	}
	key := c.AI.APIKey
	if key == "" {
		key = os.Getenv("PULSE_AI_KEY")
	}
	return key != ""
}

// AIKey returns the resolved API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI != nil && c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv("PULSE_AI_KEY")
}

// DefaultSpan returns the configured briefing window, defaulting to daily.
func (c *Config) DefaultSpan() health.TimeSpan {
	span, err := health.ParseTimeSpan(c.Span)
	if err != nil {
		return health.Daily
	}
	return span
}

func (c *Config) RetentionDuration() time.Duration {
	if c.Retention == "" {
		return 90 * 24 * time.Hour
	}
	// Support "Nd" day syntax
	if len(c.Retention) > 1 && c.Retention[len(c.Retention)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(c.Retention, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour
		}
	}
	d, err := time.ParseDuration(c.Retention)
	if err != nil {
		return 90 * 24 * time.Hour
	}
	return d
}

// ExporterTimeout returns the per-request exporter timeout.
func (c *Config) ExporterTimeout() time.Duration {
	d, err := time.ParseDuration(c.Exporter.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// Disabled reports whether the user forced a category off in config.
func (c *Config) Disabled(cat health.Category) bool {
	for _, name := range c.DisabledCategories {
		if parsed, err := health.ParseCategory(name); err == nil && parsed == cat {
			return true
		}
	}
	return false
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "pulse", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "pulse", "pulse.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.Exporter.URL == "" {
		return fmt.Errorf("exporter: url is required")
	}
	u, err := url.Parse(cfg.Exporter.URL)
	if err != nil {
		return fmt.Errorf("exporter: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("exporter: url scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.Span != "" {
		if _, err := health.ParseTimeSpan(cfg.Span); err != nil {
			return err
		}
	}
	for _, name := range cfg.DisabledCategories {
		if _, err := health.ParseCategory(name); err != nil {
			return fmt.Errorf("disabled_categories: %w", err)
		}
	}
	if cfg.AI != nil && cfg.AI.Provider != "claude" && cfg.AI.Provider != "openai" {
		return fmt.Errorf("ai: unknown provider %q (valid: claude, openai)", cfg.AI.Provider)
	}
	return nil
}
