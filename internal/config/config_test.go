package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matheuskafuri/pulse/internal/health"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultSpan() != health.Daily {
		t.Errorf("default span = %v, want daily", cfg.DefaultSpan())
	}
	if cfg.RetentionDuration() != 90*24*time.Hour {
		t.Errorf("default retention = %v, want 90 days", cfg.RetentionDuration())
	}
	// First run writes the defaults out for the user to edit.
	if _, err := os.Stat(path); err != nil {
		t.Errorf("defaults not written to %s: %v", path, err)
	}
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
span: weekly
retention: 30d
exporter:
  url: https://metrics.home.lan:8443
  token: secret
  timeout: 5s
disabled_categories: [mind]
ai:
  provider: openai
  model: gpt-4o-mini
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultSpan() != health.Weekly {
		t.Errorf("span = %v, want weekly", cfg.DefaultSpan())
	}
	if cfg.Exporter.Token != "secret" {
		t.Errorf("token = %q", cfg.Exporter.Token)
	}
	if cfg.ExporterTimeout() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.ExporterTimeout())
	}
	if !cfg.Disabled(health.Mind) {
		t.Error("mind should be disabled")
	}
	if cfg.Disabled(health.Heart) {
		t.Error("heart should not be disabled")
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing exporter url",
			content: "exporter:\n  token: x\n",
			wantErr: "url is required",
		},
		{
			name:    "bad scheme",
			content: "exporter:\n  url: ftp://host\n",
			wantErr: "scheme",
		},
		{
			name:    "bad span",
			content: "span: hourly\nexporter:\n  url: http://host\n",
			wantErr: "timespan",
		},
		{
			name:    "unknown category",
			content: "disabled_categories: [mood]\nexporter:\n  url: http://host\n",
			wantErr: "disabled_categories",
		},
		{
			name:    "unknown ai provider",
			content: "exporter:\n  url: http://host\nai:\n  provider: gemini\n",
			wantErr: "provider",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestRetentionDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"", 90 * 24 * time.Hour},
		{"30d", 30 * 24 * time.Hour},
		{"1d", 24 * time.Hour},
		{"48h", 48 * time.Hour},
		{"garbage", 90 * 24 * time.Hour},
	}
	for _, tt := range tests {
		cfg := &Config{Retention: tt.in}
		if got := cfg.RetentionDuration(); got != tt.want {
			t.Errorf("RetentionDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAIKeyPrefersConfigOverEnv(t *testing.T) {
	t.Setenv("PULSE_AI_KEY", "env-key")

	cfg := &Config{AI: &AIConfig{Provider: "claude", APIKey: "file-key"}}
	if got := cfg.AIKey(); got != "file-key" {
		t.Errorf("AIKey() = %q, want file-key", got)
	}

	cfg.AI.APIKey = ""
	if got := cfg.AIKey(); got != "env-key" {
		t.Errorf("AIKey() = %q, want env-key", got)
	}
	if !cfg.AIEnabled() {
		t.Error("AIEnabled() = false with env key set")
	}

	t.Setenv("PULSE_AI_KEY", "")
	if cfg.AIEnabled() {
		t.Error("AIEnabled() = true with no key anywhere")
	}
}

func TestAIEnabledNilConfig(t *testing.T) {
	t.Setenv("PULSE_AI_KEY", "env-key")
	cfg := &Config{}
	if cfg.AIEnabled() {
		t.Error("AIEnabled() = true without an ai block")
	}
}
