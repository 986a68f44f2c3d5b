// Tests for configuration defaults, loading, validation, and ignore
// pattern matching.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"tools.zach/dev/tend/internal/paths"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := DefaultConfig()
	if cfg.Nudge.QuietHoursStart != want.Nudge.QuietHoursStart ||
		cfg.Nudge.FrequencyHours != want.Nudge.FrequencyHours ||
		cfg.Notify.Sink != want.Notify.Sink {
		t.Errorf("Load with no file = %+v, want defaults %+v", cfg, want)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Monitor.Roots = []string{"/home/z/src"}
	cfg.Nudge.Style = "challenging"
	cfg.Nudge.FrequencyHours = 48
	cfg.Notify.Sink = "webhook"
	cfg.Notify.WebhookURL = "https://hooks.example.com/tend"

	if err := cfg.Save(filepath.Join(dir, paths.ConfigFile)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Monitor.Roots) != 1 || got.Monitor.Roots[0] != "/home/z/src" {
		t.Errorf("Roots = %v, want [/home/z/src]", got.Monitor.Roots)
	}
	if got.Nudge.Style != "challenging" || got.Nudge.FrequencyHours != 48 {
		t.Errorf("Nudge = %+v", got.Nudge)
	}
	if got.Notify.Sink != "webhook" || got.Notify.WebhookURL != "https://hooks.example.com/tend" {
		t.Errorf("Notify = %+v", got.Notify)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	content := "[nudge]\nfrequency_hours = 12\n"
	if err := os.WriteFile(filepath.Join(dir, paths.ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Nudge.FrequencyHours != 12 {
		t.Errorf("FrequencyHours = %d, want 12", cfg.Nudge.FrequencyHours)
	}
	// Untouched fields keep their defaults.
	if cfg.Nudge.QuietHoursStart != 22 || cfg.Log.Level != "info" {
		t.Errorf("defaults not preserved: quiet_start=%d level=%s",
			cfg.Nudge.QuietHoursStart, cfg.Log.Level)
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	dir := t.TempDir()
	content := "version = 99\n"
	if err := os.WriteFile(filepath.Join(dir, paths.ConfigFile), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load accepted a config from a newer schema version")
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, paths.ConfigFile), []byte("[nudge\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("Load accepted malformed TOML")
	}
}

func TestWriteDefaultDoesNotClobber(t *testing.T) {
	dir := t.TempDir()

	if err := WriteDefault(dir); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	// Edit the file, then call WriteDefault again; the edit must survive.
	path := filepath.Join(dir, paths.ConfigFile)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Nudge.FrequencyHours = 72
	if err := cfg.Save(path); err != nil {
		t.Fatal(err)
	}
	if err := WriteDefault(dir); err != nil {
		t.Fatalf("second WriteDefault: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got.Nudge.FrequencyHours != 72 {
		t.Errorf("WriteDefault overwrote an existing config")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"quiet start too high", func(c *Config) { c.Nudge.QuietHoursStart = 24 }, false},
		{"quiet end negative", func(c *Config) { c.Nudge.QuietHoursEnd = -1 }, false},
		{"quiet window disabled", func(c *Config) { c.Nudge.QuietHoursStart = 9; c.Nudge.QuietHoursEnd = 9 }, true},
		{"frequency zero", func(c *Config) { c.Nudge.FrequencyHours = 0 }, false},
		{"frequency above a week", func(c *Config) { c.Nudge.FrequencyHours = 169 }, false},
		{"unknown style", func(c *Config) { c.Nudge.Style = "sarcastic" }, false},
		{"data style", func(c *Config) { c.Nudge.Style = "data" }, true},
		{"unknown sink", func(c *Config) { c.Notify.Sink = "pigeon" }, false},
		{"webhook without url", func(c *Config) { c.Notify.Sink = "webhook" }, false},
		{"webhook with url", func(c *Config) {
			c.Notify.Sink = "webhook"
			c.Notify.WebhookURL = "https://hooks.example.com/x"
		}, true},
		{"zero discovery depth", func(c *Config) { c.Monitor.DiscoveryDepth = 0 }, false},
		{"zero scan cap", func(c *Config) { c.Monitor.ScanCap = 0 }, false},
		{"insight enabled without command", func(c *Config) { c.Insight.Enabled = true }, false},
		{"insight enabled with command", func(c *Config) {
			c.Insight.Enabled = true
			c.Insight.Command = []string{"llm"}
		}, true},
		{"insight zero timeout", func(c *Config) { c.Insight.TimeoutSeconds = 0 }, false},
		{"unknown log level", func(c *Config) { c.Log.Level = "verbose" }, false},
		{"trace log level", func(c *Config) { c.Log.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestIsIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Monitor.Ignore = []string{"**/node_modules/**", "/tmp/scratch/*"}

	tests := []struct {
		dir  string
		want bool
	}{
		{"/home/z/src/app/node_modules/react", true},
		{"/home/z/src/app", false},
		{"/tmp/scratch/demo", true},
		{"/tmp/scratch/demo/nested", false},
	}
	for _, tt := range tests {
		if got := cfg.IsIgnored(tt.dir); got != tt.want {
			t.Errorf("IsIgnored(%q) = %v, want %v", tt.dir, got, tt.want)
		}
	}
}
