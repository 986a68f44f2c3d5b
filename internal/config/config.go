// Package config provides configuration loading and defaults for the tend
// daemon.
//
// Configuration is loaded from a TOML file in the user's data directory.
// The package covers project discovery roots, nudge timing (quiet hours,
// frequency, motivation style), notification delivery, the optional insight
// generator, and logging, with sensible defaults for every field.
package config

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"
	"tools.zach/dev/tend/internal/paths"
	"tools.zach/dev/tend/internal/project"
)

// CurrentVersion is the config schema version this build reads and writes.
const CurrentVersion = 1

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level application configuration.
type Config struct {
	// Version is the config schema version.
	Version int `toml:"version"`
	// Monitor holds project discovery and scanning settings.
	Monitor MonitorConfig `toml:"monitor"`
	// Nudge holds nudge scheduling settings.
	Nudge NudgeConfig `toml:"nudge"`
	// Notify holds notification delivery settings.
	Notify NotifyConfig `toml:"notify"`
	// Insight holds optional LLM insight generator settings.
	Insight InsightConfig `toml:"insight"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// MonitorConfig holds project discovery and scanning settings.
type MonitorConfig struct {
	// Roots lists directories scanned for version-controlled projects at
	// daemon start. Empty means no automatic discovery.
	Roots []string `toml:"roots"`
	// Ignore is a list of glob patterns for directories that are never
	// tracked, matched against the full project path.
	Ignore []string `toml:"ignore"`
	// DiscoveryDepth bounds how many levels below each root the discovery
	// scan descends.
	DiscoveryDepth int `toml:"discovery_depth"`
	// ScanCap bounds how many directory entries a file-modification scan
	// visits per project.
	ScanCap int `toml:"scan_cap"`
}

// NudgeConfig holds nudge scheduling settings.
type NudgeConfig struct {
	// Enabled turns the hourly nudge scheduler on or off.
	Enabled bool `toml:"enabled"`
	// QuietHoursStart is the hour of day (0–23) when the no-nudge window
	// opens. A window with start > end wraps past midnight.
	QuietHoursStart int `toml:"quiet_hours_start"`
	// QuietHoursEnd is the hour of day (0–23) when the no-nudge window closes.
	QuietHoursEnd int `toml:"quiet_hours_end"`
	// FrequencyHours is the minimum hours between nudges for the same
	// project (1–168).
	FrequencyHours int `toml:"frequency_hours"`
	// Style selects the message tone: encouraging, challenging, guilt, or data.
	Style string `toml:"style"`
}

// NotifyConfig holds notification delivery settings.
type NotifyConfig struct {
	// Sink selects the delivery mechanism: "exec", "webhook", or "log".
	Sink string `toml:"sink"`
	// Command is the argv template for the exec sink; {title} and {body}
	// placeholders are substituted. Empty picks a platform default.
	Command []string `toml:"command,omitempty"`
	// WebhookURL is the endpoint for the webhook sink.
	WebhookURL string `toml:"webhook_url,omitempty"`
}

// InsightConfig holds optional LLM insight generator settings.
type InsightConfig struct {
	// Enabled turns on LLM-generated observations in nudge messages.
	Enabled bool `toml:"enabled"`
	// Command is the argv of the LLM CLI invoked with the prompt on stdin.
	Command []string `toml:"command,omitempty"`
	// TimeoutSeconds bounds each insight subprocess call.
	TimeoutSeconds int `toml:"timeout_seconds"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Monitor: MonitorConfig{
			Roots:          []string{},
			Ignore:         []string{"**/node_modules/**", "**/.Trash/**"},
			DiscoveryDepth: 3,
			ScanCap:        1000,
		},
		Nudge: NudgeConfig{
			Enabled:         true,
			QuietHoursStart: 22,
			QuietHoursEnd:   8,
			FrequencyHours:  24,
			Style:           string(project.StyleEncouraging),
		},
		Notify: NotifyConfig{
			Sink: "exec",
		},
		Insight: InsightConfig{
			Enabled:        false,
			TimeoutSeconds: 30,
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads and parses the configuration file from dataDir/config.toml.
// If the file doesn't exist, returns DefaultConfig.
func Load(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, paths.ConfigFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Version > CurrentVersion {
		return nil, fmt.Errorf("config version %d is newer than this build supports (%d)", cfg.Version, CurrentVersion)
	}
	cfg.Version = CurrentVersion

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to disk as TOML using an atomic write.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return writeAtomic(path, buf.Bytes(), 0o644)
}

// WriteDefault writes the default config file into dataDir if none exists.
// Called once at daemon startup so users have a file to edit.
func WriteDefault(dataDir string) error {
	path := filepath.Join(dataDir, paths.ConfigFile)
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	return DefaultConfig().Save(path)
}

// ///////////////////////////////////////////////
// Validation
// ///////////////////////////////////////////////

// validLogLevels is the set of accepted log level strings.
var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

// Validate checks that all configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if c.Nudge.QuietHoursStart < 0 || c.Nudge.QuietHoursStart > 23 {
		return fmt.Errorf("quiet_hours_start must be 0-23, got %d", c.Nudge.QuietHoursStart)
	}
	if c.Nudge.QuietHoursEnd < 0 || c.Nudge.QuietHoursEnd > 23 {
		return fmt.Errorf("quiet_hours_end must be 0-23, got %d", c.Nudge.QuietHoursEnd)
	}
	if c.Nudge.FrequencyHours < 1 || c.Nudge.FrequencyHours > 168 {
		return fmt.Errorf("frequency_hours must be 1-168, got %d", c.Nudge.FrequencyHours)
	}
	if !project.ValidStyle(project.Style(c.Nudge.Style)) {
		return fmt.Errorf("invalid nudge.style %q: must be encouraging, challenging, guilt, or data", c.Nudge.Style)
	}

	switch c.Notify.Sink {
	case "exec", "webhook", "log":
	default:
		return fmt.Errorf("invalid notify.sink %q: must be exec, webhook, or log", c.Notify.Sink)
	}
	if c.Notify.Sink == "webhook" && c.Notify.WebhookURL == "" {
		return fmt.Errorf("notify.webhook_url is required when sink is webhook")
	}

	if c.Monitor.DiscoveryDepth <= 0 {
		return fmt.Errorf("discovery_depth must be > 0, got %d", c.Monitor.DiscoveryDepth)
	}
	if c.Monitor.ScanCap <= 0 {
		return fmt.Errorf("scan_cap must be > 0, got %d", c.Monitor.ScanCap)
	}

	if c.Insight.Enabled && len(c.Insight.Command) == 0 {
		return fmt.Errorf("insight.command is required when insight is enabled")
	}
	if c.Insight.TimeoutSeconds <= 0 {
		return fmt.Errorf("insight timeout_seconds must be > 0, got %d", c.Insight.TimeoutSeconds)
	}

	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return fmt.Errorf("invalid log.level %q: must be trace, debug, info, warn, or error", c.Log.Level)
	}

	return nil
}

// ///////////////////////////////////////////////
// Ignore Matching
// ///////////////////////////////////////////////

// IsIgnored reports whether dir matches any of the configured ignore
// patterns.
func (c *Config) IsIgnored(dir string) bool {
	for _, pattern := range c.Monitor.Ignore {
		matched, err := doublestar.Match(pattern, dir)
		if err != nil {
			slog.Warn("invalid glob pattern", "pattern", pattern, "error", err)
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
