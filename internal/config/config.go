// Package config loads and validates the commutetrack configuration document.
package config

import (
	"os"
	"time"

	"github.com/nward/commutetrack/internal/gate"
)

// Config is the top-level configuration structure for commutetrack.
type Config struct {
	Defaults Defaults `yaml:"defaults"`
	Provider Provider `yaml:"provider"`
	Store    Store    `yaml:"store"`
	Logging  Logging  `yaml:"logging"`
	Routes   []Route  `yaml:"routes"`
}

// Defaults holds values applied across all routes.
type Defaults struct {
	// Timezone is the fixed zone every timestamp is recorded and compared in.
	Timezone string `yaml:"timezone"`

	// IntervalMinutes is the cooldown applied to routes that don't set their own.
	IntervalMinutes float64 `yaml:"interval_minutes"`

	// Schedule is the serve-mode pass cadence (cron expression or "every 5m").
	Schedule string `yaml:"schedule"`
}

// Provider configures the directions API client.
type Provider struct {
	BaseURL    string `yaml:"base_url"`    // empty = provider default
	APIKey     string `yaml:"api_key"`     // literal key; prefer APIKeyEnv
	APIKeyEnv  string `yaml:"api_key_env"` // environment variable holding the key
	TimeoutSec int    `yaml:"timeout_sec"` // per-request HTTP timeout
}

// Store configures the durable backend for records and run state.
type Store struct {
	Driver string `yaml:"driver"` // "bbolt", "sqlite", or "csv"
	Path   string `yaml:"path"`   // file path (bbolt/sqlite) or directory (csv)
}

// Logging configures the structured logger.
type Logging struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Output string `yaml:"output"` // "stderr", "stdout", or a file path
}

// Route is a single tracked origin/destination pair.
type Route struct {
	Name            string   `yaml:"name"`
	Origin          string   `yaml:"origin"`
	Destination     string   `yaml:"destination"`
	IntervalMinutes float64  `yaml:"interval_minutes"` // 0 = use default
	Days            []string `yaml:"days"`             // weekday names; empty = every day
	Start           string   `yaml:"start"`            // "HH:MM", inclusive window start
	End             string   `yaml:"end"`              // "HH:MM", inclusive window end

	// Parsed forms, populated by the loader.
	ActiveDays []time.Weekday `yaml:"-"`
	Window     *gate.Window   `yaml:"-"`
}

// Rule returns the route's scheduling rule for gate evaluation.
func (r *Route) Rule() gate.Rule {
	return gate.Rule{
		ActiveDays:      r.ActiveDays,
		Window:          r.Window,
		IntervalMinutes: r.IntervalMinutes,
	}
}

// Location resolves the configured fixed timezone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Defaults.Timezone)
}

// ResolveAPIKey returns the provider API key, consulting the configured
// environment variable when no literal key is set.
func (p Provider) ResolveAPIKey() string {
	if p.APIKey != "" {
		return p.APIKey
	}
	return os.Getenv(p.APIKeyEnv)
}

// NewDefaultConfig returns a configuration with all defaults applied and no
// routes. Used when a route is added to a config file that does not exist yet.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
