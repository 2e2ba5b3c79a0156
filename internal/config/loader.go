package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nward/commutetrack/internal/gate"
)

// Load reads, defaults, and validates a commutetrack configuration from a
// YAML file. Malformed routes are rejected individually and reported in the
// returned warning list rather than failing the whole load; only an unreadable
// file, bad YAML, an unresolvable timezone, an unknown store driver, or zero
// usable routes are fatal.
func Load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	warnings, err := validate(&cfg)
	if err != nil {
		return nil, warnings, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, warnings, nil
}

// applyDefaults sets default values for optional fields.
func applyDefaults(cfg *Config) {
	if cfg.Defaults.Timezone == "" {
		cfg.Defaults.Timezone = "America/Chicago"
	}
	if cfg.Defaults.IntervalMinutes == 0 {
		cfg.Defaults.IntervalMinutes = 15
	}
	if cfg.Defaults.Schedule == "" {
		cfg.Defaults.Schedule = "every 5m"
	}

	if cfg.Provider.APIKeyEnv == "" {
		cfg.Provider.APIKeyEnv = "GOOGLE_MAPS_API_KEY"
	}
	if cfg.Provider.TimeoutSec == 0 {
		cfg.Provider.TimeoutSec = 15
	}

	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "bbolt"
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = "./commutetrack.db"
	}

	for i := range cfg.Routes {
		if cfg.Routes[i].IntervalMinutes == 0 {
			cfg.Routes[i].IntervalMinutes = cfg.Defaults.IntervalMinutes
		}
	}
}

// validate checks the configuration, dropping invalid routes with a warning
// and returning an error only for batch-fatal problems.
func validate(cfg *Config) ([]string, error) {
	if _, err := time.LoadLocation(cfg.Defaults.Timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Defaults.Timezone, err)
	}

	validDrivers := map[string]bool{"bbolt": true, "sqlite": true, "csv": true}
	if !validDrivers[cfg.Store.Driver] {
		return nil, fmt.Errorf("invalid store driver: %s (must be 'bbolt', 'sqlite', or 'csv')", cfg.Store.Driver)
	}

	if len(cfg.Routes) == 0 {
		return nil, fmt.Errorf("no routes defined in configuration")
	}

	var warnings []string
	seen := make(map[string]bool)
	kept := cfg.Routes[:0]
	for i := range cfg.Routes {
		route := &cfg.Routes[i]
		if err := validateRoute(route); err != nil {
			warnings = append(warnings, fmt.Sprintf("dropping route %d (%q): %v", i, route.Name, err))
			continue
		}
		if seen[route.Name] {
			warnings = append(warnings, fmt.Sprintf("dropping route %d: duplicate name %q", i, route.Name))
			continue
		}
		seen[route.Name] = true
		kept = append(kept, *route)
	}
	cfg.Routes = kept

	if len(cfg.Routes) == 0 {
		return warnings, fmt.Errorf("no valid routes remain after validation")
	}

	return warnings, nil
}

// validateRoute checks required fields and parses the day and window
// configuration into the route's Rule form.
func validateRoute(route *Route) error {
	if route.Name == "" {
		return fmt.Errorf("name is required")
	}
	if route.Origin == "" {
		return fmt.Errorf("origin is required")
	}
	if route.Destination == "" {
		return fmt.Errorf("destination is required")
	}
	if route.IntervalMinutes <= 0 {
		return fmt.Errorf("interval_minutes must be positive, got %v", route.IntervalMinutes)
	}

	route.ActiveDays = route.ActiveDays[:0]
	for _, name := range route.Days {
		day, err := gate.ParseWeekday(name)
		if err != nil {
			return err
		}
		route.ActiveDays = append(route.ActiveDays, day)
	}

	switch {
	case route.Start == "" && route.End == "":
		route.Window = nil
	case route.Start == "" || route.End == "":
		return fmt.Errorf("start and end must be set together")
	default:
		start, err := gate.ParseClock(route.Start)
		if err != nil {
			return err
		}
		end, err := gate.ParseClock(route.End)
		if err != nil {
			return err
		}
		if end.Before(start) {
			return fmt.Errorf("window end %s is before start %s", end, start)
		}
		route.Window = &gate.Window{Start: start, End: end}
	}

	return nil
}
