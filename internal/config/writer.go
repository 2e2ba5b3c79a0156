package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes a Config to a YAML file. The write is atomic: the config is
// written to a temporary file first, then renamed onto the target path.
func Save(cfg *Config, path string) error {
	if _, err := validate(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// AddRoute adds a new route to an existing config file. If the config file
// doesn't exist, it creates a new one with defaults applied. The returned
// warnings list any invalid routes the loader dropped from the existing
// file; dropped routes are not written back on save.
func AddRoute(configPath string, route Route) ([]string, error) {
	var cfg *Config
	var warnings []string
	var err error

	if _, statErr := os.Stat(configPath); statErr == nil {
		cfg, warnings, err = Load(configPath)
		if err != nil {
			return warnings, fmt.Errorf("failed to load existing config: %w", err)
		}
	} else {
		cfg = NewDefaultConfig()
	}

	for _, existing := range cfg.Routes {
		if existing.Name == route.Name {
			return warnings, fmt.Errorf("route %q already exists", route.Name)
		}
	}

	if route.IntervalMinutes == 0 {
		route.IntervalMinutes = cfg.Defaults.IntervalMinutes
	}
	if err := validateRoute(&route); err != nil {
		return warnings, fmt.Errorf("invalid route: %w", err)
	}

	cfg.Routes = append(cfg.Routes, route)

	if err := Save(cfg, configPath); err != nil {
		return warnings, fmt.Errorf("failed to save config: %w", err)
	}

	return warnings, nil
}

// RemoveRoute removes a route from the config file by name. Like AddRoute,
// it returns the loader's warnings about invalid routes dropped on rewrite.
func RemoveRoute(configPath, name string) ([]string, error) {
	cfg, warnings, err := Load(configPath)
	if err != nil {
		return warnings, fmt.Errorf("failed to load config: %w", err)
	}

	found := false
	remaining := make([]Route, 0, len(cfg.Routes))
	for _, route := range cfg.Routes {
		if route.Name == name {
			found = true
			continue
		}
		remaining = append(remaining, route)
	}

	if !found {
		return warnings, fmt.Errorf("route %q not found", name)
	}

	cfg.Routes = remaining

	if err := Save(cfg, configPath); err != nil {
		return warnings, fmt.Errorf("failed to save config: %w", err)
	}

	return warnings, nil
}
