package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nward/commutetrack/internal/config"
	"github.com/nward/commutetrack/internal/directions"
	"github.com/nward/commutetrack/internal/logging"
	"github.com/nward/commutetrack/internal/store"
	"github.com/nward/commutetrack/internal/tracker"
)

// runtime bundles everything a pass needs. Built once per invocation; the
// store must be closed by the caller.
type runtime struct {
	cfg     *config.Config
	loc     *time.Location
	store   store.Store
	tracker *tracker.Tracker
}

// newRuntime loads the configuration and wires the store, directions client,
// and tracker. Configuration warnings are logged, not fatal; a config that
// yields no usable routes is.
func newRuntime(configPath string) (*runtime, error) {
	cfg, warnings, err := config.Load(configPath)
	for _, w := range warnings {
		logger.Warn("configuration warning", "detail", w)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply logging config from YAML if provided
	if cfg.Logging.Output != "" || cfg.Logging.Level != "" || cfg.Logging.Format != "" {
		cfgLogger, err := logging.NewFromConfig(cfg.Logging.Format, cfg.Logging.Level, cfg.Logging.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = cfgLogger
		slog.SetDefault(cfgLogger)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve timezone: %w", err)
	}

	st, err := store.New(cfg.Store.Driver, cfg.Store.Path, loc, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	apiKey := cfg.Provider.ResolveAPIKey()
	if apiKey == "" {
		logger.Warn("no provider API key configured",
			"api_key_env", cfg.Provider.APIKeyEnv)
	}

	client := directions.NewClient(
		cfg.Provider.BaseURL,
		apiKey,
		time.Duration(cfg.Provider.TimeoutSec)*time.Second,
		logger,
	)

	logger.Info("configuration loaded",
		"routes", len(cfg.Routes),
		"timezone", cfg.Defaults.Timezone,
		"store_driver", cfg.Store.Driver,
		"store_path", cfg.Store.Path)

	return &runtime{
		cfg:     cfg,
		loc:     loc,
		store:   st,
		tracker: tracker.New(cfg.Routes, client, st, loc, logger),
	}, nil
}

func (rt *runtime) close() {
	if err := rt.store.Close(); err != nil {
		logger.Error("failed to close store", "error", err)
	}
}
