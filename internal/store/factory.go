package store

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// SupportedDrivers lists all available store drivers.
var SupportedDrivers = []string{"bbolt", "sqlite", "csv"}

// New creates a Store instance based on the specified driver.
// Supported drivers:
//   - "bbolt": BoltDB file (default, recommended)
//   - "sqlite": SQLite database with proper tabular schema
//   - "csv": directory of per-route CSV files plus last_run.csv
//
// loc is the fixed timezone used to interpret stored timestamps that lack
// zone information.
func New(driver, path string, loc *time.Location, logger *slog.Logger) (Store, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))

	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if loc == nil {
		loc = time.Local
	}

	switch driver {
	case "bbolt":
		return NewBoltStore(path, loc)
	case "sqlite":
		return NewSQLiteStore(path, loc)
	case "csv":
		return NewCSVStore(path, loc, logger)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s (supported: %v)", driver, SupportedDrivers)
	}
}
