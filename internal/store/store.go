// Package store persists commute records and per-route run state.
package store

import (
	"time"

	"github.com/nward/commutetrack/internal/record"
)

// Store is the durable backend behind the tracker. It holds two logical
// tables: an append-only record log keyed by route name, and a run-state
// table mapping each route name to its last successful run.
type Store interface {
	// AppendRecords durably appends all records for one run of a route.
	AppendRecords(routeName string, recs []record.CommuteRecord) error

	// LastRun returns the last successful run timestamp for a route.
	// The boolean is false when the route has never been logged. A non-nil
	// error indicates a data-quality problem (unreadable store, malformed
	// entry); callers treat it as absent and surface a warning.
	LastRun(routeName string) (time.Time, bool, error)

	// SetLastRun upserts the last-run timestamp for a route. It is called
	// strictly after all records of the run are appended, and never rolled
	// back.
	SetLastRun(routeName string, t time.Time) error

	// Close releases any resources held by the store.
	Close() error
}

// parseStoredTime parses a persisted timestamp. Values are written as RFC3339
// with zone offset; values lacking zone information (older rows, hand-edited
// files) are interpreted in the configured fixed timezone.
func parseStoredTime(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &MalformedTimestampError{Value: value}
}

// MalformedTimestampError reports a last-run value that could not be parsed.
type MalformedTimestampError struct {
	Value string
}

func (e *MalformedTimestampError) Error() string {
	return "malformed last-run timestamp: " + e.Value
}
