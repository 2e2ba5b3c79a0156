package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nward/commutetrack/internal/record"
)

// schemaSQL creates the two logical tables: the append-only record log and
// the per-route run-state table.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS commute_records (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	route_name     TEXT NOT NULL,
	ts             TEXT NOT NULL,
	day            TEXT NOT NULL,
	route_label    TEXT NOT NULL,
	duration_min   REAL NOT NULL,
	distance_miles REAL NOT NULL,
	directions     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_commute_records_route_ts
	ON commute_records(route_name, ts);
CREATE TABLE IF NOT EXISTS last_run (
	route_name TEXT PRIMARY KEY,
	last_run   TEXT NOT NULL
);
`

// SQLiteStore implements the Store interface using a SQLite database.
type SQLiteStore struct {
	conn *sql.DB
	loc  *time.Location
}

// NewSQLiteStore opens (creating if necessary) a SQLite database at the given
// path with WAL mode enabled and ensures the schema exists.
func NewSQLiteStore(path string, loc *time.Location) (Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// transaction conflicts.
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// WAL keeps readers from blocking the writer; busy_timeout covers the
	// window where an external reader still holds a lock.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set %s: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{conn: conn, loc: loc}, nil
}

// AppendRecords inserts all records for one run of a route in a single
// transaction.
func (s *SQLiteStore) AppendRecords(routeName string, recs []record.CommuteRecord) error {
	if routeName == "" {
		return fmt.Errorf("route name is required")
	}
	if len(recs) == 0 {
		return nil
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO commute_records
		(route_name, ts, day, route_label, duration_min, distance_miles, directions)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range recs {
		_, err := stmt.Exec(
			routeName,
			rec.Timestamp.Format(time.RFC3339),
			rec.Day,
			rec.RouteLabel,
			rec.DurationMinutes,
			rec.DistanceMiles,
			rec.Directions,
		)
		if err != nil {
			return fmt.Errorf("failed to insert record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// LastRun returns the last successful run timestamp for a route.
func (s *SQLiteStore) LastRun(routeName string) (time.Time, bool, error) {
	if routeName == "" {
		return time.Time{}, false, fmt.Errorf("route name is required")
	}

	var value string
	err := s.conn.QueryRow(
		"SELECT last_run FROM last_run WHERE route_name = ?", routeName,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read last run for %s: %w", routeName, err)
	}

	t, err := parseStoredTime(value, s.loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last run for %s: %w", routeName, err)
	}
	return t, true, nil
}

// SetLastRun upserts the last-run timestamp for a route.
func (s *SQLiteStore) SetLastRun(routeName string, t time.Time) error {
	if routeName == "" {
		return fmt.Errorf("route name is required")
	}

	_, err := s.conn.Exec(
		`INSERT INTO last_run (route_name, last_run) VALUES (?, ?)
		 ON CONFLICT(route_name) DO UPDATE SET last_run = excluded.last_run`,
		routeName, t.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert last run for %s: %w", routeName, err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
