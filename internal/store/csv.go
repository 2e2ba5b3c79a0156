package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nward/commutetrack/internal/record"
)

// Column headers mirror the spreadsheet layout this tool's data was
// originally collected in, so existing analysis keeps working.
var (
	recordHeader  = []string{"Timestamp", "Day", "Route", "Duration (min)", "Length (miles)", "Directions"}
	lastRunHeader = []string{"Route", "LastRun"}
)

const lastRunFile = "last_run.csv"

const rowTimeLayout = "2006-01-02 15:04:05"

// CSVStore implements the Store interface with one CSV file per route plus a
// last_run.csv run-state table, all under a single directory. Suitable for
// operators who want grep- and spreadsheet-friendly output.
type CSVStore struct {
	dir    string
	loc    *time.Location
	logger *slog.Logger
	mu     sync.Mutex
}

// NewCSVStore creates a CSV-backed store rooted at the given directory,
// creating it if necessary.
func NewCSVStore(dir string, loc *time.Location, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &CSVStore{dir: dir, loc: loc, logger: logger}, nil
}

// AppendRecords appends all records for one run of a route to the route's
// file, writing the header first on a fresh file. An existing file with a
// different header is left as-is and logged as a data-quality warning; rows
// are still appended.
func (s *CSVStore) AppendRecords(routeName string, recs []record.CommuteRecord) error {
	if routeName == "" {
		return fmt.Errorf("route name is required")
	}
	if len(recs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.routePath(routeName)
	fresh, err := s.ensureHeader(path, recordHeader)
	if err != nil {
		return err
	}
	if fresh {
		s.logger.Info("created route log file", "route", routeName, "path", path)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	for _, rec := range recs {
		row := []string{
			rec.Timestamp.Format(rowTimeLayout),
			rec.Day,
			rec.RouteLabel,
			strconv.FormatFloat(rec.DurationMinutes, 'f', 1, 64),
			strconv.FormatFloat(rec.DistanceMiles, 'f', 1, 64),
			rec.Directions,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return nil
}

// LastRun scans last_run.csv for the route's entry.
func (s *CSVStore) LastRun(routeName string) (time.Time, bool, error) {
	if routeName == "" {
		return time.Time{}, false, fmt.Errorf("route name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readLastRunRows()
	if err != nil {
		return time.Time{}, false, err
	}

	for _, row := range rows {
		if len(row) >= 2 && row[0] == routeName {
			t, err := parseStoredTime(row[1], s.loc)
			if err != nil {
				return time.Time{}, false, fmt.Errorf("last run for %s: %w", routeName, err)
			}
			return t, true, nil
		}
	}
	return time.Time{}, false, nil
}

// SetLastRun upserts the route's row in last_run.csv: the matching row is
// updated in place when present, appended otherwise. The file is rewritten
// atomically via a temp file.
func (s *CSVStore) SetLastRun(routeName string, t time.Time) error {
	if routeName == "" {
		return fmt.Errorf("route name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.readLastRunRows()
	if err != nil {
		return err
	}

	value := t.Format(time.RFC3339)
	found := false
	for i, row := range rows {
		if len(row) >= 2 && row[0] == routeName {
			rows[i][1] = value
			found = true
			break
		}
	}
	if !found {
		rows = append(rows, []string{routeName, value})
	}

	path := filepath.Join(s.dir, lastRunFile)
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(lastRunHeader); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush rows: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", lastRunFile, err)
	}
	return nil
}

// Close is a no-op; every operation opens and closes its own file handles.
func (s *CSVStore) Close() error {
	return nil
}

// readLastRunRows returns the data rows of last_run.csv, skipping the header.
// A missing file means no runs yet.
func (s *CSVStore) readLastRunRows() ([][]string, error) {
	path := filepath.Join(s.dir, lastRunFile)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", lastRunFile, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	all, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", lastRunFile, err)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all[1:], nil
}

// ensureHeader creates the file with the given header when absent or empty,
// and warns on a header mismatch in an existing file. Returns true when a
// fresh file was created.
func (s *CSVStore) ensureHeader(path string, header []string) (bool, error) {
	info, err := os.Stat(path)
	if err == nil && info.Size() > 0 {
		f, err := os.Open(path)
		if err != nil {
			return false, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()

		r := csv.NewReader(f)
		r.FieldsPerRecord = -1
		existing, err := r.Read()
		if err != nil && err != io.EOF {
			return false, fmt.Errorf("failed to read header of %s: %w", path, err)
		}
		if !equalHeader(existing, header) {
			s.logger.Warn("header mismatch in store file, leaving as-is",
				"path", path,
				"expected", strings.Join(header, ","),
				"found", strings.Join(existing, ","))
		}
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return false, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return false, fmt.Errorf("failed to write header: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return false, fmt.Errorf("failed to flush header: %w", err)
	}
	return true, nil
}

// routePath maps a route name to its file, replacing path separators that
// would be invalid in a filename.
func (s *CSVStore) routePath(routeName string) string {
	name := strings.ReplaceAll(routeName, "/", "-")
	name = strings.ReplaceAll(name, string(os.PathSeparator), "-")
	return filepath.Join(s.dir, name+".csv")
}

func equalHeader(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
