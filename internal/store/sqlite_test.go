package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nward/commutetrack/internal/record"
)

func newTestSQLiteStore(t *testing.T) Store {
	t.Helper()

	st, err := NewSQLiteStore(filepath.Join(t.TempDir(), "commute.db"), testLoc)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSQLiteStore_Contract(t *testing.T) {
	st := newTestSQLiteStore(t)
	runStoreContract(t, st)
}

func TestSQLiteStore_WALEnabled(t *testing.T) {
	st := newTestSQLiteStore(t)

	var mode string
	if err := st.(*SQLiteStore).conn.QueryRow(`PRAGMA journal_mode`).Scan(&mode); err != nil {
		t.Fatalf("pragma query error = %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := st.(*SQLiteStore).conn.QueryRow(`PRAGMA busy_timeout`).Scan(&timeout); err != nil {
		t.Fatalf("pragma query error = %v", err)
	}
	if timeout != 5000 {
		t.Errorf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestSQLiteStore_AppendsRows(t *testing.T) {
	st := newTestSQLiteStore(t)

	now := time.Date(2024, 1, 2, 8, 0, 0, 0, testLoc)
	recs := []record.CommuteRecord{testRecord(now), testRecord(now), testRecord(now)}
	if err := st.AppendRecords("Home→Work", recs); err != nil {
		t.Fatalf("AppendRecords() error = %v", err)
	}
	if err := st.AppendRecords("Work→Home", recs[:1]); err != nil {
		t.Fatalf("AppendRecords() error = %v", err)
	}

	db := st.(*SQLiteStore).conn

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM commute_records WHERE route_name = ?`, "Home→Work").Scan(&n); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if n != 3 {
		t.Errorf("got %d rows for Home→Work, want 3", n)
	}

	var label string
	var duration float64
	err := db.QueryRow(
		`SELECT route_label, duration_min FROM commute_records WHERE route_name = ? LIMIT 1`,
		"Work→Home",
	).Scan(&label, &duration)
	if err != nil {
		t.Fatalf("row query error = %v", err)
	}
	if label != "I-90" || duration != 30.0 {
		t.Errorf("stored row = (%q, %v), want (I-90, 30)", label, duration)
	}
}

func TestSQLiteStore_LastRunUpsertKeepsOneRow(t *testing.T) {
	st := newTestSQLiteStore(t)

	now := time.Date(2024, 1, 2, 8, 0, 0, 0, testLoc)
	if err := st.SetLastRun("Home→Work", now); err != nil {
		t.Fatalf("SetLastRun() error = %v", err)
	}
	if err := st.SetLastRun("Home→Work", now.Add(15*time.Minute)); err != nil {
		t.Fatalf("SetLastRun() error = %v", err)
	}

	var n int
	err := st.(*SQLiteStore).conn.QueryRow(`SELECT COUNT(*) FROM last_run`).Scan(&n)
	if err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if n != 1 {
		t.Errorf("got %d last_run rows, want 1", n)
	}
}
