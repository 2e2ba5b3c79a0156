package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/nward/commutetrack/internal/record"
)

func newTestBoltStore(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	st, err := NewBoltStore(dbPath, testLoc)
	if err != nil {
		t.Fatalf("NewBoltStore() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Fatal("BoltDB file was not created")
	}
	return st
}

func TestBoltStore_Contract(t *testing.T) {
	runStoreContract(t, newTestBoltStore(t))
}

func TestBoltStore_AppendKeepsAllAlternatives(t *testing.T) {
	st := newTestBoltStore(t)

	now := time.Date(2024, 1, 2, 8, 0, 0, 0, testLoc)
	// Three alternatives logged in the same run share a timestamp but must
	// each be kept.
	recs := []record.CommuteRecord{testRecord(now), testRecord(now), testRecord(now)}
	if err := st.AppendRecords("Home→Work", recs); err != nil {
		t.Fatalf("AppendRecords() error = %v", err)
	}

	count := 0
	err := st.(*BoltStore).db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(recordsBucket)).Bucket([]byte("Home→Work"))
		if bucket == nil {
			t.Fatal("route bucket not created")
		}
		return bucket.ForEach(func(k, v []byte) error {
			count++
			return nil
		})
	})
	if err != nil {
		t.Fatalf("View() error = %v", err)
	}
	if count != 3 {
		t.Errorf("stored %d records, want 3", count)
	}
}

func TestBoltStore_MalformedLastRun(t *testing.T) {
	st := newTestBoltStore(t)

	err := st.(*BoltStore).db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(lastRunBucket)).Put([]byte("Home→Work"), []byte("not a timestamp"))
	})
	if err != nil {
		t.Fatalf("failed to plant malformed value: %v", err)
	}

	_, ok, err := st.LastRun("Home→Work")
	if err == nil {
		t.Fatal("expected error for malformed last-run value")
	}
	if ok {
		t.Error("malformed value must not report a usable last run")
	}
}
