package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/nward/commutetrack/internal/record"
)

const (
	// recordsBucket holds one sub-bucket per route name with appended records.
	recordsBucket = "records"
	// lastRunBucket maps route name to the last successful run timestamp.
	lastRunBucket = "last_run"
)

// BoltStore implements the Store interface using BoltDB.
type BoltStore struct {
	db  *bolt.DB
	loc *time.Location
}

// NewBoltStore creates a new BoltDB-backed store at the given path.
func NewBoltStore(path string, loc *time.Location) (Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb at %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(recordsBucket)); err != nil {
			return fmt.Errorf("create records bucket: %w", err)
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(lastRunBucket)); err != nil {
			return fmt.Errorf("create last_run bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db, loc: loc}, nil
}

// AppendRecords appends all records for one run of a route inside a single
// transaction, so a failure leaves no partial run behind.
func (s *BoltStore) AppendRecords(routeName string, recs []record.CommuteRecord) error {
	if routeName == "" {
		return fmt.Errorf("route name is required")
	}
	if len(recs) == 0 {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		records := tx.Bucket([]byte(recordsBucket))

		routeBucket, err := records.CreateBucketIfNotExists([]byte(routeName))
		if err != nil {
			return fmt.Errorf("create route bucket %s: %w", routeName, err)
		}

		for i := range recs {
			data, err := json.Marshal(&recs[i])
			if err != nil {
				return fmt.Errorf("marshal record: %w", err)
			}
			// Alternatives logged in the same run share a timestamp, so the
			// key carries a UUID suffix to keep them distinct while
			// preserving time ordering on iteration.
			key := recs[i].Timestamp.Format(time.RFC3339) + "/" + uuid.New().String()
			if err := routeBucket.Put([]byte(key), data); err != nil {
				return fmt.Errorf("put record: %w", err)
			}
		}
		return nil
	})
}

// LastRun returns the last successful run timestamp for a route.
func (s *BoltStore) LastRun(routeName string) (time.Time, bool, error) {
	if routeName == "" {
		return time.Time{}, false, fmt.Errorf("route name is required")
	}

	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(lastRunBucket))
		if v := bucket.Get([]byte(routeName)); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read last run for %s: %w", routeName, err)
	}
	if raw == nil {
		return time.Time{}, false, nil
	}

	t, err := parseStoredTime(string(raw), s.loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("last run for %s: %w", routeName, err)
	}
	return t, true, nil
}

// SetLastRun upserts the last-run timestamp for a route.
func (s *BoltStore) SetLastRun(routeName string, t time.Time) error {
	if routeName == "" {
		return fmt.Errorf("route name is required")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(lastRunBucket))
		if err := bucket.Put([]byte(routeName), []byte(t.Format(time.RFC3339))); err != nil {
			return fmt.Errorf("put last run: %w", err)
		}
		return nil
	})
}

// Close releases resources held by the store.
func (s *BoltStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
