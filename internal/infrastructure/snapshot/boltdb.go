// Package snapshot persists analytics summaries in a local BoltDB file.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/clubportal/domain"
)

const defaultBucket = "analytics_snapshots"

// Store keeps one entry per summary keyed by its generation time, so cursor order is time order.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = defaultBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Save stores summary. A summary without a generation time is stamped with the current time.
func (s *Store) Save(_ context.Context, summary *domain.AnalyticsSummary) error {
	if summary == nil {
		return domain.ErrInvalidPayload
	}
	if s == nil || s.db == nil {
		return domain.Unavailable(bolt.ErrDatabaseNotOpen)
	}
	if summary.GeneratedAt.IsZero() {
		summary.GeneratedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(buildKey(summary.GeneratedAt), payload)
	})
	if err != nil {
		return domain.Unavailable(err)
	}
	return nil
}

// List returns up to limit summaries, newest first.
func (s *Store) List(_ context.Context, limit int) ([]domain.AnalyticsSummary, error) {
	if s == nil || s.db == nil {
		return nil, domain.Unavailable(bolt.ErrDatabaseNotOpen)
	}
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	items := make([]domain.AnalyticsSummary, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.Last(); k != nil && len(items) < limit; k, v = c.Prev() {
			var item domain.AnalyticsSummary
			if err := json.Unmarshal(v, &item); err != nil {
				continue
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, domain.Unavailable(err)
	}
	return items, nil
}

// Prune removes summaries generated before the given time and reports how many went away.
func (s *Store) Prune(_ context.Context, before time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, domain.Unavailable(bolt.ErrDatabaseNotOpen)
	}
	cutoff := buildKey(before)
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, _ := c.First(); k != nil && string(k) < string(cutoff); k, _ = c.First() {
			if err := c.Delete(); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, domain.Unavailable(err)
	}
	return removed, nil
}

// Size returns the number of stored summaries.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the Bolt database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func buildKey(at time.Time) []byte {
	return []byte(fmt.Sprintf("%020d", at.UTC().UnixNano()))
}
