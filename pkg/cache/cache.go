// Package cache remembers documents that are already formatted, keyed by
// their content and the configuration they were formatted under, so that
// unchanged files can be skipped on the next run.
package cache

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketFormatted = "formatted"

// openTimeout bounds the wait for the file lock held by another mdfmt process.
const openTimeout = time.Second

// ErrClosed is returned when the cache is used after Close.
var ErrClosed = errors.New("cache is closed")

// Cache is a bbolt database of formatted document keys. It is safe for
// concurrent use.
type Cache struct {
	db *bolt.DB
}

// DefaultPath returns the cache file under the user cache directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locate cache directory: %w", err)
	}
	return filepath.Join(dir, "mdfmt", "cache.db"), nil
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketFormatted))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Key derives the cache key of content formatted under fingerprint.
func Key(content []byte, fingerprint string) []byte {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write(content)
	return h.Sum(nil)
}

// Formatted reports whether content is known to be formatted under
// fingerprint. Lookup failures count as a miss.
func (c *Cache) Formatted(content []byte, fingerprint string) bool {
	if c == nil || c.db == nil {
		return false
	}
	key := Key(content, fingerprint)
	found := false
	_ = c.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket([]byte(bucketFormatted)).Get(key) != nil
		return nil
	})
	return found
}

// MarkFormatted records that content is formatted under fingerprint.
func (c *Cache) MarkFormatted(content []byte, fingerprint string) error {
	if c == nil || c.db == nil {
		return ErrClosed
	}
	stamp := []byte(time.Now().UTC().Format(time.RFC3339))
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketFormatted)).Put(Key(content, fingerprint), stamp)
	})
}

// Clear removes every entry.
func (c *Cache) Clear() error {
	if c == nil || c.db == nil {
		return ErrClosed
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketFormatted)); err != nil {
			return err
		}
		_, err := tx.CreateBucket([]byte(bucketFormatted))
		return err
	})
}

// Close releases the database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}
