package cache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketResponses = []byte("responses")

// expiryLen is the size of the expiry prefix stored before each body
const expiryLen = 8

// BoltCache implements Cache using BoltDB.
//
// Each value is an 8-byte big-endian expiry (unix nanoseconds) followed by
// the response body. Expired entries are ignored on read and replaced by
// the next Set for the same key.
type BoltCache struct {
	db  *bolt.DB
	now func() time.Time
}

// NewBoltCache opens (or creates) the cache database at path
func NewBoltCache(path string) (*BoltCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketResponses)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache bucket: %w", err)
	}

	return &BoltCache{db: db, now: time.Now}, nil
}

// Get returns the cached body for key if it has not expired
func (c *BoltCache) Get(key string) ([]byte, bool) {
	var data []byte

	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketResponses)
		if b == nil {
			return nil
		}
		v := b.Get([]byte(key))
		if len(v) < expiryLen {
			return nil
		}

		expires := time.Unix(0, int64(binary.BigEndian.Uint64(v[:expiryLen])))
		if !c.now().Before(expires) {
			return nil
		}

		// Bolt values are only valid inside the transaction
		data = make([]byte, len(v)-expiryLen)
		copy(data, v[expiryLen:])
		return nil
	})
	if err != nil || data == nil {
		return nil, false
	}
	return data, true
}

// Set stores data under key until ttl elapses
func (c *BoltCache) Set(key string, data []byte, ttl time.Duration) error {
	value := make([]byte, expiryLen+len(data))
	binary.BigEndian.PutUint64(value[:expiryLen], uint64(c.now().Add(ttl).UnixNano()))
	copy(value[expiryLen:], data)

	return c.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketResponses)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), value)
	})
}

// Clear removes every cached response
func (c *BoltCache) Clear() error {
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketResponses); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketResponses)
		return err
	})
}

// Close closes the underlying database
func (c *BoltCache) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
