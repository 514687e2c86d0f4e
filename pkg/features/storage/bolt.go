package storage

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// BoltBackend persists keys in a bucket of a bbolt database. The database
// handle is owned by the backend; call Close when done.
type BoltBackend struct {
	db     *bolt.DB
	bucket []byte
}

// NewBoltBackend opens (or creates) the database at path and ensures the
// bucket exists.
func NewBoltBackend(path, bucket string) (*BoltBackend, error) {
	db, err := bolt.Open(path, 0666, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket %q: %w", bucket, err)
	}

	return &BoltBackend{db: db, bucket: []byte(bucket)}, nil
}

// GetValue returns the stored bytes for key, or (nil, nil) when absent.
func (b *BoltBackend) GetValue(_ context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		stored := tx.Bucket(b.bucket).Get([]byte(key))
		if stored != nil {
			// Bolt memory is only valid inside the transaction
			data = make([]byte, len(stored))
			copy(data, stored)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return data, nil
}

// SetValue stores data under key, removing the key when data is nil.
func (b *BoltBackend) SetValue(_ context.Context, key string, data []byte) error {
	err := b.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if data == nil {
			return bkt.Delete([]byte(key))
		}
		return bkt.Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to store %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (b *BoltBackend) Close() error {
	return b.db.Close()
}

var _ Backend = (*BoltBackend)(nil)
