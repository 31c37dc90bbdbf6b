package store

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var (
	boltBucket = []byte("session")
	boltKey    = []byte("token")
)

// Bolt persists the token in a bbolt database: single bucket, single key.
// Useful when the client already keeps other local state in bolt and wants
// one file instead of two.
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens (or creates) the database at path. The open times out
// rather than blocking forever on a file locked by another process.
func OpenBolt(path string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: open bolt db: %w", err)
	}
	return &Bolt{db: db}, nil
}

// Close releases the underlying database file.
func (b *Bolt) Close() error {
	return b.db.Close()
}

func (b *Bolt) Load(_ context.Context) (string, error) {
	var token string
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return nil
		}
		token = string(bucket.Get(boltKey))
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store: bolt load: %w", err)
	}
	return token, nil
}

func (b *Bolt) Save(_ context.Context, token string) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists(boltBucket)
		if err != nil {
			return err
		}
		return bucket.Put(boltKey, []byte(token))
	})
	if err != nil {
		return fmt.Errorf("store: bolt save: %w", err)
	}
	return nil
}

func (b *Bolt) Clear(_ context.Context) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(boltBucket)
		if bucket == nil {
			return nil
		}
		return bucket.Delete(boltKey)
	})
	if err != nil {
		return fmt.Errorf("store: bolt clear: %w", err)
	}
	return nil
}
