// Package repository provides persistence implementations for the yoSSO stores.
package repository

import (
	"fmt"

	"go.etcd.io/bbolt"
)

var (
	bucketUsers    = []byte("users")
	bucketCodes    = []byte("codes")
	bucketSessions = []byte("sessions")
)

// BoltStore implements the user, code and session repositories on top of a
// single bbolt file. Every mutation runs in one Update transaction, so
// writers are serialized and readers never observe partial writes.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore wraps an open bbolt database and ensures the required
// buckets exist. db must stay open for the lifetime of the store.
func NewBoltStore(db *bbolt.DB) (*BoltStore, error) {
	store := &BoltStore{db: db}

	err := db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketCodes, bucketSessions} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database file.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
