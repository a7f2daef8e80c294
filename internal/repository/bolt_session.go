package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/atinyakov/yosso/internal/models"
)

// SaveSession stores a session record keyed by its ID.
func (s *BoltStore) SaveSession(ctx context.Context, session *models.Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Put([]byte(session.ID), raw)
	})
}

// GetSession retrieves the session with the given ID.
// Returns ErrSessionNotFound if no record exists.
func (s *BoltStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session

	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketSessions).Get([]byte(id))
		if raw == nil {
			return ErrSessionNotFound
		}
		if err := json.Unmarshal(raw, &session); err != nil {
			return fmt.Errorf("decode session record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// DeleteSession removes the session with the given ID. Deleting an unknown
// session is not an error; logout is idempotent.
func (s *BoltStore) DeleteSession(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketSessions).Delete([]byte(id))
	})
}

// DeleteExpiredSessions removes every session whose expiry is at or before
// now and returns how many were removed.
func (s *BoltStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	removed := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketSessions)

		var stale [][]byte
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var rec models.Session
			if err := json.Unmarshal(v, &rec); err != nil || !rec.ExpiresAt.After(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}
