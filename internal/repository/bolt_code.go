package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/atinyakov/yosso/internal/models"
)

// InsertCode stores a fresh authorization code for username, expiring at
// expiresAt. As a side effect it sweeps every entry already expired at now;
// the sweep never produces a caller-visible error of its own.
//
// Returns ErrCodeExists if the key collides with a live entry, so callers
// can regenerate rather than overwrite someone else's code.
func (s *BoltStore) InsertCode(ctx context.Context, code, username string, expiresAt, now time.Time) error {
	raw, err := json.Marshal(&models.AuthCode{Username: username, ExpiresAt: expiresAt.Unix()})
	if err != nil {
		return fmt.Errorf("encode code record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketCodes)

		// Lazy expiry sweep: issuing a code is the only moment stale
		// entries are purged.
		var stale [][]byte
		c := b.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var rec models.AuthCode
			if err := json.Unmarshal(v, &rec); err != nil || rec.ExpiresAt <= now.Unix() {
				stale = append(stale, append([]byte(nil), k...))
			}
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}

		if b.Get([]byte(code)) != nil {
			return ErrCodeExists
		}
		return b.Put([]byte(code), raw)
	})
}

// ConsumeCode atomically redeems code: if a live entry exists it is deleted
// and the owning username returned. Unknown, malformed and expired entries
// all yield ErrCodeInvalid; the check and the delete share one transaction,
// so concurrent redeemers of the same code see exactly one success.
func (s *BoltStore) ConsumeCode(ctx context.Context, code string, now time.Time) (string, error) {
	var username string

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketCodes)

		raw := b.Get([]byte(code))
		if raw == nil {
			return ErrCodeInvalid
		}

		var rec models.AuthCode
		if err := json.Unmarshal(raw, &rec); err != nil {
			return ErrCodeInvalid
		}
		if rec.ExpiresAt <= now.Unix() {
			// Expired entries behave exactly like absent ones; the
			// next issue sweeps them out.
			return ErrCodeInvalid
		}

		username = rec.Username
		return b.Delete([]byte(code))
	})
	if err != nil {
		return "", err
	}

	return username, nil
}
