package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/atinyakov/yosso/internal/models"
)

// GetUser retrieves the user record for the given username.
// Returns ErrUserNotFound if no record exists.
func (s *BoltStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(bucketUsers).Get([]byte(username))
		if raw == nil {
			return ErrUserNotFound
		}
		if err := json.Unmarshal(raw, &user); err != nil {
			return fmt.Errorf("decode user record: %w", err)
		}
		if user.PasswordHash == "" {
			return fmt.Errorf("malformed user record for %q: missing password hash", username)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	user.Username = username
	return &user, nil
}

// UpsertUser creates or overwrites the record for user.Username.
func (s *BoltStore) UpsertUser(ctx context.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketUsers).Put([]byte(user.Username), raw)
	})
}

// UpdatePassword replaces the stored password hash for username.
// Returns ErrUserNotFound if no record exists. The read-modify-write runs
// inside a single transaction.
func (s *BoltStore) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketUsers)

		raw := b.Get([]byte(username))
		if raw == nil {
			return ErrUserNotFound
		}

		var user models.User
		if err := json.Unmarshal(raw, &user); err != nil {
			return fmt.Errorf("decode user record: %w", err)
		}

		user.Username = username
		user.PasswordHash = passwordHash

		updated, err := json.Marshal(&user)
		if err != nil {
			return fmt.Errorf("encode user record: %w", err)
		}
		return b.Put([]byte(username), updated)
	})
}
