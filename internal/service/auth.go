// Package service provides the credential, authorization-code and session
// business logic, delegating persistence to injected repositories.
package service

import (
	"context"
	"errors"

	"github.com/atinyakov/yosso/internal/models"
	"github.com/atinyakov/yosso/internal/password"
	"github.com/atinyakov/yosso/internal/repository"
)

// UserRepository defines the persistence operations required by the
// credential store.
type UserRepository interface {
	// GetUser retrieves the record for username.
	// Returns repository.ErrUserNotFound if no record exists.
	GetUser(ctx context.Context, username string) (*models.User, error)
	// UpsertUser creates or overwrites the record for user.Username.
	UpsertUser(ctx context.Context, user *models.User) error
	// UpdatePassword replaces the stored hash for username.
	// Returns repository.ErrUserNotFound if no record exists.
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}

// AuthService implements credential verification and maintenance on top of
// a UserRepository.
type AuthService struct {
	repo UserRepository
}

// NewAuthService constructs a new AuthService using the provided repository.
func NewAuthService(repo UserRepository) *AuthService {
	return &AuthService{repo: repo}
}

// dummyHash is compared against when the username is unknown, so the
// unknown-user path burns the same hashing cost as the known-user path and
// neither latency nor error shape reveals whether an account exists.
var dummyHash = func() string {
	h, err := password.Hash("yosso-dummy-credential")
	if err != nil {
		panic(err)
	}
	return h
}()

// Verify reports whether candidate matches the password stored for
// username. It fails closed: unknown usernames and wrong passwords both
// return false with no error.
func (s *AuthService) Verify(ctx context.Context, username, candidate string) (bool, error) {
	user, err := s.repo.GetUser(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		_, _ = password.Verify(candidate, dummyHash)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return password.Verify(candidate, user.PasswordHash)
}

// SetPassword replaces the stored hash for username with a hash of
// newPassword. Returns repository.ErrUserNotFound if the user is unknown.
// Password policy (minimum length and the like) is the caller's concern.
func (s *AuthService) SetPassword(ctx context.Context, username, newPassword string) error {
	hash, err := password.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, username, hash)
}

// Upsert creates or overwrites a user record with an already-computed
// password hash. Used by the administrative registration tool.
// An empty displayName defaults to the username.
func (s *AuthService) Upsert(ctx context.Context, username, passwordHash, displayName string) error {
	if displayName == "" {
		displayName = username
	}
	return s.repo.UpsertUser(ctx, &models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Name:         displayName,
	})
}

// UserExists reports whether a record exists for username.
func (s *AuthService) UserExists(ctx context.Context, username string) (bool, error) {
	_, err := s.repo.GetUser(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
