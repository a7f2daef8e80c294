package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/atinyakov/yosso/internal/repository"
)

const (
	// CodeTTL is the fixed validity window for authorization codes.
	CodeTTL = 5 * time.Minute

	// codeByteLength is the entropy of a code before hex encoding.
	codeByteLength = 16

	// maxIssueAttempts bounds regeneration under key collision. With
	// 128-bit codes a single retry is already astronomically unlikely.
	maxIssueAttempts = 5
)

// CodeRepository defines the persistence operations required by the
// authorization-code store.
type CodeRepository interface {
	// InsertCode stores code for username, sweeping expired entries as a
	// side effect. Returns repository.ErrCodeExists on collision with a
	// live entry.
	InsertCode(ctx context.Context, code, username string, expiresAt, now time.Time) error
	// ConsumeCode atomically deletes a live entry and returns its
	// username. Returns repository.ErrCodeInvalid otherwise.
	ConsumeCode(ctx context.Context, code string, now time.Time) (string, error)
}

// CodeService mints and redeems single-use authorization codes.
//
// A code moves through exactly one of two terminal transitions: redeemed
// before expiry, or expired. Either way it can never validate again.
type CodeService struct {
	repo CodeRepository
	now  func() time.Time
}

// NewCodeService constructs a new CodeService using the provided repository.
func NewCodeService(repo CodeRepository) *CodeService {
	return &CodeService{repo: repo, now: time.Now}
}

// Issue mints a fresh high-entropy code owned by username, valid for
// CodeTTL from now. Generation is retried if the code collides with a live
// entry, so an existing code is never silently overwritten.
func (s *CodeService) Issue(ctx context.Context, username string) (string, error) {
	now := s.now()

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		code, err := generateCode()
		if err != nil {
			return "", err
		}

		err = s.repo.InsertCode(ctx, code, username, now.Add(CodeTTL), now)
		if errors.Is(err, repository.ErrCodeExists) {
			continue
		}
		if err != nil {
			return "", err
		}
		return code, nil
	}

	return "", fmt.Errorf("failed to generate a unique code after %d attempts", maxIssueAttempts)
}

// Redeem exchanges a code for its owning username, deleting it in the same
// atomic step. Unknown, expired and already-redeemed codes all fail with
// repository.ErrCodeInvalid; callers cannot tell which.
func (s *CodeService) Redeem(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", repository.ErrCodeInvalid
	}
	return s.repo.ConsumeCode(ctx, code, s.now())
}

func generateCode() (string, error) {
	buf := make([]byte, codeByteLength)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
