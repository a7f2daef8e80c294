package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/yosso/internal/models"
	"github.com/atinyakov/yosso/internal/repository"
)

// SessionRepository defines the persistence operations required by the
// session store.
type SessionRepository interface {
	// SaveSession stores a session record keyed by its ID.
	SaveSession(ctx context.Context, session *models.Session) error
	// GetSession retrieves the session with the given ID.
	// Returns repository.ErrSessionNotFound if no record exists.
	GetSession(ctx context.Context, id string) (*models.Session, error)
	// DeleteSession removes the session with the given ID.
	DeleteSession(ctx context.Context, id string) error
	// DeleteExpiredSessions removes sessions expired at now and returns
	// how many were removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// SessionService manages server-side login sessions. The session cookie
// carries nothing but the opaque ID; the authenticated username lives here.
type SessionService struct {
	repo SessionRepository
	ttl  time.Duration
	now  func() time.Time
}

// NewSessionService constructs a new SessionService. ttl is the session
// lifetime applied at creation time.
func NewSessionService(repo SessionRepository, ttl time.Duration) *SessionService {
	return &SessionService{repo: repo, ttl: ttl, now: time.Now}
}

// Create establishes a new session for username and returns it.
func (s *SessionService) Create(ctx context.Context, username string) (*models.Session, error) {
	now := s.now()
	session := &models.Session{
		ID:        uuid.New().String(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.repo.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns the session with the given ID. Expired sessions are treated
// as unknown; the background cleaner removes them eventually.
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

// Destroy removes the session with the given ID. Destroying an unknown
// session is not an error.
func (s *SessionService) Destroy(ctx context.Context, id string) error {
	return s.repo.DeleteSession(ctx, id)
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}
