package http

import (
	"context"
	"time"

	"github.com/atinyakov/yosso/internal/models"
	"github.com/atinyakov/yosso/internal/repository"
)

// fakeAuthService implements AuthService for testing.
type fakeAuthService struct {
	verifyOK   bool
	verifyErr  error
	setErr     error
	setCalls   []string
	lastVerify [2]string
}

func (f *fakeAuthService) Verify(ctx context.Context, username, password string) (bool, error) {
	f.lastVerify = [2]string{username, password}
	return f.verifyOK, f.verifyErr
}

func (f *fakeAuthService) SetPassword(ctx context.Context, username, newPassword string) error {
	f.setCalls = append(f.setCalls, username+":"+newPassword)
	return f.setErr
}

// fakeCodeService implements CodeService for testing.
type fakeCodeService struct {
	code       string
	issueErr   error
	issuedFor  []string
	redeemUser string
	redeemErr  error
	redeemed   []string
}

func (f *fakeCodeService) Issue(ctx context.Context, username string) (string, error) {
	f.issuedFor = append(f.issuedFor, username)
	return f.code, f.issueErr
}

func (f *fakeCodeService) Redeem(ctx context.Context, code string) (string, error) {
	f.redeemed = append(f.redeemed, code)
	if f.redeemErr != nil {
		return "", f.redeemErr
	}
	return f.redeemUser, nil
}

// fakeSessionService implements SessionService (and the session-auth
// middleware's validator) for testing.
type fakeSessionService struct {
	sessions  map[string]*models.Session
	createErr error
	nextID    string
	destroyed []string
}

func newFakeSessionService() *fakeSessionService {
	return &fakeSessionService{sessions: make(map[string]*models.Session), nextID: "sess-1"}
}

func (f *fakeSessionService) Create(ctx context.Context, username string) (*models.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	session := &models.Session{
		ID:        f.nextID,
		Username:  username,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	f.sessions[session.ID] = session
	return session, nil
}

func (f *fakeSessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	return session, nil
}

func (f *fakeSessionService) Destroy(ctx context.Context, id string) error {
	f.destroyed = append(f.destroyed, id)
	delete(f.sessions, id)
	return nil
}

func testBranding() *models.Branding {
	return &models.Branding{SystemName: "yoSSO", TargetEnv: "dev"}
}
