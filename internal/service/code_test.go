package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/yosso/internal/repository"
)

type codeEntry struct {
	username  string
	expiresAt time.Time
}

// fakeCodeRepo implements CodeRepository in memory, honoring the now
// arguments so tests control time without sleeping.
type fakeCodeRepo struct {
	codes      map[string]codeEntry
	collisions int
	inserts    int
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: make(map[string]codeEntry)}
}

func (f *fakeCodeRepo) InsertCode(ctx context.Context, code, username string, expiresAt, now time.Time) error {
	f.inserts++
	if f.collisions > 0 {
		f.collisions--
		return repository.ErrCodeExists
	}
	for k, v := range f.codes {
		if !v.expiresAt.After(now) {
			delete(f.codes, k)
		}
	}
	if _, ok := f.codes[code]; ok {
		return repository.ErrCodeExists
	}
	f.codes[code] = codeEntry{username: username, expiresAt: expiresAt}
	return nil
}

func (f *fakeCodeRepo) ConsumeCode(ctx context.Context, code string, now time.Time) (string, error) {
	entry, ok := f.codes[code]
	if !ok || !entry.expiresAt.After(now) {
		return "", repository.ErrCodeInvalid
	}
	delete(f.codes, code)
	return entry.username, nil
}

func newTestCodeService(repo CodeRepository, now time.Time) *CodeService {
	svc := NewCodeService(repo)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCodeIssue_SetsTTL(t *testing.T) {
	repo := newFakeCodeRepo()
	now := time.Unix(1_700_000_000, 0)
	svc := newTestCodeService(repo, now)

	code, err := svc.Issue(context.Background(), "alice")
	require.NoError(t, err)

	// 16 random bytes, hex-encoded.
	assert.Len(t, code, 32)

	entry, ok := repo.codes[code]
	require.True(t, ok)
	assert.Equal(t, "alice", entry.username)
	assert.True(t, entry.expiresAt.Equal(now.Add(CodeTTL)))
}

func TestCodeIssue_RetriesOnCollision(t *testing.T) {
	repo := newFakeCodeRepo()
	repo.collisions = 2
	svc := newTestCodeService(repo, time.Unix(1_700_000_000, 0))

	code, err := svc.Issue(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.Equal(t, 3, repo.inserts)
}

func TestCodeIssue_GivesUpEventually(t *testing.T) {
	repo := newFakeCodeRepo()
	repo.collisions = maxIssueAttempts
	svc := newTestCodeService(repo, time.Unix(1_700_000_000, 0))

	_, err := svc.Issue(context.Background(), "alice")
	assert.Error(t, err)
}

func TestCodeRedeem_SingleUse(t *testing.T) {
	repo := newFakeCodeRepo()
	now := time.Unix(1_700_000_000, 0)
	svc := newTestCodeService(repo, now)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "alice")
	require.NoError(t, err)

	username, err := svc.Redeem(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	_, err = svc.Redeem(ctx, code)
	assert.ErrorIs(t, err, repository.ErrCodeInvalid)
}

func TestCodeRedeem_Expired(t *testing.T) {
	repo := newFakeCodeRepo()
	issued := time.Unix(1_700_000_000, 0)
	svc := newTestCodeService(repo, issued)
	ctx := context.Background()

	code, err := svc.Issue(ctx, "alice")
	require.NoError(t, err)

	// Just inside the window.
	svc.now = func() time.Time { return issued.Add(CodeTTL - time.Second) }
	username, err := svc.Redeem(ctx, code)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	// A second code left unredeemed past its TTL.
	svc.now = func() time.Time { return issued }
	code, err = svc.Issue(ctx, "alice")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(CodeTTL + time.Second) }
	_, err = svc.Redeem(ctx, code)
	assert.ErrorIs(t, err, repository.ErrCodeInvalid)
}

func TestCodeRedeem_EmptyCode(t *testing.T) {
	svc := newTestCodeService(newFakeCodeRepo(), time.Now())

	_, err := svc.Redeem(context.Background(), "")
	assert.ErrorIs(t, err, repository.ErrCodeInvalid)
}
