package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/atinyakov/yosso/internal/models"
)

func setupSessionMock(t *testing.T) (*PostgresSessionRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresSessionRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func TestPostgresSaveSession(t *testing.T) {
	repo, mock, cleanup := setupSessionMock(t)
	defer cleanup()

	created := time.Unix(1_700_000_000, 0)
	session := &models.Session{
		ID:        "sess-1",
		Username:  "alice",
		CreatedAt: created,
		ExpiresAt: created.Add(24 * time.Hour),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO sessions (id, username, created_at, expires_at) VALUES ($1, $2, $3, $4)`)).
		WithArgs("sess-1", "alice", created.Unix(), created.Add(24*time.Hour).Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.SaveSession(context.Background(), session); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresGetSession(t *testing.T) {
	repo, mock, cleanup := setupSessionMock(t)
	defer cleanup()

	created := time.Unix(1_700_000_000, 0)
	expires := created.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username, created_at, expires_at FROM sessions WHERE id = $1`)).
		WithArgs("sess-1").
		WillReturnRows(sqlmock.NewRows([]string{"username", "created_at", "expires_at"}).
			AddRow("alice", created.Unix(), expires.Unix()))

	session, err := repo.GetSession(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.Username != "alice" {
		t.Errorf("expected alice, got %q", session.Username)
	}
	if !session.ExpiresAt.Equal(expires) {
		t.Errorf("expected expiry %v, got %v", expires, session.ExpiresAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresGetSession_NotFound(t *testing.T) {
	repo, mock, cleanup := setupSessionMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT username, created_at, expires_at FROM sessions WHERE id = $1`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"username", "created_at", "expires_at"}))

	_, err := repo.GetSession(context.Background(), "missing")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresDeleteExpiredSessions(t *testing.T) {
	repo, mock, cleanup := setupSessionMock(t)
	defer cleanup()

	now := time.Unix(1_700_000_000, 0)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM sessions WHERE expires_at <= $1`)).
		WithArgs(now.Unix()).
		WillReturnResult(sqlmock.NewResult(0, 4))

	removed, err := repo.DeleteExpiredSessions(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 4 {
		t.Errorf("expected 4 removed, got %d", removed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}
