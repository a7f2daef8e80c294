package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/atinyakov/yosso/internal/models"
)

// PostgresSessionRepository implements the session store on a PostgreSQL
// database.
type PostgresSessionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository with
// the given database connection.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{DB: db}
}

// SaveSession stores a session record keyed by its ID.
func (r *PostgresSessionRepository) SaveSession(ctx context.Context, session *models.Session) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO sessions (id, username, created_at, expires_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username, expires_at = EXCLUDED.expires_at`,
		session.ID, session.Username, session.CreatedAt.Unix(), session.ExpiresAt.Unix(),
	)
	return err
}

// GetSession retrieves the session with the given ID.
// Returns ErrSessionNotFound if no record exists.
func (r *PostgresSessionRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	session := &models.Session{ID: id}
	var createdAt, expiresAt int64

	err := r.DB.QueryRowContext(
		ctx,
		`SELECT username, created_at, expires_at FROM sessions WHERE id = $1`,
		id,
	).Scan(&session.Username, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	session.CreatedAt = time.Unix(createdAt, 0)
	session.ExpiresAt = time.Unix(expiresAt, 0)
	return session, nil
}

// DeleteSession removes the session with the given ID. Deleting an unknown
// session is not an error.
func (r *PostgresSessionRepository) DeleteSession(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

// DeleteExpiredSessions removes every session expired at now and returns
// how many were removed.
func (r *PostgresSessionRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.Unix())
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
