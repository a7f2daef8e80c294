package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PostgresCodeRepository implements the authorization-code store on a
// PostgreSQL database.
type PostgresCodeRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresCodeRepository creates a new PostgresCodeRepository with the
// given database connection.
func NewPostgresCodeRepository(db *sql.DB) *PostgresCodeRepository {
	return &PostgresCodeRepository{DB: db}
}

// InsertCode stores a fresh authorization code for username, sweeping
// already-expired entries in the same transaction. Returns ErrCodeExists
// on a key collision with a live entry.
func (r *PostgresCodeRepository) InsertCode(ctx context.Context, code, username string, expiresAt, now time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`DELETE FROM codes WHERE expires_at <= $1`,
		now.Unix(),
	); err != nil {
		return err
	}

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO codes (code, username, expires_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		code, username, expiresAt.Unix(),
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCodeExists
	}

	return tx.Commit()
}

// ConsumeCode redeems code in a single atomic statement: the row is deleted
// and the username returned only when the entry is still live. Unknown and
// expired codes both yield ErrCodeInvalid.
func (r *PostgresCodeRepository) ConsumeCode(ctx context.Context, code string, now time.Time) (string, error) {
	var username string
	err := r.DB.QueryRowContext(
		ctx,
		`DELETE FROM codes WHERE code = $1 AND expires_at > $2 RETURNING username`,
		code, now.Unix(),
	).Scan(&username)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrCodeInvalid
	}
	if err != nil {
		return "", err
	}
	return username, nil
}
