package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/atinyakov/yosso/internal/models"
)

// PostgresUserRepository implements the credential store on a PostgreSQL
// database. It is selected when the server is configured with a DSN.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// GetUser retrieves the user record for the given username.
// Returns ErrUserNotFound if no record exists.
func (r *PostgresUserRepository) GetUser(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{Username: username}
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT password, name FROM users WHERE username = $1`,
		username,
	).Scan(&user.PasswordHash, &user.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpsertUser creates or overwrites the record for user.Username.
func (r *PostgresUserRepository) UpsertUser(ctx context.Context, user *models.User) error {
	_, err := r.DB.ExecContext(
		ctx,
		`INSERT INTO users (username, password, name) VALUES ($1, $2, $3)
		 ON CONFLICT (username) DO UPDATE SET password = EXCLUDED.password, name = EXCLUDED.name`,
		user.Username, user.PasswordHash, user.Name,
	)
	return err
}

// UpdatePassword replaces the stored password hash for username.
// Returns ErrUserNotFound if no record exists.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	res, err := r.DB.ExecContext(
		ctx,
		`UPDATE users SET password = $1 WHERE username = $2`,
		passwordHash, username,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
