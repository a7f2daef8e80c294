package repository

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that no user record exists for the username.
	ErrUserNotFound = errors.New("user not found")

	// ErrCodeInvalid indicates that an authorization code is unknown,
	// already redeemed or expired. Callers are deliberately not told which.
	ErrCodeInvalid = errors.New("invalid or expired code")

	// ErrCodeExists indicates an insert collided with a live code.
	// Callers should regenerate and retry.
	ErrCodeExists = errors.New("code already exists")

	// ErrSessionNotFound indicates that the session is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
)
