// Package models defines the core data structures for users, authorization
// codes and sessions.
package models

import "time"

// User represents a registered account in the credential store.
type User struct {
	// Username is the unique, case-sensitive login name.
	Username string `json:"username"`
	// PasswordHash is the argon2id hash of the user's password,
	// encoded as a PHC string. Plaintext is never stored.
	PasswordHash string `json:"password"`
	// Name is the display name shown on the login page.
	// Defaults to Username when empty at registration time.
	Name string `json:"name"`
}

// AuthCode is a short-lived, single-use bearer token minted at login time
// and exchanged by a relying application for the owner's identity.
type AuthCode struct {
	// Username is the account the code was issued for.
	Username string `json:"username"`
	// ExpiresAt is the expiry timestamp in epoch seconds.
	ExpiresAt int64 `json:"expires_at"`
}

// Session represents a server-side login session keyed by an opaque
// identifier carried in a cookie.
type Session struct {
	// ID is the opaque session identifier.
	ID string `json:"id"`
	// Username is the authenticated account the session belongs to.
	Username string `json:"username"`
	// CreatedAt is when the session was established.
	CreatedAt time.Time `json:"created_at"`
	// ExpiresAt is when the session stops being honored.
	ExpiresAt time.Time `json:"expires_at"`
}

// Branding holds the small system configuration rendered into the
// login and password pages.
type Branding struct {
	// SystemName is the product name shown in page titles and the logo.
	SystemName string `json:"system_name"`
	// TargetEnv identifies the deployment environment ("dev", "prod", ...).
	TargetEnv string `json:"target_env"`
	// BaseColor is an optional accent color override.
	BaseColor string `json:"base_color,omitempty"`
}
