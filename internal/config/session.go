package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const (
	// DefaultSessionCookie is the cookie name carrying the session ID.
	DefaultSessionCookie = "yosso_session"
	// DefaultSessionLifetime applies when the session config omits one.
	DefaultSessionLifetime = 24 * time.Hour
)

// SessionConfig is the shared session configuration provisioned by the
// setup tool. Applications behind the broker rely on the same values, so
// the file lives in the data directory rather than in code.
type SessionConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string `json:"cookie_name"`
	// LifetimeSeconds is the session lifetime in seconds.
	LifetimeSeconds int `json:"lifetime_seconds"`
}

// Lifetime returns the configured session lifetime as a duration.
func (c *SessionConfig) Lifetime() time.Duration {
	return time.Duration(c.LifetimeSeconds) * time.Second
}

// LoadSession reads the session configuration from the JSON file at path.
// A missing file yields defaults; a malformed one is an error. Missing
// fields fall back to defaults.
func LoadSession(path string) (*SessionConfig, error) {
	cfg := &SessionConfig{
		CookieName:      DefaultSessionCookie,
		LifetimeSeconds: int(DefaultSessionLifetime / time.Second),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse session config: %w", err)
	}

	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}
	if cfg.LifetimeSeconds <= 0 {
		cfg.LifetimeSeconds = int(DefaultSessionLifetime / time.Second)
	}

	return cfg, nil
}
