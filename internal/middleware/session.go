package middleware

import (
	"context"
	"net/http"

	"github.com/atinyakov/yosso/internal/models"
)

type ctxKey string

const userKey ctxKey = "user"

// SessionValidator resolves a session cookie value to a live session.
type SessionValidator interface {
	// Get returns the session for id, or an error when the session is
	// unknown or expired.
	Get(ctx context.Context, id string) (*models.Session, error)
}

// SessionAuth is a middleware that requires an authenticated session.
//
// It reads the session cookie named cookieName, resolves it through the
// validator, and stores the authenticated username in the request context.
// Requests without a valid session are redirected to the login page rather
// than rejected, since the guarded endpoints render HTML for browsers.
func SessionAuth(sessions SessionValidator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			session, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, session.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext extracts the authenticated username from the request
// context. Returns an empty string if not found.
func GetUserFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(userKey).(string); ok {
		return s
	}
	return ""
}
