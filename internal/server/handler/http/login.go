// Package http provides the HTTP handlers for the single-sign-on broker:
// the login page, the change-password page and the relying-party code
// validation endpoint.
package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/atinyakov/yosso/internal/models"
)

// AuthService defines the credential operations required by the HTTP
// handlers.
type AuthService interface {
	// Verify reports whether the password matches the stored credential.
	// Unknown usernames and wrong passwords are indistinguishable.
	Verify(ctx context.Context, username, password string) (bool, error)
	// SetPassword replaces the stored credential for username.
	SetPassword(ctx context.Context, username, newPassword string) error
}

// CodeService defines the authorization-code operations required by the
// HTTP handlers.
type CodeService interface {
	// Issue mints a fresh single-use code owned by username.
	Issue(ctx context.Context, username string) (string, error)
	// Redeem exchanges a live code for its owning username, consuming it.
	Redeem(ctx context.Context, code string) (string, error)
}

// SessionService defines the session operations required by the HTTP
// handlers.
type SessionService interface {
	Create(ctx context.Context, username string) (*models.Session, error)
	Get(ctx context.Context, id string) (*models.Session, error)
	Destroy(ctx context.Context, id string) error
}

// LoginHandler serves the login page and drives the authorization-code
// handoff to relying applications.
type LoginHandler struct {
	// Auth verifies submitted credentials.
	Auth AuthService
	// Codes mints authorization codes at login-success time.
	Codes CodeService
	// Sessions manages the server-side login sessions.
	Sessions SessionService
	// Branding is rendered into the page.
	Branding *models.Branding
	// CookieName is the session cookie name from the shared session config.
	CookieName string
	// CookieTTL caps the session cookie's Max-Age.
	CookieTTL time.Duration
}

type loginPageData struct {
	SystemName string
	TargetApp  string
	Error      string
	Username   string
	Query      string
	Branding   *models.Branding
}

// Login handles GET and POST requests for the login page.
//
// A GET with logout=1 destroys the current session. A POST checks the
// submitted credentials and establishes a session on success. Whenever a
// session is live and redirect_uri is present, a fresh authorization code
// is minted and the caller is redirected to the relying application with
// the code appended as a query parameter.
func (h *LoginHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	if q.Get("logout") != "" {
		if cookie, err := r.Cookie(h.CookieName); err == nil && cookie.Value != "" {
			_ = h.Sessions.Destroy(ctx, cookie.Value)
		}
		h.clearSessionCookie(w)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	data := &loginPageData{
		SystemName: h.Branding.SystemName,
		TargetApp:  q.Get("app_name"),
		Query:      q.Encode(),
		Branding:   h.Branding,
	}

	session := h.currentSession(r)

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		username := r.PostFormValue("username")
		ok, err := h.Auth.Verify(ctx, username, r.PostFormValue("password"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if ok {
			newSession, err := h.Sessions.Create(ctx, username)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			h.setSessionCookie(w, newSession.ID)
			session = newSession
		} else {
			// One generic message for unknown user and wrong
			// password alike.
			data.Error = "Invalid credentials"
		}
	}

	if session != nil {
		if redirectURI := q.Get("redirect_uri"); redirectURI != "" {
			code, err := h.Codes.Issue(ctx, session.Username)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}

			sep := "?"
			if strings.Contains(redirectURI, "?") {
				sep = "&"
			}
			http.Redirect(w, r, redirectURI+sep+"code="+url.QueryEscape(code), http.StatusFound)
			return
		}
		data.Username = session.Username
	}

	render(w, "login.html", data)
}

// currentSession resolves the session cookie to a live session, or nil.
func (h *LoginHandler) currentSession(r *http.Request) *models.Session {
	cookie, err := r.Cookie(h.CookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	session, err := h.Sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}
	return session
}

func (h *LoginHandler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(h.CookieTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *LoginHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
