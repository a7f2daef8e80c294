package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/yosso/internal/middleware"
	"github.com/atinyakov/yosso/internal/web"
)

// NewRouter constructs and returns the HTTP handler for the broker.
// It applies panic recovery and request logging, and mounts the login
// page, the session-guarded change-password page, the relying-party
// validation endpoint and the static assets.
//
// Routes:
//
//	GET/POST /                 → login.Login (also handles ?logout=1)
//	GET/POST /change-password  → passwordHandler.ChangePassword (session required)
//	GET/POST /validate         → validate.Validate
//	GET      /assets/*         → embedded static files
func NewRouter(
	login *LoginHandler,
	passwordHandler *ChangePasswordHandler,
	validate *ValidateHandler,
	sessions middleware.SessionValidator,
	cookieName string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Convert panics into 500s before anything else runs
	r.Use(middleware.Recovery(logger))
	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/", login.Login)
	r.Post("/", login.Login)

	r.Get("/validate", validate.Validate)
	r.Post("/validate", validate.Validate)

	// Protected group: requires an authenticated session
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionAuth(sessions, cookieName))
		r.Get("/change-password", passwordHandler.ChangePassword)
		r.Post("/change-password", passwordHandler.ChangePassword)
	})

	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(web.Assets()))))

	return r
}
