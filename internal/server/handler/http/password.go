package http

import (
	"errors"
	"net/http"

	"github.com/atinyakov/yosso/internal/middleware"
	"github.com/atinyakov/yosso/internal/models"
	"github.com/atinyakov/yosso/internal/repository"
)

// minPasswordLength is the minimum accepted new-password length. The
// credential store itself enforces no policy; this flow does.
const minPasswordLength = 4

// ChangePasswordHandler serves the change-password page. It is mounted
// behind the session-auth middleware, so the authenticated username comes
// from the request context.
type ChangePasswordHandler struct {
	// Auth verifies the current password and stores the new one.
	Auth AuthService
	// Branding is rendered into the page.
	Branding *models.Branding
}

type passwordPageData struct {
	SystemName   string
	Message      string
	Error        string
	RedirectBack string
}

// ChangePassword handles GET and POST requests for the change-password
// page. The new password must match its confirmation and be at least
// minPasswordLength characters.
func (h *ChangePasswordHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	username := middleware.GetUserFromContext(ctx)
	if username == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	redirectBack := r.URL.Query().Get("redirect_uri")
	if redirectBack == "" {
		redirectBack = "/"
	}

	data := &passwordPageData{
		SystemName:   h.Branding.SystemName,
		RedirectBack: redirectBack,
	}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		current := r.PostFormValue("current_password")
		newPassword := r.PostFormValue("new_password")
		confirm := r.PostFormValue("confirm_password")

		ok, err := h.Auth.Verify(ctx, username, current)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		switch {
		case !ok:
			data.Error = "Current password is incorrect."
		case newPassword != confirm:
			data.Error = "New passwords do not match."
		case len(newPassword) < minPasswordLength:
			data.Error = "Password must be at least 4 characters."
		default:
			err := h.Auth.SetPassword(ctx, username, newPassword)
			if errors.Is(err, repository.ErrUserNotFound) {
				data.Error = "User not found."
			} else if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			} else {
				data.Message = "Password updated successfully."
			}
		}
	}

	render(w, "change_password.html", data)
}
