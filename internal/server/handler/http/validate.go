package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/atinyakov/yosso/internal/repository"
)

// ValidateHandler is the relying-party-facing endpoint that exchanges a
// one-time authorization code for the identity of the user who logged in.
type ValidateHandler struct {
	// Codes redeems authorization codes.
	Codes CodeService
}

// ValidateResponse is the JSON body returned by the validate endpoint.
// A relying application receiving Valid=true must treat Username as
// authenticated for that single exchange; the code is already consumed.
type ValidateResponse struct {
	Valid    bool   `json:"valid"`
	Username string `json:"username,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Validate handles GET and POST requests carrying a code in the query
// string, a form field or a JSON body.
func (h *ValidateHandler) Validate(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			var body struct {
				Code string `json:"code"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				code = body.Code
			}
		} else {
			code = r.PostFormValue("code")
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if code == "" {
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: false, Error: "No code provided"})
		return
	}

	username, err := h.Codes.Redeem(r.Context(), code)
	if errors.Is(err, repository.ErrCodeInvalid) {
		// Absent, expired and already-redeemed codes all land here.
		writeJSON(w, http.StatusOK, ValidateResponse{Valid: false, Error: "Invalid or expired code"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ValidateResponse{Valid: false, Error: "Server error"})
		return
	}

	writeJSON(w, http.StatusOK, ValidateResponse{Valid: true, Username: username})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
