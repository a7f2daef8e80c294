package http

import (
	"net/http"

	"github.com/atinyakov/yosso/internal/web"
)

// render executes the named page template. Template errors after the first
// byte cannot be unwritten; before that a generic 500 is returned.
func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := web.Templates.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
