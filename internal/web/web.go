// Package web holds the embedded HTML templates and static assets for the
// login and change-password pages.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// Templates contains the parsed page templates, keyed by file name.
var Templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Assets returns the static asset tree rooted at assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
