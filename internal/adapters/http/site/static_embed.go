package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// FS returns an http.FileSystem rooted at the embedded static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Expose the unrooted FS if the static directory is missing.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

func indexHTML() ([]byte, error) {
	return staticFS.ReadFile("static/index.html")
}
