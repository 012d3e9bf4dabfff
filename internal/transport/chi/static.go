package chi

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// StaticHandler serves the single-page frontend from dir. Requests for
// existing asset files are served directly; /admin routes get the admin
// shell and everything else falls through to index.html so client-side
// routing works. Unmatched /api paths and traversal attempts are 404s.
func StaticHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(r.URL.Path, "/")

		if strings.Contains(p, "..") {
			http.NotFound(w, r)
			return
		}
		if strings.HasPrefix(p, "api/") || p == "api" {
			http.NotFound(w, r)
			return
		}

		switch {
		case p == "favicon.svg":
			http.ServeFile(w, r, filepath.Join(dir, "favicon.svg"))
		case p == "admin" || strings.HasPrefix(p, "admin/"):
			http.ServeFile(w, r, filepath.Join(dir, "admin.html"))
		case p != "" && fileExists(filepath.Join(dir, p)):
			http.ServeFile(w, r, filepath.Join(dir, p))
		default:
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
		}
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
