package middleware

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const placeholderHTML = `<!doctype html><html><head><meta charset="utf-8"><title>Placement Desk</title></head><body><p>The web client is not installed. The API is served under <code>/api/v1</code>.</p></body></html>`

// StaticFileServer serves the single-page web client from dir. Unknown paths
// fall back to index.html so client-side routes survive a reload; without a
// build a placeholder page is returned.
func StaticFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))

		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			if strings.Contains(path, string(filepath.Separator)+"assets"+string(filepath.Separator)) {
				w.Header().Set("Cache-Control", "public, max-age=2592000")
			}
			http.ServeFile(w, r, path)
			return
		}

		index := filepath.Join(dir, "index.html")
		if _, err := os.Stat(index); err == nil {
			w.Header().Set("Cache-Control", "no-cache")
			http.ServeFile(w, r, index)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Write([]byte(placeholderHTML))
	})
}
