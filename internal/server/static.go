package server

import (
	"net/http"
	"os"
	"path/filepath"
)

// handleDataset serves the catalog GeoJSON untouched so the client can draw
// the country shapes.
func handleDataset(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if path == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		http.ServeFile(w, r, path)
	}
}

// handleSPA serves static files from dir, falling back to index.html
// for any path that doesn't match a real file.
func handleSPA(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
