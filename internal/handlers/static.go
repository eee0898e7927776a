package handlers

import (
	"net/http"
	"path"
	"strings"
)

// StaticHandler serves a built dashboard frontend from a directory and
// falls back to index.html for client-side routes.
type StaticHandler struct {
	fileSystem http.FileSystem
}

// NewStaticHandler creates a static file handler rooted at dir
func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{fileSystem: http.Dir(dir)}
}

// ServeHTTP serves static files and handles SPA routing
func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + r.URL.Path)
	if name == "/" {
		name = "/index.html"
	}

	file, err := h.fileSystem.Open(name)
	if err != nil {
		if strings.HasPrefix(name, "/api/") {
			http.NotFound(w, r)
			return
		}
		name = "/index.html"
		file, err = h.fileSystem.Open(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if stat.IsDir() {
		http.NotFound(w, r)
		return
	}

	// ServeContent sniffs the type from the extension
	http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
}
