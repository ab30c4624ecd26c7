package server

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rileyhilliard/dish/internal/logger"
)

// handler serves files and directory listings from a single root.
type handler struct {
	root string
	log  logger.Logger
}

func newHandler(root string, log logger.Logger) http.Handler {
	// Resolve the root once so the containment check in resolve compares
	// real paths (macOS tempdirs live behind a /var -> /private/var link).
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	return &handler{root: root, log: log}
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.log.Debug("%s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)

	// Tag the connection with what it is fetching as early as possible
	// so the dashboard can show the path while bytes are still flowing.
	tc, _ := TrackedFromContext(r.Context())
	if tc != nil {
		tc.SetPath(r.URL.Path)
	}

	cw := &countingWriter{ResponseWriter: w, conn: tc, method: r.Method}

	full, ok := h.resolve(r.URL.Path)
	if !ok {
		http.NotFound(cw, r)
		return
	}

	info, err := os.Stat(full)
	if err != nil {
		if os.IsNotExist(err) {
			h.log.Debug("not found: %s", r.URL.Path)
			http.NotFound(cw, r)
			return
		}
		h.log.Error("stat %s: %v", full, err)
		http.Error(cw, "internal server error", http.StatusInternalServerError)
		return
	}

	if info.IsDir() {
		h.serveListing(cw, r, full)
		return
	}

	h.serveFile(cw, r, full, info)
}

// resolve maps a URL path to a filesystem path under the root. Symlinks
// are resolved before the containment check, so a link inside the share
// pointing outside it comes back as not found instead of being served.
func (h *handler) resolve(urlPath string) (string, bool) {
	cleaned := path.Clean("/" + urlPath)
	full := filepath.Join(h.root, filepath.FromSlash(strings.TrimPrefix(cleaned, "/")))

	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", false
		}
		// The name does not exist yet; its parent still has to resolve
		// inside the share.
		parent, perr := filepath.EvalSymlinks(filepath.Dir(full))
		if perr != nil {
			return "", false
		}
		resolved = filepath.Join(parent, filepath.Base(full))
	}

	if resolved != h.root && !strings.HasPrefix(resolved, h.root+string(filepath.Separator)) {
		return "", false
	}
	return resolved, true
}

// serveFile streams a single file. Range requests, conditional requests,
// and content types are handled by http.ServeContent.
func (h *handler) serveFile(w http.ResponseWriter, r *http.Request, full string, info os.FileInfo) {
	f, err := os.Open(full)
	if err != nil {
		h.log.Error("open %s: %v", full, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	// ?download forces a save dialog instead of inline display.
	if r.URL.Query().Has("download") {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", info.Name()))
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// countingWriter credits the response's Content-Length to the connection
// as bytes requested, at the moment the header is committed. Only
// successful GET responses count; HEAD promises nothing and error bodies
// would skew progress.
type countingWriter struct {
	http.ResponseWriter
	conn        *TrackedConn
	method      string
	wroteHeader bool
}

func (w *countingWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		if w.conn != nil && w.method == http.MethodGet &&
			(code == http.StatusOK || code == http.StatusPartialContent) {
			if n, err := strconv.ParseInt(w.Header().Get("Content-Length"), 10, 64); err == nil && n > 0 {
				w.conn.AddRequested(n)
			}
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *countingWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}
