package web

import (
	"io/fs"
	"net/http"
	"path"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/rs/zerolog/hlog"
)

// Browser cache lifetimes for static files
const (
	maxAgeScripts = 86400  // 1 day for CSS and JS
	maxAgeImages  = 604800 // 1 week for images
)

// headerTracker notes whether the response header has gone out
type headerTracker struct {
	http.ResponseWriter
	wroteHeader bool
}

func (t *headerTracker) WriteHeader(code int) {
	t.wroteHeader = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *headerTracker) Write(b []byte) (int, error) {
	t.wroteHeader = true
	return t.ResponseWriter.Write(b)
}

func (t *headerTracker) Unwrap() http.ResponseWriter {
	return t.ResponseWriter
}

// recoverer turns handler panics into the 500 page. A response already
// under way is left as is and the panic is only logged.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		w := &headerTracker{ResponseWriter: rw}
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			hlog.FromRequest(r).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Bool("headers_sent", w.wroteHeader).
				Msg("Recovered from panic")
			if !w.wroteHeader {
				s.renderError(w, r, http.StatusInternalServerError, msgInternal)
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func cacheMaxAge(name string) int {
	switch strings.ToLower(path.Ext(name)) {
	case ".css", ".js":
		return maxAgeScripts
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico":
		return maxAgeImages
	default:
		return 0
	}
}

// staticHandler serves /static/ with cache headers. Directories and missing
// files get the regular 404 page.
func (s *Server) staticHandler() http.Handler {
	files := http.StripPrefix("/static/", http.FileServerFS(s.static))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info, err := fs.Stat(s.static, strings.TrimPrefix(r.URL.Path, "/static/"))
		if err != nil || info.IsDir() {
			s.handleNotFound(w, r)
			return
		}
		if maxAge := cacheMaxAge(r.URL.Path); maxAge > 0 {
			w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(maxAge))
		}
		files.ServeHTTP(w, r)
	})
}
