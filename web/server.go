// Package web serves the Ivoire Ciné pages: movie listings, search,
// filtering and movie details rendered from the TMDB catalogue.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/NomelN/Ivoire-cine/filter"
	"github.com/NomelN/Ivoire-cine/radarr"
	"github.com/NomelN/Ivoire-cine/tmdb"
	"github.com/NomelN/Ivoire-cine/validate"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var embeddedStatic embed.FS

// DefaultImageBaseURL serves w500 posters
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500"

// gzipMinSize is the smallest response worth compressing
const gzipMinSize = 1024

// pages are the page templates, each parsed together with base.html
var pages = []string{"movies", "search", "discover", "movie", "error"}

// Server renders the site
type Server struct {
	catalog      tmdb.Catalog
	library      radarr.Library
	compiler     filter.Compiler
	limits       validate.Limits
	imageBaseURL string
	staticDir    string
	minified     bool
	logger       zerolog.Logger

	static    fs.FS
	templates map[string]*template.Template
	handler   http.Handler
}

// Option configures a Server
type Option func(*Server)

// WithLibrary shows Radarr library status on movie pages
func WithLibrary(library radarr.Library) Option {
	return func(s *Server) {
		s.library = library
	}
}

// WithCompiler replaces the default expr filter compiler
func WithCompiler(compiler filter.Compiler) Option {
	return func(s *Server) {
		s.compiler = compiler
	}
}

// WithLimits sets the bounds applied to query parameters
func WithLimits(limits validate.Limits) Option {
	return func(s *Server) {
		s.limits = limits
	}
}

// WithImageBaseURL sets the prefix of poster URLs
func WithImageBaseURL(url string) Option {
	return func(s *Server) {
		if url != "" {
			s.imageBaseURL = url
		}
	}
}

// WithStaticDir serves static files from disk instead of the embedded copy
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithMinifiedAssets links .min.css and .min.js files when they exist
func WithMinifiedAssets(enabled bool) Option {
	return func(s *Server) {
		s.minified = enabled
	}
}

// NewServer builds the site handler around a catalogue
func NewServer(catalog tmdb.Catalog, logger zerolog.Logger, opts ...Option) (*Server, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	s := &Server{
		catalog:      catalog,
		limits:       validate.DefaultLimits,
		imageBaseURL: DefaultImageBaseURL,
		logger:       logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.compiler == nil {
		s.compiler = filter.NewExprCompiler(filter.WithCache(64), filter.WithLogger(logger))
	}

	if s.staticDir != "" {
		info, err := os.Stat(s.staticDir)
		if err != nil {
			return nil, fmt.Errorf("static directory: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("static directory: %s is not a directory", s.staticDir)
		}
		s.static = os.DirFS(s.staticDir)
	} else {
		sub, err := fs.Sub(embeddedStatic, "static")
		if err != nil {
			return nil, fmt.Errorf("embedded static files: %w", err)
		}
		s.static = sub
	}

	if err := s.parseTemplates(); err != nil {
		return nil, err
	}

	handler, err := s.buildHandler()
	if err != nil {
		return nil, err
	}
	s.handler = handler

	return s, nil
}

// Handler returns the root HTTP handler with middleware applied
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) parseTemplates() error {
	funcs := s.templateFuncs()
	s.templates = make(map[string]*template.Template, len(pages))

	for _, name := range pages {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		s.templates[name] = tmpl
	}

	return nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("GET /genre/{id}", s.handleGenre)
	mux.HandleFunc("GET /category/{name}", s.handleCategory)
	mux.HandleFunc("GET /discover", s.handleDiscover)
	mux.HandleFunc("GET /movie/{id}", s.handleMovie)
	mux.Handle("GET /static/", s.staticHandler())
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

func (s *Server) buildHandler() (http.Handler, error) {
	gzip, err := gzhttp.NewWrapper(gzhttp.MinSize(gzipMinSize))
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip wrapper: %w", err)
	}

	var h http.Handler = s.routes()
	h = gzip(h)
	h = s.recoverer(h)
	h = hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		event := hlog.FromRequest(r).Info()
		if status >= http.StatusInternalServerError {
			event = hlog.FromRequest(r).Error()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("Request handled")
	})(h)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	h = hlog.NewHandler(s.logger)(h)

	return h, nil
}
