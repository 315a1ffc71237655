package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/hlog"

	"github.com/NomelN/Ivoire-cine/assets"
	"github.com/NomelN/Ivoire-cine/radarr"
	"github.com/NomelN/Ivoire-cine/tmdb"
	"github.com/NomelN/Ivoire-cine/validate"
)

const noPoster = "/static/img/no-poster.svg"

// view is the data handed to every page template
type view struct {
	Title          string
	Heading        string
	Query          string
	MaxQueryLength int
	Genres         []tmdb.Genre
	Categories     []validate.Category

	Movies       []tmdb.Movie
	TotalResults int
	Pagination   *pagination
	Filters      *filterForm

	Details *tmdb.MovieDetails
	Library *radarr.LibraryStatus

	Error string
}

func (s *Server) newView(title string, genres *tmdb.GenreList) *view {
	v := &view{
		Title:          title,
		Heading:        title,
		MaxQueryLength: s.limits.MaxQueryLength,
		Categories:     validate.Categories,
	}
	if genres != nil {
		v.Genres = genres.Genres
	}
	return v
}

// filterForm drives the year / rating / sort form shared by search and discover
type filterForm struct {
	Action      string
	Hidden      map[string]string
	ShowGenres  bool
	Genres      []tmdb.Genre
	GenreID     int
	Year        string
	MinRating   string
	SortBy      string
	SortOptions []validate.SortOption
}

// pagination links a listing to its neighbouring pages
type pagination struct {
	Page       int
	TotalPages int
	path       string
	query      url.Values
}

func newPagination(path string, query url.Values, page, totalPages, maxPage int) *pagination {
	totalPages = min(totalPages, maxPage)
	if totalPages < 1 {
		totalPages = 1
	}
	return &pagination{
		Page:       page,
		TotalPages: totalPages,
		path:       path,
		query:      query,
	}
}

func (p *pagination) HasPrev() bool { return p.Page > 1 }
func (p *pagination) HasNext() bool { return p.Page < p.TotalPages }
func (p *pagination) Prev() int     { return p.Page - 1 }
func (p *pagination) Next() int     { return p.Page + 1 }

// URL links to the given page, keeping the other query parameters
func (p *pagination) URL(page int) string {
	q := url.Values{}
	for key, values := range p.query {
		if key != "page" {
			q[key] = values
		}
	}
	q.Set("page", strconv.Itoa(page))
	return p.path + "?" + q.Encode()
}

func (s *Server) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"asset":   s.asset,
		"poster":  s.poster,
		"rating":  formatRating,
		"number":  formatNumber,
		"money":   formatMoney,
		"runtime": formatRuntime,
	}
}

// asset resolves a static path, preferring the minified copy when enabled
func (s *Server) asset(name string) string {
	if s.minified {
		if minName := assets.MinifiedName(name); minName != name {
			if _, err := fs.Stat(s.static, minName); err == nil {
				return "/static/" + minName
			}
		}
	}
	return "/static/" + name
}

func (s *Server) poster(path string) string {
	if path == "" {
		return noPoster
	}
	return s.imageBaseURL + path
}

func formatRating(v float64) string {
	return humanize.FormatFloat("#,#", v)
}

func formatNumber(n int) string {
	return humanize.FormatInteger("# ###,", n)
}

func formatMoney(n int64) string {
	return humanize.FormatInteger("# ###,", int(n)) + " $"
}

func formatRuntime(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%d h", minutes/60)
	}
	return fmt.Sprintf("%d h %02d min", minutes/60, minutes%60)
}

// render executes a page into a buffer so template failures never reach
// the client half-written.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, v *view) {
	tmpl, ok := s.templates[page]
	if !ok {
		hlog.FromRequest(r).Error().Str("template", page).Msg("Unknown template")
		s.renderFallback(w, http.StatusInternalServerError, msgInternal)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("template", page).Msg("Failed to render template")
		s.renderFallback(w, http.StatusInternalServerError, msgInternal)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderFallback writes a bare error page without templates
func (s *Server) renderFallback(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "<!DOCTYPE html><html lang=\"fr\"><head><meta charset=\"utf-8\"><title>Erreur - Ivoire Ciné</title></head><body><h1>Erreur</h1><p>%s</p><p><a href=\"/\">Retour à l'accueil</a></p></body></html>",
		validate.SanitizeForDisplay(message))
}
