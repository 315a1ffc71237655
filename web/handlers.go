package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/sync/errgroup"

	"github.com/NomelN/Ivoire-cine/filter"
	"github.com/NomelN/Ivoire-cine/radarr"
	"github.com/NomelN/Ivoire-cine/tmdb"
	"github.com/NomelN/Ivoire-cine/validate"
)

// User facing messages
const (
	msgNotFound      = "Page non trouvée"
	msgMovieNotFound = "Film non trouvé"
	msgInternal      = "Une erreur inattendue s'est produite"
)

// withGenres runs the page fetches next to the genre lookup used by the
// navigation. A failed genre lookup leaves the menu empty; the first failed
// page fetch is returned.
func (s *Server) withGenres(ctx context.Context, fetches ...func(context.Context) error) (*tmdb.GenreList, error) {
	var (
		g      errgroup.Group
		genres *tmdb.GenreList
	)

	g.Go(func() error {
		list, err := s.catalog.Genres(ctx)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("Failed to load genres for navigation")
			return nil
		}
		genres = list
		return nil
	})

	for _, fetch := range fetches {
		g.Go(func() error {
			return fetch(ctx)
		})
	}

	err := g.Wait()
	return genres, err
}

// upstreamError renders the message for a failed catalogue call. Upstream
// failures are shown with status 200, except for missing movies.
func (s *Server) upstreamError(w http.ResponseWriter, r *http.Request, v *view, err error) {
	hlog.FromRequest(r).Warn().Err(err).Msg("Catalogue request failed")

	v.Title = "Erreur"
	v.Error = tmdb.Message(err)
	s.render(w, r, http.StatusOK, "error", v)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	genres, _ := s.withGenres(r.Context())
	v := s.newView("Erreur", genres)
	v.Error = message
	s.render(w, r, status, "error", v)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	hlog.FromRequest(r).Warn().Str("path", r.URL.Path).Msg("Page not found")
	s.renderError(w, r, http.StatusNotFound, msgNotFound)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page := s.limits.Page(r.URL.Query().Get("page"))

	var movies *tmdb.MoviePage
	genres, err := s.withGenres(r.Context(), func(ctx context.Context) (err error) {
		movies, err = s.catalog.Popular(ctx, page)
		return err
	})

	v := s.newView("Films populaires", genres)
	if err != nil {
		s.upstreamError(w, r, v, err)
		return
	}

	v.Movies = movies.Results
	v.TotalResults = movies.TotalResults
	v.Pagination = newPagination("/", nil, page, movies.TotalPages, s.limits.MaxPage)
	s.render(w, r, http.StatusOK, "movies", v)
}

// refinements reads the optional year / min_rating / genre_id / sort_by
// parameters. Invalid values are dropped.
func (s *Server) refinements(q url.Values) (filter.Criteria, string) {
	var criteria filter.Criteria
	if year, ok := validate.Year(q.Get("year")); ok {
		criteria.Year = year
	}
	if rating, ok := validate.MinRating(q.Get("min_rating")); ok {
		criteria.MinRating = rating
		criteria.HasMinRating = true
	}
	if genreID, ok := s.limits.GenreID(q.Get("genre_id")); ok {
		criteria.GenreID = genreID
	}
	sortBy, _ := validate.SortBy(q.Get("sort_by"))
	return criteria, sortBy
}

func newFilterForm(action string, criteria filter.Criteria, sortBy string, genres []tmdb.Genre) *filterForm {
	form := &filterForm{
		Action:      action,
		Hidden:      map[string]string{},
		ShowGenres:  len(genres) > 0,
		Genres:      genres,
		GenreID:     criteria.GenreID,
		SortBy:      sortBy,
		SortOptions: validate.SortOptions,
	}
	if criteria.Year > 0 {
		form.Year = strconv.Itoa(criteria.Year)
	}
	if criteria.HasMinRating {
		form.MinRating = strconv.FormatFloat(criteria.MinRating, 'f', -1, 64)
	}
	return form
}

// refinedQuery keeps only the parameters that survived validation
func refinedQuery(base url.Values, criteria filter.Criteria, sortBy string) url.Values {
	q := url.Values{}
	for key, values := range base {
		q[key] = values
	}
	if criteria.Year > 0 {
		q.Set("year", strconv.Itoa(criteria.Year))
	}
	if criteria.HasMinRating {
		q.Set("min_rating", strconv.FormatFloat(criteria.MinRating, 'f', -1, 64))
	}
	if criteria.GenreID > 0 {
		q.Set("genre_id", strconv.Itoa(criteria.GenreID))
	}
	if sortBy != "" {
		q.Set("sort_by", sortBy)
	}
	return q
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	raw := q.Get("query")

	query, ok := s.limits.Query(raw)
	if !ok {
		genres, _ := s.withGenres(r.Context())
		v := s.newView("Recherche", genres)
		v.Query = strings.TrimSpace(raw)
		s.render(w, r, http.StatusOK, "search", v)
		return
	}

	page := s.limits.Page(q.Get("page"))
	criteria, sortBy := s.refinements(q)

	var results *tmdb.MoviePage
	genres, err := s.withGenres(r.Context(), func(ctx context.Context) (err error) {
		results, err = s.catalog.Search(ctx, query, page)
		return err
	})

	v := s.newView("Recherche : "+query, genres)
	v.Query = query
	if err != nil {
		s.upstreamError(w, r, v, err)
		return
	}

	movies, err := filter.ApplyCriteria(s.compiler, criteria, results.Results)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to filter search results")
		s.renderError(w, r, http.StatusInternalServerError, msgInternal)
		return
	}

	v.Movies = filter.Sort(movies, sortBy)
	v.TotalResults = results.TotalResults
	v.Pagination = newPagination("/search", refinedQuery(url.Values{"query": {query}}, criteria, sortBy),
		page, results.TotalPages, s.limits.MaxPage)
	v.Filters = newFilterForm("/search", criteria, sortBy, v.Genres)
	v.Filters.Hidden["query"] = query
	s.render(w, r, http.StatusOK, "search", v)
}

func (s *Server) handleGenre(w http.ResponseWriter, r *http.Request) {
	genreID, ok := s.limits.GenreID(r.PathValue("id"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	page := s.limits.Page(r.URL.Query().Get("page"))

	var movies *tmdb.MoviePage
	genres, err := s.withGenres(r.Context(), func(ctx context.Context) (err error) {
		movies, err = s.catalog.DiscoverByGenre(ctx, genreID, page)
		return err
	})

	name := genres.Name(genreID)
	v := s.newView("Films : "+name, genres)
	if err != nil {
		s.upstreamError(w, r, v, err)
		return
	}

	v.Movies = movies.Results
	v.TotalResults = movies.TotalResults
	v.Pagination = newPagination("/genre/"+strconv.Itoa(genreID), nil, page, movies.TotalPages, s.limits.MaxPage)
	s.render(w, r, http.StatusOK, "movies", v)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := validate.ParseCategory(r.PathValue("name"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	page := s.limits.Page(r.URL.Query().Get("page"))

	var movies *tmdb.MoviePage
	genres, err := s.withGenres(r.Context(), func(ctx context.Context) (err error) {
		movies, err = s.catalog.Category(ctx, string(category), page)
		return err
	})

	v := s.newView("Films "+category.Label(), genres)
	if err != nil {
		s.upstreamError(w, r, v, err)
		return
	}

	v.Movies = movies.Results
	v.TotalResults = movies.TotalResults
	v.Pagination = newPagination("/category/"+string(category), nil, page, movies.TotalPages, s.limits.MaxPage)
	s.render(w, r, http.StatusOK, "movies", v)
}

func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria, sortBy := s.refinements(q)

	opts := tmdb.DiscoverOptions{
		GenreID:      criteria.GenreID,
		Year:         criteria.Year,
		MinRating:    criteria.MinRating,
		HasMinRating: criteria.HasMinRating,
		SortBy:       sortBy,
		Page:         s.limits.Page(q.Get("page")),
	}

	var movies *tmdb.MoviePage
	genres, err := s.withGenres(r.Context(), func(ctx context.Context) (err error) {
		movies, err = s.catalog.Discover(ctx, opts)
		return err
	})

	title := "Découvrir"
	if opts.GenreID > 0 {
		title += " : " + genres.Name(opts.GenreID)
	}
	v := s.newView(title, genres)
	if err != nil {
		s.upstreamError(w, r, v, err)
		return
	}

	v.Movies = movies.Results
	v.TotalResults = movies.TotalResults
	v.Pagination = newPagination("/discover", refinedQuery(nil, criteria, sortBy), opts.Page, movies.TotalPages, s.limits.MaxPage)
	v.Filters = newFilterForm("/discover", criteria, sortBy, v.Genres)
	v.Filters.ShowGenres = true
	s.render(w, r, http.StatusOK, "discover", v)
}

func (s *Server) handleMovie(w http.ResponseWriter, r *http.Request) {
	movieID, ok := validate.MovieID(r.PathValue("id"))
	if !ok {
		s.handleNotFound(w, r)
		return
	}

	var (
		details *tmdb.MovieDetails
		library *radarr.LibraryStatus
	)
	genres, err := s.withGenres(r.Context(),
		func(ctx context.Context) (err error) {
			details, err = s.catalog.MovieDetails(ctx, movieID)
			return err
		},
		func(ctx context.Context) error {
			if s.library == nil {
				return nil
			}
			status, err := s.library.LibraryStatus(ctx, movieID)
			if err != nil {
				hlog.FromRequest(r).Warn().Err(err).Int64("tmdb_id", movieID).Msg("Failed to check Radarr library")
				return nil
			}
			library = status
			return nil
		},
	)

	if errors.Is(err, tmdb.ErrNotFound) {
		hlog.FromRequest(r).Warn().Int64("tmdb_id", movieID).Msg("Movie not found")
		v := s.newView("Erreur", genres)
		v.Error = msgMovieNotFound
		s.render(w, r, http.StatusNotFound, "error", v)
		return
	}

	v := s.newView("", genres)
	if err != nil {
		s.upstreamError(w, r, v, err)
		return
	}

	v.Title = details.Title
	v.Heading = details.Title
	v.Details = details
	v.Library = library
	s.render(w, r, http.StatusOK, "movie", v)
}
