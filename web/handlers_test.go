package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NomelN/Ivoire-cine/radarr"
	"github.com/NomelN/Ivoire-cine/tmdb"
)

// fakeCatalog records calls and returns canned payloads
type fakeCatalog struct {
	mu sync.Mutex

	page      *tmdb.MoviePage
	genres    *tmdb.GenreList
	details   *tmdb.MovieDetails
	err       error
	genresErr error

	calls        []string
	lastDiscover tmdb.DiscoverOptions
}

func (f *fakeCatalog) record(format string, args ...any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeCatalog) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCatalog) pageResult() (*tmdb.MoviePage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeCatalog) Popular(_ context.Context, page int) (*tmdb.MoviePage, error) {
	f.record("Popular(%d)", page)
	return f.pageResult()
}

func (f *fakeCatalog) Category(_ context.Context, category string, page int) (*tmdb.MoviePage, error) {
	f.record("Category(%s, %d)", category, page)
	return f.pageResult()
}

func (f *fakeCatalog) Search(_ context.Context, query string, page int) (*tmdb.MoviePage, error) {
	f.record("Search(%s, %d)", query, page)
	return f.pageResult()
}

func (f *fakeCatalog) Genres(context.Context) (*tmdb.GenreList, error) {
	if f.genresErr != nil {
		return nil, f.genresErr
	}
	return f.genres, nil
}

func (f *fakeCatalog) DiscoverByGenre(_ context.Context, genreID, page int) (*tmdb.MoviePage, error) {
	f.record("DiscoverByGenre(%d, %d)", genreID, page)
	return f.pageResult()
}

func (f *fakeCatalog) Discover(_ context.Context, opts tmdb.DiscoverOptions) (*tmdb.MoviePage, error) {
	f.record("Discover")
	f.mu.Lock()
	f.lastDiscover = opts
	f.mu.Unlock()
	return f.pageResult()
}

func (f *fakeCatalog) MovieDetails(_ context.Context, id int64) (*tmdb.MovieDetails, error) {
	f.record("MovieDetails(%d)", id)
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}


type fakeLibrary struct {
	status *radarr.LibraryStatus
	err    error
}

func (f *fakeLibrary) LibraryStatus(context.Context, int64) (*radarr.LibraryStatus, error) {
	return f.status, f.err
}

func newCatalog() *fakeCatalog {
	return &fakeCatalog{
		page: &tmdb.MoviePage{
			Page: 1,
			Results: []tmdb.Movie{{
				ID:          1,
				Title:       "Film Test",
				PosterPath:  "/test.jpg",
				ReleaseDate: "2023-01-01",
				VoteAverage: 8.5,
				Overview:    "Un film de test",
			}},
			TotalPages:   1,
			TotalResults: 1,
		},
		genres: &tmdb.GenreList{Genres: []tmdb.Genre{
			{ID: 28, Name: "Action"},
			{ID: 35, Name: "Comédie"},
			{ID: 18, Name: "Drame"},
		}},
	}
}

func newTestServer(t *testing.T, catalog tmdb.Catalog, opts ...Option) http.Handler {
	t.Helper()
	s, err := NewServer(catalog, zerolog.Nop(), opts...)
	require.NoError(t, err)
	return s.Handler()
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestNewServer_RequiresCatalog(t *testing.T) {
	_, err := NewServer(nil, zerolog.Nop())
	assert.Error(t, err)
}

func TestHome(t *testing.T) {
	tests := []struct {
		name     string
		target   string
		wantCall string
	}{
		{name: "default page", target: "/", wantCall: "Popular(1)"},
		{name: "page param", target: "/?page=2", wantCall: "Popular(2)"},
		{name: "invalid page", target: "/?page=abc", wantCall: "Popular(1)"},
		{name: "page above max", target: "/?page=2000", wantCall: "Popular(1000)"},
		{name: "page zero", target: "/?page=0", wantCall: "Popular(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newCatalog()
			rec := get(t, newTestServer(t, catalog), tt.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "Film Test")
			assert.Equal(t, []string{tt.wantCall}, catalog.Calls())
		})
	}
}

func TestHome_UpstreamError(t *testing.T) {
	catalog := newCatalog()
	catalog.err = &tmdb.RequestError{Endpoint: "movie/popular", StatusCode: 503, Kind: tmdb.ErrUnavailable}

	rec := get(t, newTestServer(t, catalog), "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Service temporairement indisponible")
}

func TestHome_Pagination(t *testing.T) {
	catalog := newCatalog()
	catalog.page.TotalPages = 3

	rec := get(t, newTestServer(t, catalog), "/?page=2")
	body := rec.Body.String()

	assert.Contains(t, body, `href="/?page=1"`)
	assert.Contains(t, body, `href="/?page=3"`)
	assert.Contains(t, body, "Page 2 sur 3")
}

func TestHome_GenresInNavigation(t *testing.T) {
	catalog := newCatalog()
	rec := get(t, newTestServer(t, catalog), "/")

	assert.Contains(t, rec.Body.String(), `href="/genre/35"`)
	assert.Contains(t, rec.Body.String(), "Comédie")
}

func TestHome_GenresUnavailable(t *testing.T) {
	catalog := newCatalog()
	catalog.genresErr = tmdb.ErrRateLimited

	rec := get(t, newTestServer(t, catalog), "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Film Test")
	assert.NotContains(t, rec.Body.String(), `href="/genre/`)
}

func TestSearch(t *testing.T) {
	catalog := newCatalog()
	rec := get(t, newTestServer(t, catalog), "/search?query=batman")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Film Test")
	assert.Equal(t, []string{"Search(batman, 1)"}, catalog.Calls())
}

func TestSearch_NoResults(t *testing.T) {
	catalog := newCatalog()
	catalog.page = &tmdb.MoviePage{Page: 1}

	rec := get(t, newTestServer(t, catalog), "/search?query=xxxxxx")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aucun")
}

func TestSearch_UpstreamError(t *testing.T) {
	catalog := newCatalog()
	catalog.err = tmdb.ErrTimeout

	rec := get(t, newTestServer(t, catalog), "/search?query=batman")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Timeout - service trop lent")
}

func TestSearch_EmptyQuery(t *testing.T) {
	for _, target := range []string{"/search", "/search?query=", "/search?query=%20%20"} {
		catalog := newCatalog()
		rec := get(t, newTestServer(t, catalog), target)

		assert.Equal(t, http.StatusOK, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "Recherche de films", target)
		assert.Empty(t, catalog.Calls(), target)
	}
}

func TestSearch_TooLongQuery(t *testing.T) {
	catalog := newCatalog()
	rec := get(t, newTestServer(t, catalog), "/search?query="+strings.Repeat("a", 101))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, catalog.Calls())
}

func TestSearch_DangerousQuery(t *testing.T) {
	catalog := newCatalog()
	rec := get(t, newTestServer(t, catalog), "/search?query=%3Cscript%3Ealert()%3C/script%3E")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Search(scriptalert()/script, 1)"}, catalog.Calls())
	assert.NotContains(t, rec.Body.String(), "<script>alert")
}

func TestSearch_Refinements(t *testing.T) {
	catalog := newCatalog()
	catalog.page = &tmdb.MoviePage{
		Page: 1,
		Results: []tmdb.Movie{
			{ID: 1, Title: "Zorro", ReleaseDate: "2023-05-01", VoteAverage: 7.5},
			{ID: 2, Title: "Batman", ReleaseDate: "2010-01-01", VoteAverage: 9.0},
			{ID: 3, Title: "Amélie", ReleaseDate: "2023-02-01", VoteAverage: 8.0},
			{ID: 4, Title: "Navet", ReleaseDate: "2023-03-01", VoteAverage: 3.0},
		},
		TotalPages: 1,
	}
	h := newTestServer(t, catalog)

	rec := get(t, h, "/search?query=film&year=2023&min_rating=7&sort_by=title.asc")
	body := rec.Body.String()

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "Zorro")
	assert.Contains(t, body, "Amélie")
	assert.NotContains(t, body, "Batman")
	assert.NotContains(t, body, "Navet")
	assert.Less(t, strings.Index(body, "Amélie"), strings.Index(body, "Zorro"))

	// Invalid refinements are ignored
	rec = get(t, h, "/search?query=film&year=abc&min_rating=42&sort_by=bogus")
	body = rec.Body.String()

	assert.Contains(t, body, "Batman")
	assert.Contains(t, body, "Navet")
}

func TestSearch_GenreRefinement(t *testing.T) {
	catalog := newCatalog()
	catalog.page = &tmdb.MoviePage{
		Page: 1,
		Results: []tmdb.Movie{
			{ID: 1, Title: "Zorro", ReleaseDate: "2023-05-01", GenreIDs: []int{28, 12}},
			{ID: 2, Title: "Amélie", ReleaseDate: "2001-04-25", GenreIDs: []int{35}},
		},
		TotalPages: 2,
	}
	h := newTestServer(t, catalog)

	rec := get(t, h, "/search?query=film&genre_id=28")
	body := rec.Body.String()

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "Zorro")
	assert.NotContains(t, body, "Amélie")
	assert.Contains(t, body, `<option value="28" selected>Action</option>`)
	assert.Contains(t, body, "genre_id=28")
	assert.Equal(t, []string{"Search(film, 1)"}, catalog.Calls())

	// Out of range genre ids are ignored
	rec = get(t, h, "/search?query=film&genre_id=999999")
	body = rec.Body.String()

	assert.Contains(t, body, "Zorro")
	assert.Contains(t, body, "Amélie")
	assert.NotContains(t, body, "genre_id=999999")
}

func TestGenre(t *testing.T) {
	catalog := newCatalog()
	h := newTestServer(t, catalog)

	rec := get(t, h, "/genre/28")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Film Test")
	assert.Contains(t, rec.Body.String(), "Films : Action")

	rec = get(t, h, "/genre/28?page=3")
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"DiscoverByGenre(28, 1)", "DiscoverByGenre(28, 3)"}, catalog.Calls())
}

func TestGenre_UnknownName(t *testing.T) {
	catalog := newCatalog()
	rec := get(t, newTestServer(t, catalog), "/genre/10402")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Films : Inconnu")
}

func TestGenre_InvalidID(t *testing.T) {
	for _, target := range []string{"/genre/abc", "/genre/99999", "/genre/0", "/genre/-5"} {
		catalog := newCatalog()
		rec := get(t, newTestServer(t, catalog), target)

		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Empty(t, catalog.Calls(), target)
	}
}

func TestCategory(t *testing.T) {
	catalog := newCatalog()
	h := newTestServer(t, catalog)

	rec := get(t, h, "/category/top_rated?page=2")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mieux notés")
	assert.Equal(t, []string{"Category(top_rated, 2)"}, catalog.Calls())

	rec = get(t, h, "/category/trending")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDiscover(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   tmdb.DiscoverOptions
	}{
		{
			name:   "all options",
			target: "/discover?genre_id=28&year=2020&min_rating=7.5&sort_by=vote_average.desc&page=2",
			want: tmdb.DiscoverOptions{
				GenreID:      28,
				Year:         2020,
				MinRating:    7.5,
				HasMinRating: true,
				SortBy:       "vote_average.desc",
				Page:         2,
			},
		},
		{
			name:   "invalid options dropped",
			target: "/discover?genre_id=abc&year=1500&min_rating=11&sort_by=bogus&page=x",
			want:   tmdb.DiscoverOptions{Page: 1},
		},
		{
			name:   "zero rating kept",
			target: "/discover?min_rating=0",
			want:   tmdb.DiscoverOptions{HasMinRating: true, Page: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newCatalog()
			rec := get(t, newTestServer(t, catalog), tt.target)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "Film Test")
			assert.Equal(t, tt.want, catalog.lastDiscover)
		})
	}
}

func fightClub() *tmdb.MovieDetails {
	return &tmdb.MovieDetails{
		Movie: tmdb.Movie{
			ID:          550,
			Title:       "Fight Club",
			ReleaseDate: "1999-10-15",
			VoteAverage: 8.4,
			VoteCount:   27000,
		},
		Runtime: 139,
		Budget:  63000000,
		Credits: &tmdb.Credits{
			Cast: []tmdb.CastMember{{Name: "Brad Pitt", Character: "Tyler Durden"}},
			Crew: []tmdb.CrewMember{{Name: "David Fincher", Job: "Director"}},
		},
		Videos: &tmdb.VideoList{Results: []tmdb.Video{
			{Key: "abc123", Name: "Bande-annonce", Site: "YouTube", Type: "Trailer", Official: true},
		}},
		Similar: &tmdb.MoviePage{Results: []tmdb.Movie{{ID: 807, Title: "Se7en"}}},
	}
}

func TestMovie(t *testing.T) {
	catalog := newCatalog()
	catalog.details = fightClub()

	rec := get(t, newTestServer(t, catalog), "/movie/550")
	body := rec.Body.String()

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "<title>Fight Club - Ivoire Ciné</title>")
	assert.Contains(t, body, "(1999)")
	assert.Contains(t, body, "8,4")
	assert.Contains(t, body, "27 000 votes")
	assert.Contains(t, body, "2 h 19 min")
	assert.Contains(t, body, "63 000 000 $")
	assert.Contains(t, body, "David Fincher")
	assert.Contains(t, body, "Brad Pitt")
	assert.Contains(t, body, "youtube.com/embed/abc123")
	assert.Contains(t, body, "Se7en")
	assert.Contains(t, body, noPoster)
	assert.NotContains(t, body, "bibliothèque")
	assert.Equal(t, []string{"MovieDetails(550)"}, catalog.Calls())
}

func TestMovie_SparseDetails(t *testing.T) {
	catalog := newCatalog()
	catalog.details = &tmdb.MovieDetails{Movie: tmdb.Movie{ID: 1, Title: "Inédit"}}

	rec := get(t, newTestServer(t, catalog), "/movie/1")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aucun synopsis disponible.")
}

func TestMovie_Library(t *testing.T) {
	tests := []struct {
		name    string
		library *fakeLibrary
		want    string
	}{
		{
			name:    "downloaded",
			library: &fakeLibrary{status: &radarr.LibraryStatus{InLibrary: true, HasFile: true}},
			want:    "Disponible dans votre bibliothèque",
		},
		{
			name:    "monitored",
			library: &fakeLibrary{status: &radarr.LibraryStatus{InLibrary: true, Monitored: true}},
			want:    "Surveillé dans votre bibliothèque",
		},
		{
			name:    "missing",
			library: &fakeLibrary{status: &radarr.LibraryStatus{}},
			want:    "Absent de votre bibliothèque",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := newCatalog()
			catalog.details = fightClub()

			rec := get(t, newTestServer(t, catalog, WithLibrary(tt.library)), "/movie/550")

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
		})
	}
}

func TestMovie_LibraryError(t *testing.T) {
	catalog := newCatalog()
	catalog.details = fightClub()
	library := &fakeLibrary{err: fmt.Errorf("connection refused")}

	rec := get(t, newTestServer(t, catalog, WithLibrary(library)), "/movie/550")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Fight Club")
	assert.NotContains(t, rec.Body.String(), "bibliothèque")
}

func TestMovie_NotFound(t *testing.T) {
	catalog := newCatalog()
	catalog.err = &tmdb.RequestError{Endpoint: "movie/999999", StatusCode: 404, Kind: tmdb.ErrNotFound}

	rec := get(t, newTestServer(t, catalog), "/movie/999999")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Film non trouvé")
}

func TestMovie_UpstreamError(t *testing.T) {
	catalog := newCatalog()
	catalog.err = tmdb.ErrInvalidAPIKey

	rec := get(t, newTestServer(t, catalog), "/movie/550")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Clé API invalide")
}

func TestMovie_InvalidID(t *testing.T) {
	for _, target := range []string{"/movie/abc", "/movie/0", "/movie/-1"} {
		catalog := newCatalog()
		rec := get(t, newTestServer(t, catalog), target)

		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Empty(t, catalog.Calls(), target)
	}
}

func TestNotFound(t *testing.T) {
	rec := get(t, newTestServer(t, newCatalog()), "/page-inexistante")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page non trouvée")
}

func TestStatic(t *testing.T) {
	h := newTestServer(t, newCatalog())

	tests := []struct {
		target       string
		status       int
		cacheControl string
	}{
		{target: "/static/css/style.css", status: http.StatusOK, cacheControl: "public, max-age=86400"},
		{target: "/static/js/main.js", status: http.StatusOK, cacheControl: "public, max-age=86400"},
		{target: "/static/img/no-poster.svg", status: http.StatusOK, cacheControl: "public, max-age=604800"},
		{target: "/static/css/", status: http.StatusNotFound},
		{target: "/static/missing.css", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, h, tt.target)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.cacheControl, rec.Header().Get("Cache-Control"))
		})
	}
}

func TestStatic_MinifiedAssets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "style.css"), []byte("body { margin: 0; }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "css", "style.min.css"), []byte("body{margin:0}"), 0o644))

	h := newTestServer(t, newCatalog(), WithStaticDir(dir), WithMinifiedAssets(true))
	body := get(t, h, "/").Body.String()

	assert.Contains(t, body, `href="/static/css/style.min.css"`)
	// No minified script on disk, the source is linked
	assert.Contains(t, body, `src="/static/js/main.js"`)

	rec := get(t, h, "/static/css/style.min.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body{margin:0}", rec.Body.String())
}

func TestNewServer_BadStaticDir(t *testing.T) {
	_, err := NewServer(newCatalog(), zerolog.Nop(), WithStaticDir(filepath.Join(t.TempDir(), "missing")))
	assert.Error(t, err)
}

func TestGzip(t *testing.T) {
	catalog := newCatalog()
	for i := range 20 {
		catalog.page.Results = append(catalog.page.Results, tmdb.Movie{ID: int64(i + 2), Title: fmt.Sprintf("Film %d", i)})
	}
	h := newTestServer(t, catalog)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))

	// Clients without gzip support get plain HTML
	plain := get(t, h, "/")
	assert.Empty(t, plain.Header().Get("Content-Encoding"))
	assert.Contains(t, plain.Body.String(), "Film 19")
}

func TestRequestID(t *testing.T) {
	rec := get(t, newTestServer(t, newCatalog()), "/")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRecoverer(t *testing.T) {
	s, err := NewServer(newCatalog(), zerolog.Nop())
	require.NoError(t, err)

	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := get(t, h, "/")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Une erreur inattendue")
}

func TestRecoverer_AfterResponseStarted(t *testing.T) {
	s, err := NewServer(newCatalog(), zerolog.Nop())
	require.NoError(t, err)

	h := s.recoverer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("partial page"))
		panic("boom")
	}))

	rec := get(t, h, "/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial page", rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "Une erreur inattendue")
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "8,5", formatRating(8.5))
	assert.Equal(t, "0,0", formatRating(0))
	assert.Equal(t, "1 234 567", formatNumber(1234567))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "45 min", formatRuntime(45))
	assert.Equal(t, "2 h", formatRuntime(120))
	assert.Equal(t, "2 h 05 min", formatRuntime(125))
}
