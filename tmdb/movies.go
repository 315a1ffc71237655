package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// detailsAppend lists the sub-resources embedded in a details response
const detailsAppend = "credits,videos,similar,recommendations"

// fetch returns the cached value for key or performs the request, decodes
// it into T, runs prepare on it and caches the result. Concurrent misses on
// the same key share a single upstream call; a caller whose context ends
// stops waiting without failing the others.
func fetch[T any](ctx context.Context, c *Client, key, endpoint string, params url.Values, prepare func(*T)) (*T, error) {
	if cached, ok := c.cache.Get(key); ok {
		if v, ok := cached.(*T); ok {
			c.logger.Debug().Str("key", key).Msg("TMDB cache hit")
			return v, nil
		}
	}

	// The shared call must outlive any single waiter; the client timeout
	// still bounds it. Each waiter gives up on its own context.
	shared := context.WithoutCancel(ctx)
	results := c.inflight.DoChan(key, func() (any, error) {
		body, err := c.Request(shared, endpoint, params)
		if err != nil {
			return nil, err
		}

		result := new(T)
		if err := json.Unmarshal(body, result); err != nil {
			return nil, &RequestError{Endpoint: endpoint, Kind: ErrUnexpected, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
		if prepare != nil {
			prepare(result)
		}

		c.cache.Set(key, result)
		return result, nil
	})

	select {
	case <-ctx.Done():
		err := ctx.Err()
		return nil, &RequestError{Endpoint: endpoint, Kind: transportKind(err), Err: err}
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*T), nil
	}
}

// cacheKey builds a deterministic key from an operation name and its parameters
func cacheKey(op string, params url.Values) string {
	if len(params) == 0 {
		return op
	}
	return op + "?" + params.Encode()
}

func clampPage(p *MoviePage) {
	p.clampTotalPages()
}

func clampDetails(d *MovieDetails) {
	d.Similar.clampTotalPages()
	d.Recommendations.clampTotalPages()
}

func pageParams(page int) url.Values {
	return url.Values{"page": {strconv.Itoa(page)}}
}

// Popular returns a page of popular movies
func (c *Client) Popular(ctx context.Context, page int) (*MoviePage, error) {
	params := pageParams(page)
	return fetch(ctx, c, cacheKey("popular", params), "movie/popular", params, clampPage)
}

// Category returns a page of a curated list such as "top_rated" or "upcoming".
// The caller is responsible for passing a validated category name.
func (c *Client) Category(ctx context.Context, category string, page int) (*MoviePage, error) {
	params := pageParams(page)
	return fetch(ctx, c, cacheKey("category_"+category, params), "movie/"+url.PathEscape(category), params, clampPage)
}

// Search returns a page of movies matching query
func (c *Client) Search(ctx context.Context, query string, page int) (*MoviePage, error) {
	params := pageParams(page)
	params.Set("query", query)
	return fetch(ctx, c, cacheKey("search", params), "search/movie", params, clampPage)
}

// Genres returns the list of movie genres
func (c *Client) Genres(ctx context.Context) (*GenreList, error) {
	return fetch[GenreList](ctx, c, cacheKey("movie_genres", nil), "genre/movie/list", nil, nil)
}

// DiscoverByGenre returns a page of movies in the given genre
func (c *Client) DiscoverByGenre(ctx context.Context, genreID, page int) (*MoviePage, error) {
	params := pageParams(page)
	params.Set("with_genres", strconv.Itoa(genreID))
	return fetch(ctx, c, cacheKey("discover_genre", params), "discover/movie", params, clampPage)
}

// Discover returns a page of movies matching every option that is set
func (c *Client) Discover(ctx context.Context, opts DiscoverOptions) (*MoviePage, error) {
	params := pageParams(max(opts.Page, 1))
	if opts.GenreID > 0 {
		params.Set("with_genres", strconv.Itoa(opts.GenreID))
	}
	if opts.Year > 0 {
		params.Set("primary_release_year", strconv.Itoa(opts.Year))
	}
	if opts.HasMinRating {
		params.Set("vote_average.gte", strconv.FormatFloat(opts.MinRating, 'f', -1, 64))
	}
	if opts.SortBy != "" {
		params.Set("sort_by", opts.SortBy)
	}
	return fetch(ctx, c, cacheKey("discover", params), "discover/movie", params, clampPage)
}

// MovieDetails returns a movie with its credits, videos, similar movies and
// recommendations
func (c *Client) MovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	params := url.Values{"append_to_response": {detailsAppend}}
	key := cacheKey("movie_details_"+strconv.FormatInt(id, 10), nil)
	return fetch(ctx, c, key, "movie/"+strconv.FormatInt(id, 10), params, clampDetails)
}

// MovieCredits returns the cast and crew of a movie
func (c *Client) MovieCredits(ctx context.Context, id int64) (*Credits, error) {
	key := cacheKey("movie_credits_"+strconv.FormatInt(id, 10), nil)
	return fetch[Credits](ctx, c, key, "movie/"+strconv.FormatInt(id, 10)+"/credits", nil, nil)
}
