// Package radarr looks up movies in a Radarr instance so the catalogue can
// show which titles are already in the user's library.
package radarr

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"

	"github.com/NomelN/Ivoire-cine/cache"
)

// defaultCacheTTL bounds how stale a library status may be
const defaultCacheTTL = 5 * time.Minute

// Client wraps the starr Radarr client with a status cache
type Client struct {
	client RadarrAPI
	cache  *cache.Cache
	logger zerolog.Logger
}

// LibraryStatus describes a movie's presence in Radarr
type LibraryStatus struct {
	InLibrary bool
	Monitored bool
	HasFile   bool
	Title     string
	Added     time.Time
}

// NewClient creates a new Radarr client and checks the connection
func NewClient(url, apiKey string, logger zerolog.Logger) (*Client, error) {
	if url == "" {
		return nil, fmt.Errorf("radarr URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("radarr API key is required")
	}

	config := starr.New(apiKey, url, 30*time.Second)
	radarrClient := radarr.New(config)

	// Test the connection
	if err := radarrClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewClientWithAPI(radarrClient, logger), nil
}

// NewClientWithAPI creates a client around an existing API implementation
func NewClientWithAPI(api RadarrAPI, logger zerolog.Logger) *Client {
	return &Client{
		client: api,
		cache:  cache.New(defaultCacheTTL),
		logger: logger,
	}
}

// Ping checks the Radarr connection
func (c *Client) Ping() error {
	return c.client.Ping()
}

// LibraryStatus reports whether the movie with the given TMDB id is in Radarr
func (c *Client) LibraryStatus(ctx context.Context, tmdbID int64) (*LibraryStatus, error) {
	key := strconv.FormatInt(tmdbID, 10)
	if cached, ok := c.cache.Get(key); ok {
		return cached.(*LibraryStatus), nil
	}

	movies, err := c.client.GetMovieContext(ctx, &radarr.GetMovie{TMDBID: tmdbID})
	if err != nil {
		return nil, fmt.Errorf("failed to look up movie %d: %w", tmdbID, err)
	}

	status := &LibraryStatus{}
	for _, movie := range movies {
		if movie.TmdbID != tmdbID {
			continue
		}
		status = &LibraryStatus{
			InLibrary: true,
			Monitored: movie.Monitored,
			HasFile:   movie.HasFile,
			Title:     movie.Title,
			Added:     movie.Added,
		}
		break
	}

	c.logger.Debug().
		Int64("tmdb_id", tmdbID).
		Bool("in_library", status.InLibrary).
		Msg("Checked Radarr library")

	c.cache.Set(key, status)
	return status, nil
}
