package radarr

import (
	"context"

	"golift.io/starr/radarr"
)

// RadarrAPI defines the Radarr API operations the library lookup relies on
type RadarrAPI interface {
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)

	// Health check
	Ping() error
}

// Library reports whether movies are already part of the user's collection
type Library interface {
	LibraryStatus(ctx context.Context, tmdbID int64) (*LibraryStatus, error)
}
