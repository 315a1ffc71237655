package tmdb

import "context"

// Catalog is the read-only movie catalogue served to the web front-end.
// Details pages get their cast from MovieDetails (append_to_response), so
// the standalone credits call stays on Client only.
type Catalog interface {
	Popular(ctx context.Context, page int) (*MoviePage, error)
	Category(ctx context.Context, category string, page int) (*MoviePage, error)
	Search(ctx context.Context, query string, page int) (*MoviePage, error)
	Genres(ctx context.Context) (*GenreList, error)
	DiscoverByGenre(ctx context.Context, genreID, page int) (*MoviePage, error)
	Discover(ctx context.Context, opts DiscoverOptions) (*MoviePage, error)
	MovieDetails(ctx context.Context, id int64) (*MovieDetails, error)
}

var _ Catalog = (*Client)(nil)
