package filter

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/NomelN/Ivoire-cine/tmdb"
)

// Sort returns a copy of movies ordered by sortBy, one of the upstream sort
// keys such as "vote_average.desc". Unknown keys return the input order.
func Sort(movies []tmdb.Movie, sortBy string) []tmdb.Movie {
	field, direction, _ := strings.Cut(sortBy, ".")

	var compare func(a, b tmdb.Movie) int
	switch field {
	case "popularity":
		compare = func(a, b tmdb.Movie) int { return cmp.Compare(a.Popularity, b.Popularity) }
	case "vote_average":
		compare = func(a, b tmdb.Movie) int { return cmp.Compare(a.VoteAverage, b.VoteAverage) }
	case "primary_release_date":
		// ISO dates order lexically
		compare = func(a, b tmdb.Movie) int { return strings.Compare(a.ReleaseDate, b.ReleaseDate) }
	case "title":
		collator := collate.New(language.French, collate.IgnoreCase)
		compare = func(a, b tmdb.Movie) int { return collator.CompareString(a.Title, b.Title) }
	default:
		return movies
	}

	sorted := slices.Clone(movies)
	if direction == "desc" {
		slices.SortStableFunc(sorted, func(a, b tmdb.Movie) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(sorted, compare)
	}
	return sorted
}
