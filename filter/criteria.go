package filter

import (
	"strconv"
	"strings"

	"github.com/NomelN/Ivoire-cine/tmdb"
)

// Criteria holds the already validated refinements a user asked for
type Criteria struct {
	Year         int
	MinRating    float64
	HasMinRating bool
	GenreID      int
}

// IsZero reports whether no refinement is set
func (c Criteria) IsZero() bool {
	return c.Year == 0 && !c.HasMinRating && c.GenreID == 0
}

// Expression renders the criteria as a filter expression, or "" when empty
func (c Criteria) Expression() string {
	var parts []string
	if c.Year > 0 {
		parts = append(parts, "Year == "+strconv.Itoa(c.Year))
	}
	if c.HasMinRating {
		parts = append(parts, "VoteAverage >= "+strconv.FormatFloat(c.MinRating, 'f', -1, 64))
	}
	if c.GenreID > 0 {
		parts = append(parts, "hasGenre("+strconv.Itoa(c.GenreID)+")")
	}
	return strings.Join(parts, " and ")
}

// Apply returns the movies matching filter, leaving the input untouched.
// A nil filter keeps everything.
func Apply(filter Filter, movies []tmdb.Movie) []tmdb.Movie {
	if filter == nil {
		return movies
	}

	matches := make([]tmdb.Movie, 0, len(movies))
	for _, movie := range movies {
		if filter.Evaluate(movie) {
			matches = append(matches, movie)
		}
	}
	return matches
}

// ApplyCriteria compiles criteria with compiler and applies it
func ApplyCriteria(compiler Compiler, criteria Criteria, movies []tmdb.Movie) ([]tmdb.Movie, error) {
	if criteria.IsZero() {
		return movies, nil
	}

	f, err := compiler.Compile(criteria.Expression())
	if err != nil {
		return nil, err
	}
	return Apply(f, movies), nil
}
