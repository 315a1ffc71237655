package validate

import "strings"

// SortOption is a sort key understood by the upstream discover endpoint
type SortOption struct {
	Key   string
	Label string
}

// SortOptions lists the accepted sort_by values in display order
var SortOptions = []SortOption{
	{Key: "popularity.desc", Label: "Popularité (décroissante)"},
	{Key: "popularity.asc", Label: "Popularité (croissante)"},
	{Key: "vote_average.desc", Label: "Note (décroissante)"},
	{Key: "vote_average.asc", Label: "Note (croissante)"},
	{Key: "primary_release_date.desc", Label: "Date de sortie (récente)"},
	{Key: "primary_release_date.asc", Label: "Date de sortie (ancienne)"},
	{Key: "title.asc", Label: "Titre (A-Z)"},
	{Key: "title.desc", Label: "Titre (Z-A)"},
}

// SortBy accepts only keys listed in SortOptions
func SortBy(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	for _, opt := range SortOptions {
		if opt.Key == raw {
			return raw, true
		}
	}
	return "", false
}

// Category is a curated movie list exposed by the upstream API
type Category string

const (
	CategoryPopular    Category = "popular"
	CategoryTopRated   Category = "top_rated"
	CategoryUpcoming   Category = "upcoming"
	CategoryNowPlaying Category = "now_playing"
)

// Categories lists the accepted categories in display order
var Categories = []Category{
	CategoryPopular,
	CategoryTopRated,
	CategoryUpcoming,
	CategoryNowPlaying,
}

// Label returns the French display name
func (c Category) Label() string {
	switch c {
	case CategoryPopular:
		return "Populaires"
	case CategoryTopRated:
		return "Mieux notés"
	case CategoryUpcoming:
		return "Prochainement"
	case CategoryNowPlaying:
		return "Au cinéma"
	default:
		return string(c)
	}
}

// ParseCategory accepts only the names in Categories
func ParseCategory(raw string) (Category, bool) {
	c := Category(strings.TrimSpace(raw))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}
