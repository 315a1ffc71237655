package tmdb

import (
	"strconv"
	"strings"
)

// MaxTotalPages is the deepest page the upstream API will serve
const MaxTotalPages = 500

// Movie is a movie as it appears in result lists
type Movie struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	OriginalLanguage string  `json:"original_language"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
}

// Year returns the release year, or 0 when the release date is unknown
func (m Movie) Year() int {
	y, _, _ := strings.Cut(m.ReleaseDate, "-")
	n, err := strconv.Atoi(y)
	if err != nil {
		return 0
	}
	return n
}

// MoviePage is one page of a paginated movie listing
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

func (p *MoviePage) clampTotalPages() {
	if p != nil && p.TotalPages > MaxTotalPages {
		p.TotalPages = MaxTotalPages
	}
}

// Genre is a movie genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the response of the genre list endpoint
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// ByID indexes genre names by identifier
func (g *GenreList) ByID() map[int]string {
	names := make(map[int]string, len(g.Genres))
	for _, genre := range g.Genres {
		names[genre.ID] = genre.Name
	}
	return names
}

// Name returns the name of the genre with the given id, or "Inconnu"
func (g *GenreList) Name(id int) string {
	if g != nil {
		for _, genre := range g.Genres {
			if genre.ID == id {
				return genre.Name
			}
		}
	}
	return "Inconnu"
}

// CastMember is an actor credited on a movie
type CastMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
	Order       int    `json:"order"`
}

// CrewMember is a technical contributor credited on a movie
type CrewMember struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	Department  string `json:"department"`
	ProfilePath string `json:"profile_path"`
}

// Credits lists the cast and crew of a movie
type Credits struct {
	ID   int64        `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns the crew members credited as director
func (c *Credits) Directors() []CrewMember {
	if c == nil {
		return nil
	}
	var directors []CrewMember
	for _, member := range c.Crew {
		if member.Job == "Director" {
			directors = append(directors, member)
		}
	}
	return directors
}

// TopCast returns at most n cast members in billing order
func (c *Credits) TopCast(n int) []CastMember {
	if c == nil {
		return nil
	}
	if len(c.Cast) <= n {
		return c.Cast
	}
	return c.Cast[:n]
}

// Video is a trailer, teaser or clip hosted on a video platform
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// VideoList wraps the videos attached to a movie
type VideoList struct {
	Results []Video `json:"results"`
}

// Trailer returns the first YouTube trailer, preferring official ones
func (v *VideoList) Trailer() *Video {
	if v == nil {
		return nil
	}
	var fallback *Video
	for i := range v.Results {
		video := &v.Results[i]
		if video.Site != "YouTube" || video.Type != "Trailer" {
			continue
		}
		if video.Official {
			return video
		}
		if fallback == nil {
			fallback = video
		}
	}
	return fallback
}

// MovieDetails is the full description of a single movie
type MovieDetails struct {
	Movie
	Genres          []Genre    `json:"genres"`
	Runtime         int        `json:"runtime"`
	Tagline         string     `json:"tagline"`
	Status          string     `json:"status"`
	Budget          int64      `json:"budget"`
	Revenue         int64      `json:"revenue"`
	IMDbID          string     `json:"imdb_id"`
	Homepage        string     `json:"homepage"`
	Credits         *Credits   `json:"credits,omitempty"`
	Videos          *VideoList `json:"videos,omitempty"`
	Similar         *MoviePage `json:"similar,omitempty"`
	Recommendations *MoviePage `json:"recommendations,omitempty"`
}

// DiscoverOptions narrows a discover query
type DiscoverOptions struct {
	GenreID   int
	Year      int
	MinRating float64
	// HasMinRating distinguishes a minimum of 0 from no minimum
	HasMinRating bool
	SortBy       string
	Page         int
}
