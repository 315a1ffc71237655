// Package validate turns untrusted query-string and path values into safe,
// bounded values. Validators never fail: bad input is either replaced by a
// safe default or reported as absent.
package validate

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Limits bounds the values accepted from users
type Limits struct {
	MaxPage        int
	MaxQueryLength int
	MaxGenreID     int
}

// DefaultLimits mirrors the upstream API constraints
var DefaultLimits = Limits{
	MaxPage:        1000,
	MaxQueryLength: 100,
	MaxGenreID:     10779,
}

// Bounds for the remaining filters
const (
	MinYear   = 1874
	MaxRating = 10.0
)

// queryDenylist holds the characters removed from search text
var queryDenylist = strings.NewReplacer(
	"<", "",
	">", "",
	`"`, "",
	"'", "",
	`\`, "",
)

// Page parses raw as a page number. Unparseable input yields 1, anything else
// is clamped to [1, MaxPage], including integers too large for an int.
func (l Limits) Page(raw string) int {
	raw = strings.TrimSpace(raw)
	n, err := strconv.Atoi(raw)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(raw, "-") {
			return 1
		}
		return l.MaxPage
	}
	if err != nil {
		return 1
	}
	return l.ClampPage(n)
}

// ClampPage bounds an already parsed page number to [1, MaxPage]
func (l Limits) ClampPage(n int) int {
	return max(1, min(n, l.MaxPage))
}

// Query cleans search text. It returns false when the text is blank, longer
// than MaxQueryLength once cleaned, or empty after removing denylisted
// characters.
func (l Limits) Query(raw string) (string, bool) {
	if strings.TrimSpace(raw) == "" {
		return "", false
	}

	cleaned := strings.TrimSpace(queryDenylist.Replace(strings.TrimSpace(raw)))

	if utf8.RuneCountInString(cleaned) > l.MaxQueryLength {
		return "", false
	}
	if cleaned == "" {
		return "", false
	}

	return cleaned, true
}

// GenreID parses raw as a genre identifier within [1, MaxGenreID]
func (l Limits) GenreID(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if n < 1 || n > l.MaxGenreID {
		return 0, false
	}
	return n, true
}

// Page validates a page number using DefaultLimits
func Page(raw string) int {
	return DefaultLimits.Page(raw)
}

// Query validates search text using DefaultLimits
func Query(raw string) (string, bool) {
	return DefaultLimits.Query(raw)
}

// GenreID validates a genre identifier using DefaultLimits
func GenreID(raw string) (int, bool) {
	return DefaultLimits.GenreID(raw)
}

// MovieID parses raw as a positive movie identifier
func MovieID(raw string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Year parses a release year between MinYear and five years from now
func Year(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, false
	}
	if n < MinYear || n > time.Now().Year()+5 {
		return 0, false
	}
	return n, true
}

// MinRating parses a minimum vote average in [0, 10]
func MinRating(raw string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) {
		return 0, false
	}
	if f < 0 || f > MaxRating {
		return 0, false
	}
	return f, true
}

// SanitizeForDisplay escapes the characters that are significant in HTML
func SanitizeForDisplay(text string) string {
	return displayEscaper.Replace(text)
}

var displayEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)
