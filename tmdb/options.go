package tmdb

import (
	"net/http"
	"time"

	"github.com/NomelN/Ivoire-cine/cache"
)

// Defaults matching the public TMDB service
const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "fr-FR"
	DefaultTimeout  = 10 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the upstream API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithLanguage sets the language parameter sent with every request.
func WithLanguage(language string) Option {
	return func(c *Client) {
		if language != "" {
			c.language = language
		}
	}
}

// WithTimeout sets the HTTP client timeout. A client supplied through
// WithHTTPClient is copied, never modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			clone := *c.httpClient
			clone.Timeout = timeout
			c.httpClient = &clone
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithCache shares a response cache with the client.
func WithCache(responses *cache.Cache) Option {
	return func(c *Client) {
		if responses != nil {
			c.cache = responses
		}
	}
}
