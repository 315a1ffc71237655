package tmdb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/NomelN/Ivoire-cine/cache"
)

// Client is a TMDB API client with a response cache
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	cache      *cache.Cache
	inflight   singleflight.Group
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client. Options are applied in order, so
// WithTimeout after WithHTTPClient applies to a copy of the supplied client.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("tmdb API key is required")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		language:   DefaultLanguage,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		cache:      cache.New(cache.DefaultTTL),
		logger:     logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.baseURL = strings.TrimRight(c.baseURL, "/")
	if _, err := url.Parse(c.baseURL); err != nil {
		return nil, fmt.Errorf("invalid tmdb base URL: %w", err)
	}

	return c, nil
}

// Cache returns the response cache
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// Request performs a GET on endpoint with the API key and language attached
// and returns the raw body of a 200 response. Any other outcome is returned
// as a *RequestError.
func (c *Client) Request(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	endpoint = strings.TrimLeft(endpoint, "/")

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)

	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Kind: ErrUnexpected, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		reqErr := &RequestError{Endpoint: endpoint, Kind: transportKind(err), Err: stripURL(err)}
		c.logger.Warn().Err(reqErr).Str("endpoint", endpoint).Msg("TMDB request failed")
		return nil, reqErr
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		reqErr := &RequestError{Endpoint: endpoint, StatusCode: resp.StatusCode, Kind: statusKind(resp.StatusCode)}
		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Msg("TMDB returned an error status")
		return nil, reqErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Endpoint: endpoint, Kind: transportKind(err), Err: err}
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Int("bytes", len(body)).
		Msg("TMDB request succeeded")

	return body, nil
}

// stripURL drops the request URL from a transport error so the API key
// never ends up in logs or rendered pages.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}

// Ping checks that the API is reachable and the key is accepted
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Request(ctx, "configuration", nil)
	return err
}
