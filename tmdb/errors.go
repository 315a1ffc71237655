package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Failure kinds returned by the client. Every error produced by Client wraps
// exactly one of them.
var (
	// ErrInvalidAPIKey indicates the upstream rejected the API key (401)
	ErrInvalidAPIKey = errors.New("invalid API key")
	// ErrNotFound indicates the requested resource does not exist (404)
	ErrNotFound = errors.New("resource not found")
	// ErrRateLimited indicates the upstream throttled the request (429)
	ErrRateLimited = errors.New("rate limited")
	// ErrUnavailable indicates any other non-200 upstream status
	ErrUnavailable = errors.New("service unavailable")
	// ErrTimeout indicates the request did not complete in time
	ErrTimeout = errors.New("timeout")
	// ErrConnection indicates the upstream could not be reached
	ErrConnection = errors.New("connection error")
	// ErrUnexpected covers everything else
	ErrUnexpected = errors.New("unexpected error")
)

// RequestError describes a failed upstream call
type RequestError struct {
	Endpoint   string
	StatusCode int
	Kind       error
	Err        error
}

// Error implements the error interface
func (e *RequestError) Error() string {
	msg := fmt.Sprintf("tmdb: GET %s: %s", e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the failure kind and the underlying cause
func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// statusKind maps a non-200 status code to its failure kind
func statusKind(code int) error {
	switch code {
	case 401:
		return ErrInvalidAPIKey
	case 404:
		return ErrNotFound
	case 429:
		return ErrRateLimited
	default:
		return ErrUnavailable
	}
}

// transportKind classifies an error returned by http.Client.Do
func transportKind(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrConnection
	}

	return ErrUnexpected
}

// messages holds the user-facing text for each failure kind
var messages = []struct {
	kind error
	text string
}{
	{ErrInvalidAPIKey, "Clé API invalide"},
	{ErrNotFound, "Ressource non trouvée"},
	{ErrRateLimited, "Trop de requêtes - veuillez patienter"},
	{ErrUnavailable, "Service temporairement indisponible"},
	{ErrTimeout, "Timeout - service trop lent"},
	{ErrConnection, "Erreur de connexion"},
}

// Message returns the text shown to users for err. A nil error yields "".
func Message(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range messages {
		if errors.Is(err, m.kind) {
			return m.text
		}
	}
	return "Erreur inattendue"
}
