package fetch

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrFetch is matched by every failed fetch, whatever the cause.
	ErrFetch = errors.New("fetch failed")

	// ErrUnsupportedProxy is returned for a proxy URL whose scheme is not
	// http, https, socks5 or socks5h.
	ErrUnsupportedProxy = errors.New("unsupported proxy scheme")
)

// StatusError reports a response with a non-success status after all
// retries were used.
type StatusError struct {
	URL        string
	StatusCode int
}

// Error implements error.
func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed (%d %s): %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

// Is reports ErrFetch as a match.
func (e *StatusError) Is(target error) bool {
	return target == ErrFetch
}

// Error reports a transport failure after all retries were used.
type Error struct {
	URL string
	Err error
}

// Error implements error.
func (e *Error) Error() string {
	return fmt.Sprintf("request failed: %s: %v", e.URL, e.Err)
}

// Unwrap returns the transport error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports ErrFetch as a match.
func (e *Error) Is(target error) bool {
	return target == ErrFetch
}
