package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/beeper/search-bot/pkg/shared/httputil"
)

var (
	// ErrRatelimit means the provider refused the request because of request volume.
	ErrRatelimit = errors.New("search provider rate limit")
	// ErrTimeout means the provider did not answer in time.
	ErrTimeout = errors.New("search request timed out")
	// ErrNoBackends means none of the requested backends are known.
	ErrNoBackends = errors.New("no search backends available")
	// ErrMissingPhrase means a suggestion item has no phrase field.
	ErrMissingPhrase = errors.New("suggestion has no phrase")
)

// BackendError wraps a failure from a single backend.
type BackendError struct {
	Backend    string
	StatusCode int
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s backend (status %d): %v", e.Backend, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s backend: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsRatelimit reports whether err carries the rate-limit signal.
func IsRatelimit(err error) bool {
	return errors.Is(err, ErrRatelimit)
}

// IsTimeout reports whether err carries the timeout signal.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// classify maps transport and status failures onto the provider signals.
func classify(backend string, status int, err error) error {
	if err == nil {
		return nil
	}
	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) {
		status = statusErr.StatusCode
	}
	switch {
	case isRatelimitStatus(status):
		err = fmt.Errorf("%w: %w", ErrRatelimit, err)
	case isTimeoutErr(err):
		err = fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return &BackendError{Backend: backend, StatusCode: status, Err: err}
}

func isRatelimitStatus(status int) bool {
	switch status {
	case http.StatusAccepted, http.StatusForbidden, http.StatusTooManyRequests:
		return true
	}
	return false
}

func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
