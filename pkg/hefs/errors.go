package hefs

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports a payload rejected before any request was sent.
type ValidationError struct {
	Op     string `json:"op"     yaml:"op"`
	Reason string `json:"reason" yaml:"reason"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Op == "" {
		return "validation failed: " + e.Reason
	}

	return fmt.Sprintf("%s: validation failed: %s", e.Op, e.Reason)
}

// FetchError reports a non-2xx response or a transport failure.
// StatusCode is zero when no response was received.
type FetchError struct {
	Method     string `json:"method"      yaml:"method"`
	URL        string `json:"url"         yaml:"url"`
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Body       []byte `json:"body"        yaml:"body"`
	Err        error  `json:"-"           yaml:"-"`
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
	}

	if len(e.Body) == 0 {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}

	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, truncate(e.Body))
}

// Unwrap returns the transport error, if any.
func (e *FetchError) Unwrap() error {
	return e.Err
}

const maxErrorBody = 256

func truncate(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}

	return string(body[:maxErrorBody]) + "..."
}

// Static errors for err113 compliance.
var (
	ErrUnknownProperty       = errors.New("unknown property")
	ErrUnknownEndpoint       = errors.New("unknown endpoint")
	ErrEmptyEndpoint         = errors.New("endpoint or value must not be empty")
	ErrNotCached             = errors.New("entity not cached")
	ErrCacheDisabled         = errors.New("cache disabled")
	ErrKeyNotFound           = errors.New("key not found")
	ErrEntryExpired          = errors.New("entry expired")
	ErrKeyNotFoundInAnyCache = errors.New("key not found in any cache")
	ErrNATSConfigRequired    = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType  = errors.New("unsupported cache type")
)

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	valErr := &ValidationError{}

	return errors.As(err, &valErr)
}

// IsNotFound checks if the error is a 404 fetch error.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode returns the HTTP status carried by a FetchError, or zero.
func StatusCode(err error) int {
	fetchErr := &FetchError{}
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode
	}

	return 0
}
