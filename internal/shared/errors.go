package shared

import (
	"errors"
	"fmt"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing catalog API key")

	// API and service errors
	ErrNetwork            = fmt.Errorf("network request failed")
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrMalformedResponse  = fmt.Errorf("malformed response")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrListNotFound       = fmt.Errorf("favorite list not found")
	ErrMovieNotFound      = fmt.Errorf("movie not found")

	// Favorites errors
	ErrEmptyList      = fmt.Errorf("favorite list is empty")
	ErrInvalidMovie   = fmt.Errorf("invalid movie")
	ErrNotInitialized = fmt.Errorf("favorites not initialized")
	ErrLocalStorage   = fmt.Errorf("local storage failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// APIError is a non-2xx response from a remote API.
//
// Message is taken from the response body when the server provided one.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", ErrAPIRequest, e.StatusCode)
	}
	return fmt.Sprintf("%v (status %d): %s", ErrAPIRequest, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error { return ErrAPIRequest }

// StatusCode extracts the HTTP status from an [APIError] anywhere in err's chain, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
