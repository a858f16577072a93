package tmdb

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrParse indicates a response body could not be turned into records
	ErrParse = errors.New("malformed TMDB response")
	// ErrMissingAPIKey indicates no API key was configured
	ErrMissingAPIKey = errors.New("tmdb API key is required")
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid tmdb configuration")
)

// ParseError describes where ingestion of a response body failed.
// Index is -1 when the failure is not tied to a results element.
type ParseError struct {
	Index  int
	Field  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	if e.Index < 0 {
		return fmt.Sprintf("parse error: %s", msg)
	}
	if e.Field != "" {
		return fmt.Sprintf("parse error in results[%d].%s: %s", e.Index, e.Field, msg)
	}
	return fmt.Sprintf("parse error in results[%d]: %s", e.Index, msg)
}

// Unwrap lets errors.Is match both ErrParse and the underlying cause
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Err}
}

// APIError represents a non-2xx TMDB API response
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb API error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
