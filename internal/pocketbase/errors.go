package pocketbase

import (
	"errors"
	"fmt"
)

// Standard errors returned by the client.
var (
	// ErrValidation indicates the BaaS rejected the request data.
	ErrValidation = errors.New("validation error")
	// ErrAuthentication indicates missing or invalid credentials.
	ErrAuthentication = errors.New("authentication failed")
	// ErrForbidden indicates the authenticated record may not perform the action.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates the requested record was not found.
	ErrNotFound = errors.New("not found")
	// ErrRateLimit indicates too many requests.
	ErrRateLimit = errors.New("rate limit exceeded")
)

// APIError represents an error response from the BaaS collection API.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Message is the error message from the response body.
	Message string
	// Err is the underlying error type.
	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (status %d)", e.Err.Error(), e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *APIError) Unwrap() error {
	return e.Err
}

// newAPIError creates an APIError from an HTTP response status and message.
func newAPIError(statusCode int, message string) *APIError {
	err := &APIError{
		StatusCode: statusCode,
		Message:    message,
	}

	switch statusCode {
	case 400:
		err.Err = ErrValidation
	case 401:
		err.Err = ErrAuthentication
	case 403:
		err.Err = ErrForbidden
	case 404:
		err.Err = ErrNotFound
	case 429:
		err.Err = ErrRateLimit
	}

	return err
}
