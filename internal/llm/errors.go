package llm

import (
	"errors"
	"fmt"
)

// ErrNoAPIKey indicates no provider credential is configured.
var ErrNoAPIKey = errors.New("no LLM API key configured")

// UpstreamError represents a non-success status or error envelope from the
// provider. The message is logged server-side; callers surface only a
// generic failure string.
type UpstreamError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("llm provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm provider error (status %d)", e.StatusCode)
}

// ParseError indicates the provider's returned content was not decodable as
// the expected structure.
type ParseError struct {
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("llm response parse error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
