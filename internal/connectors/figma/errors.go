package figma

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
)

// Figma-specific errors.
var (
	// ErrMissingDocument indicates a files response had no document node.
	ErrMissingDocument = errors.New("figma: response has no document")

	// ErrImageTooLarge indicates a rendered image exceeded MaxImageBytes.
	ErrImageTooLarge = errors.New("figma: rendered image too large")
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	RetryAt time.Time
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("figma: rate limit exceeded, retry at %s", e.RetryAt.Format(time.RFC3339))
}

// Unwrap classifies rate limiting as a transport failure.
func (e *RateLimitError) Unwrap() error {
	return domain.ErrTransport
}

// APIError represents a Figma API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("figma: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap classifies API errors as transport failures.
func (e *APIError) Unwrap() error {
	return domain.ErrTransport
}

// IsNotFound checks if the error indicates the file or node was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates a bad or expired token.
// Figma answers 403 for invalid personal access tokens.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	return false
}
