package analyst

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	// ErrMissingAPIKey is returned when the API key is not configured
	ErrMissingAPIKey = errors.New("analyst: missing API key, set it in the " + EnvAPIKey + " environment variable")
)

// APIError is returned when the service replies with unexpected status code
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type,omitempty"`
	Message    string `json:"message,omitempty"`
	URL        string `json:"-"`
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("API returned unexpected status code: %d", e.StatusCode)
	if e.StatusCode == 404 && e.URL != "" {
		msg += ": url: " + e.URL
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// IsAPIError returns the APIError from the chain
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
