package client

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a domain-level failure reported by the backend: the request was
// delivered and answered, but the server refused it with a reason. The reason
// is surfaced to the user verbatim. The HTTP status is kept so callers can
// tell failure kinds apart (e.g. wrong share-link password vs unknown token).
type APIError struct {
	StatusCode int
	Reason     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error (%d): %s", e.StatusCode, e.Reason)
}

// AsAPIError extracts an *APIError from err, if it carries one.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a backend rejection for a missing or
// wrong password.
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.StatusCode == http.StatusUnauthorized
}
