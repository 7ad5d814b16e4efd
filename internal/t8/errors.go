package t8

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the API error taxonomy. Callers match with errors.Is.
var (
	// ErrAuthentication indicates the device rejected the credentials (401/403).
	ErrAuthentication = errors.New("authentication failed")
	// ErrNotFound indicates an unknown machine, point, mode, parameter,
	// configuration, or timestamp (404).
	ErrNotFound = errors.New("not found")
	// ErrServer indicates a 5xx response from the device.
	ErrServer = errors.New("server error")
	// ErrValidation indicates a request was built from an empty required tag.
	ErrValidation = errors.New("validation failed")
)

// statusError maps a non-success HTTP status to the sentinel taxonomy,
// keeping the request path in the message.
func statusError(path string, status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("api %s returned status %d: %w", path, status, ErrAuthentication)
	case status == http.StatusNotFound:
		return fmt.Errorf("api %s returned status %d: %w", path, status, ErrNotFound)
	case status >= 500:
		return fmt.Errorf("api %s returned status %d: %w", path, status, ErrServer)
	default:
		return fmt.Errorf("api %s returned status %d", path, status)
	}
}

func requireTags(tags map[string]string) error {
	for name, value := range tags {
		if value == "" {
			return fmt.Errorf("%s is required: %w", name, ErrValidation)
		}
	}
	return nil
}
