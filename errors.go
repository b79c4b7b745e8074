package thehive

import "fmt"

// APIError is returned for any non-2xx response from the service.
type APIError struct {
	StatusCode int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("thehive: %s: %s (HTTP %d)", e.Type, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("thehive: %s (HTTP %d)", e.Message, e.StatusCode)
}
