package models

type (
	// Error represents any erroneous response body from the service.
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	}
)
