package models

type (
	// Status represents the response from the service status endpoint.
	Status struct {
		Name    string `json:"name,omitempty"`
		Version string `json:"version"`
	}
)
