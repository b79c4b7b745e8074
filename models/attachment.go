package models

type (
	// Attachment represents a file attached to a case or observable.
	Attachment struct {
		ID          string   `json:"_id"`
		CreatedBy   string   `json:"_createdBy,omitempty"`
		CreatedAt   int64    `json:"_createdAt,omitempty"`
		Name        string   `json:"name"`
		Size        int64    `json:"size,omitempty"`
		ContentType string   `json:"contentType,omitempty"`
		Hashes      []string `json:"hashes,omitempty"`
	}
)
