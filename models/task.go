package models

type (
	// Task represents a task within a case.
	Task struct {
		ID          string `json:"_id"`
		Type        string `json:"_type,omitempty"`
		CreatedBy   string `json:"_createdBy,omitempty"`
		CreatedAt   int64  `json:"_createdAt,omitempty"`
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		Group       string `json:"group,omitempty"`
		Status      string `json:"status,omitempty"`
		Mandatory   bool   `json:"mandatory,omitempty"`
		Assignee    string `json:"assignee,omitempty"`
	}

	// InputTask is the payload for creating a task in a case.
	InputTask struct {
		Title       string `json:"title"`
		Description string `json:"description,omitempty"`
		Group       string `json:"group,omitempty"`
		Status      string `json:"status,omitempty"`
		Mandatory   bool   `json:"mandatory,omitempty"`
		Assignee    string `json:"assignee,omitempty"`
	}

	// InputUpdateTask is the payload for a partial task update.
	InputUpdateTask struct {
		Title       string `json:"title,omitempty"`
		Description string `json:"description,omitempty"`
		Group       string `json:"group,omitempty"`
		Status      string `json:"status,omitempty"`
		Assignee    string `json:"assignee,omitempty"`
	}
)
