package models

type (
	// Alert represents an alert record as returned by the service.
	Alert struct {
		ID          string   `json:"_id"`
		Type        string   `json:"_type,omitempty"`
		CreatedBy   string   `json:"_createdBy,omitempty"`
		CreatedAt   int64    `json:"_createdAt,omitempty"`
		UpdatedAt   int64    `json:"_updatedAt,omitempty"`
		AlertType   string   `json:"type"`
		Source      string   `json:"source"`
		SourceRef   string   `json:"sourceRef"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Severity    int      `json:"severity,omitempty"`
		Date        int64    `json:"date,omitempty"`
		Tags        []string `json:"tags,omitempty"`
		TLP         int      `json:"tlp,omitempty"`
		PAP         int      `json:"pap,omitempty"`
		Status      string   `json:"status,omitempty"`
		CaseID      string   `json:"caseId,omitempty"`
	}

	// InputAlert is the payload for creating an alert.
	InputAlert struct {
		AlertType   string   `json:"type"`
		Source      string   `json:"source"`
		SourceRef   string   `json:"sourceRef"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Severity    int      `json:"severity,omitempty"`
		Date        int64    `json:"date,omitempty"`
		Tags        []string `json:"tags,omitempty"`
		TLP         int      `json:"tlp,omitempty"`
		PAP         int      `json:"pap,omitempty"`
	}

	// InputUpdateAlert is the payload for a partial alert update.
	InputUpdateAlert struct {
		Title       string   `json:"title,omitempty"`
		Description string   `json:"description,omitempty"`
		Severity    int      `json:"severity,omitempty"`
		Tags        []string `json:"tags,omitempty"`
		TLP         int      `json:"tlp,omitempty"`
		PAP         int      `json:"pap,omitempty"`
	}
)
