package models

// Case statuses understood by the service. The service owns the full set;
// these are the ones the client surface works with.
const (
	CaseStatusNew           = "New"
	CaseStatusInProgress    = "InProgress"
	CaseStatusIndeterminate = "Indeterminate"
	CaseStatusFalsePositive = "FalsePositive"
	CaseStatusTruePositive  = "TruePositive"
	CaseStatusOther         = "Other"
	CaseStatusDuplicated    = "Duplicated"
)

// Impact statuses accepted when closing a case.
const (
	ImpactStatusNotApplicable = "NotApplicable"
	ImpactStatusWithImpact    = "WithImpact"
	ImpactStatusNoImpact      = "NoImpact"
)

type (
	// Case represents a case record as returned by the service.
	// It does not represent the full record, just what we end up using.
	Case struct {
		ID           string   `json:"_id"`
		Type         string   `json:"_type,omitempty"`
		CreatedBy    string   `json:"_createdBy,omitempty"`
		CreatedAt    int64    `json:"_createdAt,omitempty"`
		UpdatedBy    string   `json:"_updatedBy,omitempty"`
		UpdatedAt    int64    `json:"_updatedAt,omitempty"`
		Number       int      `json:"number,omitempty"`
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		Severity     int      `json:"severity,omitempty"`
		StartDate    int64    `json:"startDate,omitempty"`
		EndDate      int64    `json:"endDate,omitempty"`
		Tags         []string `json:"tags,omitempty"`
		Flag         bool     `json:"flag,omitempty"`
		TLP          int      `json:"tlp,omitempty"`
		PAP          int      `json:"pap,omitempty"`
		Status       string   `json:"status,omitempty"`
		Stage        string   `json:"stage,omitempty"`
		Summary      string   `json:"summary,omitempty"`
		ImpactStatus string   `json:"impactStatus,omitempty"`
		Assignee     string   `json:"assignee,omitempty"`
	}

	// InputCase is the payload for creating a case.
	InputCase struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Severity    int      `json:"severity,omitempty"`
		StartDate   int64    `json:"startDate,omitempty"`
		Tags        []string `json:"tags,omitempty"`
		Flag        bool     `json:"flag,omitempty"`
		TLP         int      `json:"tlp,omitempty"`
		PAP         int      `json:"pap,omitempty"`
		Status      string   `json:"status,omitempty"`
		Assignee    string   `json:"assignee,omitempty"`
	}

	// InputUpdateCase is the payload for a partial case update. Zero-valued
	// fields are omitted from the request and left untouched by the service.
	InputUpdateCase struct {
		Title        string   `json:"title,omitempty"`
		Description  string   `json:"description,omitempty"`
		Severity     int      `json:"severity,omitempty"`
		Tags         []string `json:"tags,omitempty"`
		Flag         *bool    `json:"flag,omitempty"`
		TLP          int      `json:"tlp,omitempty"`
		PAP          int      `json:"pap,omitempty"`
		Status       string   `json:"status,omitempty"`
		Summary      string   `json:"summary,omitempty"`
		ImpactStatus string   `json:"impactStatus,omitempty"`
		Assignee     string   `json:"assignee,omitempty"`
	}

	// InputBulkUpdateCase applies the same field updates to several cases.
	InputBulkUpdateCase struct {
		IDs []string `json:"ids"`
		InputUpdateCase
	}

	// InputImportCase carries the parameters of a case archive import.
	InputImportCase struct {
		Password       string `json:"password"`
		ObservableRule string `json:"observableRule,omitempty"`
		TaskRule       string `json:"taskRule,omitempty"`
	}

	// ImportResult is the response of a case archive import.
	ImportResult struct {
		Case Case `json:"case"`
	}

	// TimelineEvent is a single entry in a case timeline.
	TimelineEvent struct {
		Date     int64  `json:"date"`
		Kind     string `json:"kind"`
		EntityID string `json:"entityId,omitempty"`
		Details  string `json:"details,omitempty"`
	}

	// Timeline represents the response from the case timeline endpoint.
	Timeline struct {
		Events []TimelineEvent `json:"events"`
	}
)
