package models

type (
	// Share represents an access grant of a case to another organisation.
	Share struct {
		ID           string `json:"_id"`
		CreatedBy    string `json:"_createdBy,omitempty"`
		CreatedAt    int64  `json:"_createdAt,omitempty"`
		CaseID       string `json:"caseId"`
		Organisation string `json:"organisationName"`
		Profile      string `json:"profileName,omitempty"`
		Owner        bool   `json:"owner,omitempty"`
	}

	// InputShare is the payload for sharing a case with an organisation.
	InputShare struct {
		Organisation   string `json:"organisation"`
		Profile        string `json:"profile,omitempty"`
		TaskRule       string `json:"taskRule,omitempty"`
		ObservableRule string `json:"observableRule,omitempty"`
	}
)
