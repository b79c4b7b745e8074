package models

type (
	// Observable represents an indicator of compromise attached to a case
	// or an alert.
	Observable struct {
		ID         string      `json:"_id"`
		Type       string      `json:"_type,omitempty"`
		CreatedBy  string      `json:"_createdBy,omitempty"`
		CreatedAt  int64       `json:"_createdAt,omitempty"`
		DataType   string      `json:"dataType"`
		Data       string      `json:"data,omitempty"`
		Message    string      `json:"message,omitempty"`
		TLP        int         `json:"tlp,omitempty"`
		IOC        bool        `json:"ioc,omitempty"`
		Sighted    bool        `json:"sighted,omitempty"`
		Tags       []string    `json:"tags,omitempty"`
		Attachment *Attachment `json:"attachment,omitempty"`
	}

	// InputObservable is the payload for creating an observable. Data is left
	// empty for file observables, where the content is uploaded alongside.
	InputObservable struct {
		DataType string   `json:"dataType"`
		Data     string   `json:"data,omitempty"`
		Message  string   `json:"message,omitempty"`
		TLP      int      `json:"tlp,omitempty"`
		IOC      bool     `json:"ioc,omitempty"`
		Sighted  bool     `json:"sighted,omitempty"`
		Tags     []string `json:"tags,omitempty"`
	}

	// InputUpdateObservable is the payload for a partial observable update.
	InputUpdateObservable struct {
		Message string   `json:"message,omitempty"`
		TLP     int      `json:"tlp,omitempty"`
		IOC     *bool    `json:"ioc,omitempty"`
		Sighted *bool    `json:"sighted,omitempty"`
		Tags    []string `json:"tags,omitempty"`
	}

	// ObservableMergeStats reports the outcome of merging similar observables
	// within a case.
	ObservableMergeStats struct {
		Deleted   int `json:"deleted"`
		Untouched int `json:"untouched"`
		Updated   int `json:"updated"`
	}
)
