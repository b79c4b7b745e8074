package thehive

import (
	"context"
	"net/http"
	"net/url"

	"github.com/soclabs/thehive-go/models"
)

// AlertService groups the alert endpoint operations.
type AlertService struct {
	client *Client
}

// Create creates a new alert.
func (s *AlertService) Create(ctx context.Context, input models.InputAlert) (*models.Alert, error) {
	var created models.Alert
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/alert", nil, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Get fetches an alert by id.
func (s *AlertService) Get(ctx context.Context, alertID string) (*models.Alert, error) {
	var a models.Alert
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/alert/"+alertID, nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Update applies a partial update to an alert.
func (s *AlertService) Update(ctx context.Context, alertID string, fields models.InputUpdateAlert) error {
	return s.client.do(ctx, http.MethodPatch, "/api/v1/alert/"+alertID, nil, fields, nil)
}

// Delete removes an alert.
func (s *AlertService) Delete(ctx context.Context, alertID string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/v1/alert/"+alertID, nil, nil, nil)
}

// MergeIntoCase links an alert into an existing case and returns the updated
// case.
func (s *AlertService) MergeIntoCase(ctx context.Context, alertID, caseID string) (*models.Case, error) {
	var merged models.Case
	path := "/api/v1/alert/" + alertID + "/merge/" + caseID
	if err := s.client.do(ctx, http.MethodPost, path, nil, nil, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Find searches alerts matching the given filters, in sort order.
func (s *AlertService) Find(ctx context.Context, filters Filter, sorts ...SortField) ([]models.Alert, error) {
	req := buildQuery(listQuery("listAlert"), filters, sorts, nil, false)
	alerts := []models.Alert{}
	params := url.Values{"name": []string{"alerts"}}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/query", params, req, &alerts); err != nil {
		return nil, err
	}
	return alerts, nil
}
