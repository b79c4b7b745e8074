package thehive

import (
	"context"
	"net/http"
	"net/url"

	"github.com/soclabs/thehive-go/models"
)

// ObservableService groups the observable endpoint operations.
type ObservableService struct {
	client *Client
}

// Get fetches an observable by id.
func (s *ObservableService) Get(ctx context.Context, observableID string) (*models.Observable, error) {
	var o models.Observable
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/observable/"+observableID, nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Update applies a partial update to an observable.
func (s *ObservableService) Update(ctx context.Context, observableID string, fields models.InputUpdateObservable) error {
	return s.client.do(ctx, http.MethodPatch, "/api/v1/observable/"+observableID, nil, fields, nil)
}

// Delete removes an observable.
func (s *ObservableService) Delete(ctx context.Context, observableID string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/v1/observable/"+observableID, nil, nil, nil)
}

// CreateInCase adds an observable to a case. When observablePath is not
// empty the file content is uploaded and the observable becomes a file
// observable carrying an attachment.
func (s *ObservableService) CreateInCase(ctx context.Context, caseID string, observable models.InputObservable, observablePath string) ([]models.Observable, error) {
	if observablePath == "" {
		return s.client.Case.CreateObservable(ctx, caseID, observable)
	}

	created := []models.Observable{}
	path := "/api/v1/case/" + caseID + "/observable"
	if err := s.client.upload(ctx, path, observable, "attachment", []string{observablePath}, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// Find searches observables across all cases.
func (s *ObservableService) Find(ctx context.Context, filters Filter, sorts ...SortField) ([]models.Observable, error) {
	req := buildQuery(listQuery("listObservable"), filters, sorts, nil, false)
	observables := []models.Observable{}
	params := url.Values{"name": []string{"observables"}}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/query", params, req, &observables); err != nil {
		return nil, err
	}
	return observables, nil
}
