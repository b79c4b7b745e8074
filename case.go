package thehive

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/soclabs/thehive-go/models"
)

// CaseService groups the case endpoint operations.
type CaseService struct {
	client *Client
}

// Create creates a new case.
func (s *CaseService) Create(ctx context.Context, input models.InputCase) (*models.Case, error) {
	var created models.Case
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/case", nil, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Get fetches a case by id.
func (s *CaseService) Get(ctx context.Context, caseID string) (*models.Case, error) {
	var c models.Case
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/case/"+caseID, nil, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Update applies a partial update to a case.
func (s *CaseService) Update(ctx context.Context, caseID string, fields models.InputUpdateCase) error {
	return s.client.do(ctx, http.MethodPatch, "/api/v1/case/"+caseID, nil, fields, nil)
}

// BulkUpdate applies the same field updates to every case named in fields.IDs.
func (s *CaseService) BulkUpdate(ctx context.Context, fields models.InputBulkUpdateCase) error {
	return s.client.do(ctx, http.MethodPatch, "/api/v1/case/_bulk", nil, fields, nil)
}

// Delete removes a case and everything attached to it.
func (s *CaseService) Delete(ctx context.Context, caseID string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/v1/case/"+caseID, nil, nil, nil)
}

// Merge combines several cases into a new one. The source cases are deleted
// by the service and their titles joined into the merged case's title.
func (s *CaseService) Merge(ctx context.Context, caseIDs []string) (*models.Case, error) {
	var merged models.Case
	path := "/api/v1/case/_merge/" + strings.Join(caseIDs, ",")
	if err := s.client.do(ctx, http.MethodPost, path, nil, nil, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// Close closes a case with a resolution status, impact status and summary.
func (s *CaseService) Close(ctx context.Context, caseID, status, impactStatus, summary string) error {
	return s.Update(ctx, caseID, models.InputUpdateCase{
		Status:       status,
		ImpactStatus: impactStatus,
		Summary:      summary,
	})
}

// Open reopens a closed case with the given status.
func (s *CaseService) Open(ctx context.Context, caseID, status string) error {
	return s.Update(ctx, caseID, models.InputUpdateCase{Status: status})
}

// UnlinkAlert detaches a previously merged alert from a case.
func (s *CaseService) UnlinkAlert(ctx context.Context, caseID, alertID string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/v1/case/"+caseID+"/alert/"+alertID, nil, nil, nil)
}

// GetLinkedCases lists the cases sharing at least one observable with the
// given case.
func (s *CaseService) GetLinkedCases(ctx context.Context, caseID string) ([]models.Case, error) {
	var linked []models.Case
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/case/"+caseID+"/links", nil, nil, &linked); err != nil {
		return nil, err
	}
	return linked, nil
}

// GetTimeline fetches the event timeline of a case.
func (s *CaseService) GetTimeline(ctx context.Context, caseID string) (*models.Timeline, error) {
	var timeline models.Timeline
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/case/"+caseID+"/timeline", nil, nil, &timeline); err != nil {
		return nil, err
	}
	return &timeline, nil
}

// Find searches cases matching the given filters, in sort order.
func (s *CaseService) Find(ctx context.Context, filters Filter, sorts ...SortField) ([]models.Case, error) {
	req := buildQuery(listQuery("listCase"), filters, sorts, nil, false)
	cases := []models.Case{}
	params := url.Values{"name": []string{"cases"}}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/query", params, req, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// FindPage searches cases like Find but returns only the [page.From, page.To)
// window of the sorted result set.
func (s *CaseService) FindPage(ctx context.Context, filters Filter, page Paging, sorts ...SortField) ([]models.Case, error) {
	req := buildQuery(listQuery("listCase"), filters, sorts, &page, false)
	cases := []models.Case{}
	params := url.Values{"name": []string{"cases"}}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/query", params, req, &cases); err != nil {
		return nil, err
	}
	return cases, nil
}

// Count counts cases matching the given filters.
func (s *CaseService) Count(ctx context.Context, filters Filter) (int, error) {
	req := buildQuery(listQuery("listCase"), filters, nil, nil, true)
	var count int
	params := url.Values{"name": []string{"cases.count"}}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/query", params, req, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// ExportToFile exports a case as a password-protected archive written to
// exportPath.
func (s *CaseService) ExportToFile(ctx context.Context, caseID, password, exportPath string) error {
	params := url.Values{"password": []string{password}}
	return s.client.download(ctx, "/api/v1/case/"+caseID+"/export", params, exportPath)
}

// ImportFromFile imports a case archive previously produced by ExportToFile.
func (s *CaseService) ImportFromFile(ctx context.Context, input models.InputImportCase, importPath string) (*models.ImportResult, error) {
	var result models.ImportResult
	if err := s.client.upload(ctx, "/api/v1/case/import", input, "file", []string{importPath}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddAttachment uploads one or more files as case attachments.
func (s *CaseService) AddAttachment(ctx context.Context, caseID string, attachmentPaths []string) ([]models.Attachment, error) {
	var attachments []models.Attachment
	path := "/api/v1/case/" + caseID + "/attachments"
	if err := s.client.upload(ctx, path, nil, "attachment", attachmentPaths, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// DownloadAttachment writes the content of a case attachment to
// attachmentPath.
func (s *CaseService) DownloadAttachment(ctx context.Context, caseID, attachmentID, attachmentPath string) error {
	path := "/api/v1/case/" + caseID + "/attachment/" + attachmentID + "/download"
	return s.client.download(ctx, path, nil, attachmentPath)
}

// DeleteAttachment removes an attachment from a case.
func (s *CaseService) DeleteAttachment(ctx context.Context, caseID, attachmentID string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/v1/case/"+caseID+"/attachment/"+attachmentID, nil, nil, nil)
}

// FindAttachments lists the attachments of a case.
func (s *CaseService) FindAttachments(ctx context.Context, caseID string, filters Filter, sorts ...SortField) ([]models.Attachment, error) {
	req := buildQuery(caseScopedQuery(caseID, "attachments"), filters, sorts, nil, false)
	attachments := []models.Attachment{}
	params := url.Values{"name": []string{"case-attachments"}}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/query", params, req, &attachments); err != nil {
		return nil, err
	}
	return attachments, nil
}

// Share grants other organisations access to a case.
func (s *CaseService) Share(ctx context.Context, caseID string, shares []models.InputShare) ([]models.Share, error) {
	body := map[string][]models.InputShare{"shares": shares}
	created := []models.Share{}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/case/"+caseID+"/shares", nil, body, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// ListShares lists the organisations a case is shared with.
func (s *CaseService) ListShares(ctx context.Context, caseID string) ([]models.Share, error) {
	shares := []models.Share{}
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/case/"+caseID+"/shares", nil, nil, &shares); err != nil {
		return nil, err
	}
	return shares, nil
}

// Unshare revokes the access of the given organisations to a case.
func (s *CaseService) Unshare(ctx context.Context, caseID string, organisationIDs []string) error {
	body := map[string][]string{"organisations": organisationIDs}
	return s.client.do(ctx, http.MethodDelete, "/api/v1/case/"+caseID+"/shares", nil, body, nil)
}

// RemoveShare revokes a single share by its id.
func (s *CaseService) RemoveShare(ctx context.Context, shareID string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/v1/case/share/"+shareID, nil, nil, nil)
}

// UpdateShare changes the profile of an existing share.
func (s *CaseService) UpdateShare(ctx context.Context, shareID, profile string) error {
	body := map[string]string{"profile": profile}
	return s.client.do(ctx, http.MethodPatch, "/api/v1/case/share/"+shareID, nil, body, nil)
}

// CreateTask adds a task to a case.
func (s *CaseService) CreateTask(ctx context.Context, caseID string, task models.InputTask) (*models.Task, error) {
	var created models.Task
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/case/"+caseID+"/task", nil, task, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// FindTasks lists the tasks of a case.
func (s *CaseService) FindTasks(ctx context.Context, caseID string, filters Filter, sorts ...SortField) ([]models.Task, error) {
	req := buildQuery(caseScopedQuery(caseID, "tasks"), filters, sorts, nil, false)
	tasks := []models.Task{}
	params := url.Values{"name": []string{"case-tasks"}}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/query", params, req, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateObservable adds an observable to a case. The service may split
// multiline data into several observables, hence the slice result.
func (s *CaseService) CreateObservable(ctx context.Context, caseID string, observable models.InputObservable) ([]models.Observable, error) {
	created := []models.Observable{}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/case/"+caseID+"/observable", nil, observable, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// FindObservables lists the observables of a case.
func (s *CaseService) FindObservables(ctx context.Context, caseID string, filters Filter, sorts ...SortField) ([]models.Observable, error) {
	req := buildQuery(caseScopedQuery(caseID, "observables"), filters, sorts, nil, false)
	observables := []models.Observable{}
	params := url.Values{"name": []string{"case-observables"}}
	if err := s.client.do(ctx, http.MethodPost, "/api/v1/query", params, req, &observables); err != nil {
		return nil, err
	}
	return observables, nil
}

// MergeSimilarObservables deduplicates observables of a case that carry the
// same data type and value.
func (s *CaseService) MergeSimilarObservables(ctx context.Context, caseID string) (*models.ObservableMergeStats, error) {
	var stats models.ObservableMergeStats
	path := "/api/v1/case/" + caseID + "/observable/_merge"
	if err := s.client.do(ctx, http.MethodPost, path, nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
