package thehive

import (
	"context"
	"net/http"

	"github.com/soclabs/thehive-go/models"
)

// TaskService groups the task endpoint operations. Tasks are created through
// CaseService.CreateTask and addressed here by their own id.
type TaskService struct {
	client *Client
}

// Get fetches a task by id.
func (s *TaskService) Get(ctx context.Context, taskID string) (*models.Task, error) {
	var t models.Task
	if err := s.client.do(ctx, http.MethodGet, "/api/v1/task/"+taskID, nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update applies a partial update to a task.
func (s *TaskService) Update(ctx context.Context, taskID string, fields models.InputUpdateTask) error {
	return s.client.do(ctx, http.MethodPatch, "/api/v1/task/"+taskID, nil, fields, nil)
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/v1/task/"+taskID, nil, nil, nil)
}
