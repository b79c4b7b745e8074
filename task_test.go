package thehive

import (
	"context"
	"testing"

	"github.com/soclabs/thehive-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskGet(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	testCase := createTestCase(t, client)

	created, err := client.Case.CreateTask(ctx, testCase.ID, models.InputTask{
		Title: "my task",
		Group: "default",
	})
	require.NoError(t, err)
	assert.Equal(t, "Waiting", created.Status)

	fetched, err := client.Task.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestTaskUpdate(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	testCase := createTestCase(t, client)

	created, err := client.Case.CreateTask(ctx, testCase.ID, models.InputTask{Title: "my task"})
	require.NoError(t, err)

	require.NoError(t, client.Task.Update(ctx, created.ID, models.InputUpdateTask{
		Status:   "InProgress",
		Assignee: "analyst@test.local",
	}))

	updated, err := client.Task.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "InProgress", updated.Status)
	assert.Equal(t, "analyst@test.local", updated.Assignee)
}

func TestTaskDelete(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	testCase := createTestCase(t, client)

	created, err := client.Case.CreateTask(ctx, testCase.ID, models.InputTask{Title: "my task"})
	require.NoError(t, err)

	require.NoError(t, client.Task.Delete(ctx, created.ID))

	_, err = client.Task.Get(ctx, created.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)

	tasks, err := client.Case.FindTasks(ctx, testCase.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
