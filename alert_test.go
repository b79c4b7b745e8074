package thehive

import (
	"context"
	"testing"

	"github.com/soclabs/thehive-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertCreateAndGet(t *testing.T) {
	client := setup(t)
	ctx := context.Background()

	created, err := client.Alert.Create(ctx, models.InputAlert{
		AlertType:   "test",
		Source:      "test-suite",
		SourceRef:   "alert-1",
		Title:       "my first alert",
		Description: "...",
	})
	require.NoError(t, err)

	fetched, err := client.Alert.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestAlertUpdate(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	testAlert := createTestAlert(t, client)

	require.NoError(t, client.Alert.Update(ctx, testAlert.ID, models.InputUpdateAlert{
		Title: "my updated alert",
	}))

	updated, err := client.Alert.Get(ctx, testAlert.ID)
	require.NoError(t, err)
	assert.Equal(t, "my updated alert", updated.Title)
}

func TestAlertDelete(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	testAlert := createTestAlert(t, client)

	require.NoError(t, client.Alert.Delete(ctx, testAlert.ID))

	_, err := client.Alert.Get(ctx, testAlert.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestAlertMergeIntoCase(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	testCase := createTestCase(t, client)
	testAlert := createTestAlert(t, client)

	merged, err := client.Alert.MergeIntoCase(ctx, testAlert.ID, testCase.ID)
	require.NoError(t, err)
	assert.Equal(t, testCase.ID, merged.ID)

	linked, err := client.Alert.Get(ctx, testAlert.ID)
	require.NoError(t, err)
	assert.Equal(t, testCase.ID, linked.CaseID)
	assert.Equal(t, "Imported", linked.Status)
}

func TestAlertFind(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	testAlert := createTestAlert(t, client)

	found, err := client.Alert.Find(ctx, Eq("sourceRef", testAlert.SourceRef))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, *testAlert, found[0])

	missing, err := client.Alert.Find(ctx, Eq("sourceRef", "no-such-ref"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}
