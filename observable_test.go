package thehive

import (
	"context"
	"testing"

	"github.com/soclabs/thehive-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestObservable(t *testing.T, client *Client, caseID string) *models.Observable {
	t.Helper()

	created, err := client.Case.CreateObservable(context.Background(), caseID, models.InputObservable{
		DataType: "ip",
		Data:     "127.0.0.1",
		Message:  "a test observable",
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	return &created[0]
}

func TestObservableUpdate(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	testCase := createTestCase(t, client)
	observable := createTestObservable(t, client, testCase.ID)

	ioc := true
	require.NoError(t, client.Observable.Update(ctx, observable.ID, models.InputUpdateObservable{
		Message: "an updated observable",
		IOC:     &ioc,
	}))

	updated, err := client.Observable.Get(ctx, observable.ID)
	require.NoError(t, err)
	assert.Equal(t, "an updated observable", updated.Message)
	assert.True(t, updated.IOC)
}

func TestObservableDelete(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	testCase := createTestCase(t, client)
	observable := createTestObservable(t, client, testCase.ID)

	require.NoError(t, client.Observable.Delete(ctx, observable.ID))

	_, err := client.Observable.Get(ctx, observable.ID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestObservableFindAcrossCases(t *testing.T) {
	client := setup(t)
	ctx := context.Background()
	testCases := createTestCases(t, client, 2)

	for _, c := range testCases {
		_, err := client.Case.CreateObservable(ctx, c.ID, models.InputObservable{
			DataType: "domain",
			Data:     "example.com",
		})
		require.NoError(t, err)
	}
	_, err := client.Case.CreateObservable(ctx, testCases[0].ID, models.InputObservable{
		DataType: "ip",
		Data:     "192.168.0.1",
	})
	require.NoError(t, err)

	domains, err := client.Observable.Find(ctx, Eq("dataType", "domain"))
	require.NoError(t, err)
	assert.Len(t, domains, 2)
}
