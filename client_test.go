package thehive

import (
	"context"
	"net/http"
	"testing"

	"github.com/soclabs/thehive-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

func TestNewRequiresURL(t *testing.T) {
	_, err := New(Config{APIKey: "secret"})
	assert.Error(t, err)
}

func TestClientSetsAuthHeader(t *testing.T) {
	defer gock.Off()

	gock.New("http://thehive.test").
		Get("/api/v1/case/abc").
		MatchHeader("Authorization", "Bearer secret-key").
		Reply(200).
		JSON(models.Case{ID: "abc", Title: "my case"})

	client, err := New(Config{URL: "http://thehive.test", APIKey: "secret-key"})
	require.NoError(t, err)

	fetched, err := client.Case.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", fetched.ID)
	assert.True(t, gock.IsDone())
}

func TestClientSetsOrganisationHeader(t *testing.T) {
	defer gock.Off()

	gock.New("http://thehive.test").
		Get("/api/v1/case/abc").
		MatchHeader("X-Organisation", "soc-org").
		Reply(200).
		JSON(models.Case{ID: "abc"})

	client, err := New(Config{URL: "http://thehive.test", APIKey: "secret-key", Organisation: "soc-org"})
	require.NoError(t, err)

	_, err = client.Case.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestClientDecodesServiceError(t *testing.T) {
	defer gock.Off()

	gock.New("http://thehive.test").
		Get("/api/v1/case/missing").
		Reply(404).
		JSON(models.Error{Type: "NotFoundError", Message: "case not found"})

	client, err := New(Config{URL: "http://thehive.test", APIKey: "secret-key"})
	require.NoError(t, err)

	_, err = client.Case.Get(context.Background(), "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NotFoundError", apiErr.Type)
	assert.Equal(t, "case not found", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "NotFoundError")
}

func TestClientHandlesNonJSONError(t *testing.T) {
	defer gock.Off()

	gock.New("http://thehive.test").
		Get("/api/v1/case/abc").
		Reply(500).
		BodyString("boom")

	client, err := New(Config{URL: "http://thehive.test", APIKey: "secret-key"})
	require.NoError(t, err)

	_, err = client.Case.Get(context.Background(), "abc")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "Internal Server Error", apiErr.Message)
}

func TestClientTrimsTrailingSlash(t *testing.T) {
	defer gock.Off()

	gock.New("http://thehive.test").
		Get("/api/v1/status").
		Reply(200).
		JSON(models.Status{Version: "5.4.0"})

	client, err := New(Config{URL: "http://thehive.test/", APIKey: "secret-key"})
	require.NoError(t, err)

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5.4.0", status.Version)
	assert.True(t, gock.IsDone())
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("THEHIVE_URL", "http://hive.internal:9000")
	t.Setenv("THEHIVE_APIKEY", "env-key")
	t.Setenv("THEHIVE_ORGANISATION", "env-org")

	cfg := ConfigFromEnv()
	assert.Equal(t, "http://hive.internal:9000", cfg.URL)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-org", cfg.Organisation)
}

func TestStatusAgainstFake(t *testing.T) {
	client := setup(t)

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, status.Version)
}
