package thehive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/soclabs/thehive-go/hivetest"
	"github.com/soclabs/thehive-go/models"
	"github.com/stretchr/testify/require"
)

// setup starts a fresh fake instance and a client pointed at it. Every test
// gets its own instance so fixtures cannot leak between tests.
func setup(t *testing.T) *Client {
	t.Helper()

	fake := hivetest.NewServer()
	t.Cleanup(fake.Close)

	client, err := New(Config{URL: fake.URL(), APIKey: "test-api-key"})
	require.NoError(t, err)
	return client
}

func createTestCase(t *testing.T, client *Client) *models.Case {
	t.Helper()

	created, err := client.Case.Create(context.Background(), models.InputCase{
		Title:       "my first case",
		Description: "...",
	})
	require.NoError(t, err)
	return created
}

func createTestCases(t *testing.T, client *Client, count int) []models.Case {
	t.Helper()

	cases := make([]models.Case, 0, count)
	for i := 0; i < count; i++ {
		created, err := client.Case.Create(context.Background(), models.InputCase{
			Title:       fmt.Sprintf("test case #%d", i+1),
			Description: fmt.Sprintf("description of test case #%d", i+1),
		})
		require.NoError(t, err)
		cases = append(cases, *created)
	}
	return cases
}

func createTestAlert(t *testing.T, client *Client) *models.Alert {
	t.Helper()

	created, err := client.Alert.Create(context.Background(), models.InputAlert{
		AlertType:   "test",
		Source:      "test-suite",
		SourceRef:   "test-alert",
		Title:       "my first alert",
		Description: "...",
	})
	require.NoError(t, err)
	return created
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}
