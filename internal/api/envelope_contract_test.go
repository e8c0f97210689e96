package api

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/listenupapp/pressroom/internal/errors"
)

// getFixturePath returns the path to the shared envelope fixtures.
// Frontend tests parse the same files.
func getFixturePath(t *testing.T) string {
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "Failed to get caller info")

	// internal/api -> repo root
	root := filepath.Dir(filepath.Dir(filepath.Dir(filename)))
	return filepath.Join(root, "testdata", "envelope")
}

func loadFixture(t *testing.T, name string) map[string]any {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(getFixturePath(t), name))
	require.NoError(t, err, "contract tests require shared fixtures")

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func marshalToMap(t *testing.T, v any) map[string]any {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	return m
}

func assertSameKeys(t *testing.T, expected, actual map[string]any) {
	t.Helper()
	for key := range actual {
		assert.Contains(t, expected, key, "server output contains unexpected field: %s", key)
	}
	for key := range expected {
		assert.Contains(t, actual, key, "server output is missing field: %s", key)
	}
}

func TestEnvelopeContract_SuccessMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "success.json")

	result, err := EnvelopeTransformer(nil, "200", map[string]string{"id": "test-123", "name": "Test Item"})
	require.NoError(t, err)

	actual := marshalToMap(t, result)
	assert.Equal(t, expected, actual)
}

func TestEnvelopeContract_SuccessNullDataMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "success_null_data.json")

	result, err := EnvelopeTransformer(nil, "204", nil)
	require.NoError(t, err)

	actual := marshalToMap(t, result)
	assertSameKeys(t, expected, actual)
	assert.Equal(t, expected["v"], actual["v"])
	assert.Equal(t, expected["success"], actual["success"])
}

func TestEnvelopeContract_SimpleErrorMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "error_simple.json")

	result, err := EnvelopeTransformer(nil, "404", newAPIError(404, "", domainerrors.NotFound("Post not found")))
	require.NoError(t, err)

	actual := marshalToMap(t, result)
	assert.Equal(t, expected, actual)
}

func TestEnvelopeContract_DetailedErrorMatchesFixture(t *testing.T) {
	expected := loadFixture(t, "error_detailed.json")

	verr := domainerrors.ValidationWithDetails("Validation failed", domainerrors.FieldErrors{
		"title": "is required",
		"slug":  "already in use",
	})
	result, err := EnvelopeTransformer(nil, "400", newAPIError(400, "", verr))
	require.NoError(t, err)

	actual := marshalToMap(t, result)
	assert.Equal(t, expected, actual)
	assert.IsType(t, "", actual["error"], "error must be a string")
	assert.IsType(t, map[string]any{}, actual["details"], "details must be an object")
}

// The version field must stay "v"; clients switch on it.
func TestEnvelopeContract_VersionFieldName(t *testing.T) {
	result, err := EnvelopeTransformer(nil, "200", nil)
	require.NoError(t, err)

	actual := marshalToMap(t, result)
	assert.Contains(t, actual, "v")
	assert.NotContains(t, actual, "version")
	assert.NotContains(t, actual, "Version")
}
