package categorizer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"financeapp/statement-import/internal/models"
)

const wrappedMappingsYAML = `mappings:
  - keywords: ["lumberyard", "hardware"]
    target: home improvement
    suggestion: Home Improvement
    confidence: high
`

const bareMappingsYAML = `- keywords: ["lumberyard"]
  target: home improvement
  suggestion: Home Improvement
  confidence: medium
`

func writeMappings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadMappingsWrappedDocument(t *testing.T) {
	mappings, err := LoadMappings(writeMappings(t, wrappedMappingsYAML))
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, "home improvement", mappings[0].Target)
	assert.Equal(t, []string{"lumberyard", "hardware"}, mappings[0].Keywords)
	assert.Equal(t, models.ConfidenceHigh, mappings[0].Confidence)
}

func TestLoadMappingsBareList(t *testing.T) {
	mappings, err := LoadMappings(writeMappings(t, bareMappingsYAML))
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, models.ConfidenceMedium, mappings[0].Confidence)
}

func TestLoadMappingsMissingFile(t *testing.T) {
	_, err := LoadMappings(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	assert.Error(t, err)
}

func TestLoadMappingsEmptyFile(t *testing.T) {
	_, err := LoadMappings(writeMappings(t, ""))
	assert.Error(t, err)
}

func TestLoadedMappingsDriveCategorization(t *testing.T) {
	mappings, err := LoadMappings(writeMappings(t, wrappedMappingsYAML))
	require.NoError(t, err)

	c := New(mappings, nil)
	categories := []models.Category{{ID: "cat-home", Name: "Home Improvement"}}

	result := c.Categorize(context.Background(), "ACME LUMBERYARD #7", categories)
	require.NotNil(t, result.Category)
	assert.Equal(t, "cat-home", result.Category.ID)
	assert.Equal(t, models.ConfidenceHigh, result.Confidence)

	// The built-in table was replaced, not merged.
	fallthroughResult := c.Categorize(context.Background(), "TIM HORTONS #1234", categories)
	assert.Nil(t, fallthroughResult.Category)
	assert.Equal(t, models.SuggestionUncategorized, fallthroughResult.Suggestion)
}
