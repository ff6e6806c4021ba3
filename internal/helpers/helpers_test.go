package helpers

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintHelpersWriteToOutput(t *testing.T) {
	var buf bytes.Buffer
	previous, previousNoColor := Output, color.NoColor
	Output, color.NoColor = &buf, true
	t.Cleanup(func() { Output, color.NoColor = previous, previousNoColor })

	PrintSuccess("saved %d files", 2)
	PrintSprint("Sprint %d", 1)

	assert.Equal(t, "✅ saved 2 files\n🏃 Sprint 1\n", buf.String())
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", Bar(0, 10, 20))
	assert.Equal(t, "", Bar(5, 0, 20))
	assert.Equal(t, "██████████", Bar(5, 10, 20))
	assert.Equal(t, "█", Bar(1, 100, 20))
	assert.Equal(t, "████", Bar(50, 10, 4))
}

func TestLoadDocument(t *testing.T) {
	type doc struct {
		Name string `json:"name" yaml:"name"`
	}
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "p.yaml")
	require.NoError(t, WriteFile(yamlPath, "name: from-yaml\n"))
	var fromYAML doc
	require.NoError(t, LoadDocument(yamlPath, &fromYAML))
	assert.Equal(t, "from-yaml", fromYAML.Name)

	jsonPath := filepath.Join(dir, "p.json")
	require.NoError(t, SaveJSON(doc{Name: "from-json"}, jsonPath))
	var fromJSON doc
	require.NoError(t, LoadDocument(jsonPath, &fromJSON))
	assert.Equal(t, "from-json", fromJSON.Name)

	assert.Error(t, LoadDocument(filepath.Join(dir, "missing.json"), &fromJSON))
}

func TestGenerateOutputFilename(t *testing.T) {
	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	assert.Equal(t, "plan-20240203-040506.json", GenerateOutputFilename("plan", at, "json"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "clinic-booking-v2", Slug("Clinic Booking (v2)"))
	assert.Equal(t, "project", Slug("!!!"))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(-1))

	logger, err = NewLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1))

	_, err = NewLogger("loud", false)
	assert.Error(t, err)
}
