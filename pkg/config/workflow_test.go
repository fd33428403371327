package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonDocument = `{
  "id": "welcome",
  "name": "Welcome",
  "blocks": [
    {"id": "t", "type": "trigger"},
    {"id": "d", "type": "delay", "config": {"duration": 1, "unit": "seconds"}}
  ],
  "connections": [{"id": "c1", "source": "t", "target": "d"}]
}`

const yamlDocument = `
id: welcome
name: Welcome
blocks:
  - id: t
    type: trigger
  - id: d
    type: delay
    config:
      duration: 1
      unit: seconds
connections:
  - id: c1
    source: t
    target: d
`

func TestLoadWorkflow(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		contents string
	}{
		{name: "json", file: "wf.json", contents: jsonDocument},
		{name: "yaml", file: "wf.yaml", contents: yamlDocument},
		{name: "yml", file: "wf.yml", contents: yamlDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0o600))

			workflow, err := LoadWorkflow(path)
			require.NoError(t, err)

			assert.Equal(t, "welcome", workflow.ID)
			require.Len(t, workflow.Blocks, 2)
			assert.Equal(t, models.BlockTypeDelay, workflow.Blocks[1].Type)
			assert.Equal(t, float64(1), workflow.Blocks[1].Config["duration"])
			require.Len(t, workflow.Connections, 1)
			assert.Equal(t, "d", workflow.Connections[0].Target)
		})
	}
}

func TestParseWorkflow_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		format  Format
		wantErr error
	}{
		{name: "empty", data: "  \n", format: FormatJSON, wantErr: ErrEmptyDocument},
		{name: "bad json", data: "{", format: FormatJSON},
		{name: "bad yaml", data: "blocks: [", format: FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWorkflow([]byte(tt.data), tt.format)
			require.Error(t, err)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestParseWorkflow_DefaultsCollections(t *testing.T) {
	workflow, err := ParseWorkflow([]byte(`{"name": "Empty"}`), FormatJSON)
	require.NoError(t, err)
	assert.NotNil(t, workflow.Blocks)
	assert.NotNil(t, workflow.Connections)
}

func TestLoadWorkflow_MissingFile(t *testing.T) {
	_, err := LoadWorkflow(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("a/B.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("wf.txt"))
}
