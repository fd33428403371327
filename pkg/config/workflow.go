// Package config loads workflow documents from disk.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/flowforge/flowforge/pkg/models"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a workflow document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var ErrEmptyDocument = errors.New("workflow document is empty")

// FormatFromPath picks the format from the file extension. Unknown extensions are JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadWorkflow reads a workflow document from path, or from stdin when path is "-".
// Stdin documents are sniffed: anything not starting with '{' is read as YAML.
func LoadWorkflow(path string) (*models.Workflow, error) {
	var (
		data   []byte
		err    error
		format Format
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
		format = sniffFormat(data)
	} else {
		data, err = os.ReadFile(path)
		format = FormatFromPath(path)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read workflow %s: %w", path, err)
	}

	workflow, err := ParseWorkflow(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse workflow %s: %w", path, err)
	}

	return workflow, nil
}

// ParseWorkflow decodes a workflow document. YAML is normalised through JSON
// so both formats yield the same value types (numbers become float64).
func ParseWorkflow(data []byte, format Format) (*models.Workflow, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	if format == FormatYAML {
		var document any
		if err := yaml.Unmarshal(data, &document); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}

		converted, err := json.Marshal(document)
		if err != nil {
			return nil, fmt.Errorf("failed to normalise YAML document: %w", err)
		}

		data = converted
	}

	var workflow models.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if workflow.Blocks == nil {
		workflow.Blocks = []*models.WorkflowBlock{}
	}

	if workflow.Connections == nil {
		workflow.Connections = []*models.Connection{}
	}

	return &workflow, nil
}

func sniffFormat(data []byte) Format {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return FormatJSON
	}

	return FormatYAML
}
