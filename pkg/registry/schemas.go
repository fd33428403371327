package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidBlockConfig is returned when a block's configuration does not satisfy its schema.
var ErrInvalidBlockConfig = errors.New("invalid block configuration")

// ValidateConfig checks block's configuration against the schema of its executor
// and then parses it into the typed variant. Unregistered types are only parsed.
func (r *Registry) ValidateConfig(block *models.WorkflowBlock) error {
	if executor, ok := r.Resolve(block.Type); ok {
		if err := validateAgainstSchema(executor.Schema(), block.Config); err != nil {
			return fmt.Errorf("block %s (%s): %w", block.ID, block.Type, err)
		}
	}

	if _, err := models.ParseBlockConfig(block); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBlockConfig, err)
	}

	return nil
}

func validateAgainstSchema(schema map[string]any, config map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	if config == nil {
		config = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBlockConfig, err)
	}

	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}

		return fmt.Errorf("%w: %s", ErrInvalidBlockConfig, strings.Join(problems, "; "))
	}

	return nil
}
