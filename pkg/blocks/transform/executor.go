// Package transform provides the executor for data_transform blocks.
package transform

import (
	"context"
	"fmt"

	"github.com/flowforge/flowforge/pkg/models"
)

// Executor inspects the configured operations. Variables are left untouched.
type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Type() models.BlockType {
	return models.BlockTypeDataTransform
}

func (e *Executor) Name() string {
	return "Data Transform"
}

func (e *Executor) Description() string {
	return "Describes a list of transformation operations over workflow data"
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operations": map[string]any{
				"type":        "array",
				"description": "Transformation operations",
				"items":       map[string]any{"type": "object"},
			},
		},
	}
}

func (e *Executor) Execute(
	_ context.Context,
	block *models.WorkflowBlock,
	config models.BlockConfig,
	execCtx *models.ExecutionContext,
) (models.BlockOutcome, error) {
	transformConfig, ok := config.(models.DataTransformConfig)
	if !ok {
		return models.BlockOutcome{}, fmt.Errorf("%w: expected data_transform configuration, got %T", models.ErrMalformedConfig, config)
	}

	count := len(transformConfig.Operations)

	execCtx.Info(block.ID, fmt.Sprintf("Applying %d transformation operations", count), map[string]any{"operations": count})
	execCtx.Info(block.ID, "Data transformation completed", nil)

	return models.BlockOutcome{Success: true, Message: "Data transformation completed", Data: map[string]any{"operations": count}}, nil
}
