// Package action provides the generic executor shared by action and database blocks.
package action

import (
	"context"
	"fmt"

	"github.com/flowforge/flowforge/pkg/models"
)

// Executor records the block's configuration and succeeds.
type Executor struct {
	kind models.BlockType
}

// NewExecutor creates an executor for kind, which is action or database.
func NewExecutor(kind models.BlockType) *Executor {
	return &Executor{kind: kind}
}

func (e *Executor) Type() models.BlockType {
	return e.kind
}

func (e *Executor) Name() string {
	if e.kind == models.BlockTypeDatabase {
		return "Database"
	}

	return "Action"
}

func (e *Executor) Description() string {
	if e.kind == models.BlockTypeDatabase {
		return "Placeholder for a database operation; logs its configuration"
	}

	return "Custom action; logs its configuration"
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name": map[string]any{
				"type":        "string",
				"description": "Action name",
			},
			"operation": map[string]any{
				"type":        "string",
				"description": "Operation identifier",
			},
		},
		"additionalProperties": true,
	}
}

func (e *Executor) Execute(
	_ context.Context,
	block *models.WorkflowBlock,
	config models.BlockConfig,
	execCtx *models.ExecutionContext,
) (models.BlockOutcome, error) {
	actionConfig, ok := config.(models.ActionConfig)
	if !ok {
		return models.BlockOutcome{}, fmt.Errorf("%w: expected %s configuration, got %T", models.ErrMalformedConfig, e.kind, config)
	}

	message := "Executing custom action"
	if actionConfig.Kind == models.BlockTypeDatabase {
		message = "Executing database operation"
	}

	if actionConfig.Operation != "" {
		message += ": " + actionConfig.Operation
	}

	execCtx.Info(block.ID, message, actionConfig.Raw)
	execCtx.Info(block.ID, "Action completed", nil)

	return models.BlockOutcome{Success: true, Message: "Action completed"}, nil
}
