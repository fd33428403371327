// Package generic provides the fallback executor for block types without a dedicated one.
package generic

import (
	"context"

	"github.com/flowforge/flowforge/pkg/models"
)

// Executor logs that the block ran and succeeds.
type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

// Type returns an empty tag; the generic executor is never registered under a type.
func (e *Executor) Type() models.BlockType {
	return ""
}

func (e *Executor) Name() string {
	return "Generic"
}

func (e *Executor) Description() string {
	return "Fallback for block types without a dedicated executor"
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{"type": "object", "additionalProperties": true}
}

func (e *Executor) Execute(
	_ context.Context,
	block *models.WorkflowBlock,
	_ models.BlockConfig,
	execCtx *models.ExecutionContext,
) (models.BlockOutcome, error) {
	message := "Executed " + string(block.Type) + " block"
	execCtx.Info(block.ID, message, nil)

	return models.BlockOutcome{Success: true, Message: message}, nil
}
