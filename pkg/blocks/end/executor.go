// Package end provides the executor for end blocks.
package end

import (
	"context"

	"github.com/flowforge/flowforge/pkg/models"
)

// Executor marks a terminal block; nothing after it is visited from this path.
type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Type() models.BlockType {
	return models.BlockTypeEnd
}

func (e *Executor) Name() string {
	return "End"
}

func (e *Executor) Description() string {
	return "Terminates the current path of the workflow"
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{"type": "object"}
}

func (e *Executor) Execute(
	_ context.Context,
	block *models.WorkflowBlock,
	_ models.BlockConfig,
	execCtx *models.ExecutionContext,
) (models.BlockOutcome, error) {
	execCtx.Info(block.ID, "Reached end block", nil)

	return models.BlockOutcome{Success: true, Halt: true, Message: "Reached end block"}, nil
}
