// Package loop provides the executor for loop blocks.
package loop

import (
	"context"
	"fmt"

	"github.com/flowforge/flowforge/pkg/models"
)

// MaxIterationsCap bounds the iterations a loop block performs regardless of its configuration.
const MaxIterationsCap = 3

// Executor runs min(maxIterations, MaxIterationsCap) iterations, one debug log each.
type Executor struct{}

func NewExecutor() *Executor {
	return &Executor{}
}

func (e *Executor) Type() models.BlockType {
	return models.BlockTypeLoop
}

func (e *Executor) Name() string {
	return "Loop"
}

func (e *Executor) Description() string {
	return "Repeats a bounded number of iterations"
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"maxIterations": map[string]any{
				"type":        "integer",
				"description": fmt.Sprintf("Requested iterations, capped at %d", MaxIterationsCap),
				"default":     models.DefaultLoopMaxIterations,
				"minimum":     0,
			},
		},
	}
}

// Execute never fails.
func (e *Executor) Execute(
	_ context.Context,
	block *models.WorkflowBlock,
	config models.BlockConfig,
	execCtx *models.ExecutionContext,
) (models.BlockOutcome, error) {
	loopConfig, ok := config.(models.LoopConfig)
	if !ok {
		return models.BlockOutcome{}, fmt.Errorf("%w: expected loop configuration, got %T", models.ErrMalformedConfig, config)
	}

	execCtx.Info(block.ID, fmt.Sprintf("Starting loop (max %d iterations)", loopConfig.MaxIterations), nil)

	iterations := min(loopConfig.MaxIterations, MaxIterationsCap)
	for i := range iterations {
		execCtx.Debug(block.ID, fmt.Sprintf("Loop iteration %d", i+1), map[string]any{"iteration": i + 1})
	}

	execCtx.Info(block.ID, "Loop completed", map[string]any{"iterations": iterations})

	return models.BlockOutcome{Success: true, Message: "Loop completed", Data: map[string]any{"iterations": iterations}}, nil
}
