// Package delay provides the executor for delay blocks.
package delay

import (
	"context"
	"fmt"
	"time"

	"github.com/flowforge/flowforge/pkg/models"
)

// DefaultMaxDelay is the ceiling applied to every requested delay.
const DefaultMaxDelay = 3 * time.Second

// Executor suspends the run for the requested duration, clamped to a ceiling.
type Executor struct {
	maxDelay time.Duration
}

// Option configures the delay executor.
type Option func(*Executor)

// WithMaxDelay overrides the delay ceiling.
func WithMaxDelay(maxDelay time.Duration) Option {
	return func(e *Executor) {
		e.maxDelay = maxDelay
	}
}

func NewExecutor(opts ...Option) *Executor {
	e := &Executor{maxDelay: DefaultMaxDelay}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func (e *Executor) Type() models.BlockType {
	return models.BlockTypeDelay
}

func (e *Executor) Name() string {
	return "Delay"
}

func (e *Executor) Description() string {
	return "Waits before continuing; long waits are clamped"
}

func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"duration": map[string]any{
				"type":        "number",
				"description": "Amount of time to wait",
				"default":     models.DefaultDelayDuration,
				"minimum":     0,
			},
			"unit": map[string]any{
				"type":        "string",
				"description": "Unit of the duration; unknown units are read as seconds",
				"default":     models.DefaultDelayUnit,
				"examples":    []string{"seconds", "minutes", "hours"},
			},
		},
	}
}

// Effective returns the wait actually performed for config.
func (e *Executor) Effective(config models.DelayConfig) time.Duration {
	return min(config.Requested(), e.maxDelay)
}

// Execute waits. It returns early without failing when ctx is done.
func (e *Executor) Execute(
	ctx context.Context,
	block *models.WorkflowBlock,
	config models.BlockConfig,
	execCtx *models.ExecutionContext,
) (models.BlockOutcome, error) {
	delayConfig, ok := config.(models.DelayConfig)
	if !ok {
		return models.BlockOutcome{}, fmt.Errorf("%w: expected delay configuration, got %T", models.ErrMalformedConfig, config)
	}

	wait := e.Effective(delayConfig)
	data := map[string]any{
		"requested_ms": delayConfig.Requested().Milliseconds(),
		"waited_ms":    wait.Milliseconds(),
	}

	execCtx.Info(block.ID, fmt.Sprintf("Waiting for %v %s", delayConfig.Duration, delayConfig.Unit), data)

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
		execCtx.Warn(block.ID, "Delay interrupted", map[string]any{"reason": ctx.Err().Error()})

		return models.BlockOutcome{Success: true, Message: "Delay interrupted", Data: data}, nil
	}

	execCtx.Info(block.ID, "Delay completed", nil)

	return models.BlockOutcome{Success: true, Message: "Delay completed", Data: data}, nil
}
