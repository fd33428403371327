// Package trigger provides the executor for trigger blocks, the entry point of a run.
package trigger

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/flowforge/flowforge/pkg/models"
)

// Executor logs how the run was started. It never fails.
type Executor struct{}

// NewExecutor creates a trigger block executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Type returns the block type.
func (e *Executor) Type() models.BlockType {
	return models.BlockTypeTrigger
}

// Name returns the executor name.
func (e *Executor) Name() string {
	return "Trigger"
}

// Description returns the executor description.
func (e *Executor) Description() string {
	return "Entry point of a workflow; records how the execution was started"
}

// Schema returns the JSON schema for trigger block configuration.
func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"triggerType": map[string]any{
				"type":        "string",
				"description": "How the workflow is started",
				"examples":    []string{"manual", "schedule", "webhook", "event"},
				"default":     "manual",
			},
			"name": map[string]any{
				"type":        "string",
				"description": "Display name of the trigger",
			},
		},
	}
}

// Execute logs the trigger source and the keys of the trigger payload.
func (e *Executor) Execute(
	_ context.Context,
	block *models.WorkflowBlock,
	config models.BlockConfig,
	execCtx *models.ExecutionContext,
) (models.BlockOutcome, error) {
	triggerConfig, ok := config.(models.TriggerConfig)
	if !ok {
		return models.BlockOutcome{}, fmt.Errorf("%w: expected trigger configuration, got %T", models.ErrMalformedConfig, config)
	}

	data := map[string]any{"trigger_type": triggerConfig.TriggerType}
	if execCtx.TriggerSource != "" {
		data["trigger_source"] = execCtx.TriggerSource
	}

	if len(execCtx.TriggerData) > 0 {
		data["payload_keys"] = slices.Sorted(maps.Keys(execCtx.TriggerData))
	}

	message := "Workflow triggered by " + triggerConfig.TriggerType
	execCtx.Info(block.ID, message, data)

	return models.BlockOutcome{Success: true, Message: message, Data: data}, nil
}
