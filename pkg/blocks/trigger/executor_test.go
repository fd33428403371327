package trigger

import (
	"context"
	"testing"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_Execute(t *testing.T) {
	block := &models.WorkflowBlock{ID: "t1", Type: models.BlockTypeTrigger, Config: map[string]any{"triggerType": "webhook"}}
	config, err := models.ParseBlockConfig(block)
	require.NoError(t, err)

	execCtx := models.NewExecutionContext("exec-1", "wf-1", nil, nil)
	execCtx.TriggerSource = "api"
	execCtx.TriggerData = map[string]any{"order": 7, "customer": "c-1"}

	outcome, err := NewExecutor().Execute(context.Background(), block, config, execCtx)
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.False(t, outcome.Halt)

	logs := execCtx.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, models.LogLevelInfo, logs[0].Level)
	assert.Equal(t, "Workflow triggered by webhook", logs[0].Message)
	assert.Equal(t, "api", logs[0].Data["trigger_source"])
	assert.Equal(t, []string{"customer", "order"}, logs[0].Data["payload_keys"])
}

func TestExecutor_DefaultsToManual(t *testing.T) {
	block := &models.WorkflowBlock{ID: "t1", Type: models.BlockTypeTrigger}
	config, err := models.ParseBlockConfig(block)
	require.NoError(t, err)

	execCtx := models.NewExecutionContext("exec-1", "wf-1", nil, nil)

	outcome, err := NewExecutor().Execute(context.Background(), block, config, execCtx)
	require.NoError(t, err)
	assert.Equal(t, "Workflow triggered by manual", outcome.Message)
	assert.NotContains(t, outcome.Data, "payload_keys")
}

func TestExecutor_WrongConfig(t *testing.T) {
	block := &models.WorkflowBlock{ID: "t1", Type: models.BlockTypeTrigger}
	execCtx := models.NewExecutionContext("exec-1", "wf-1", nil, nil)

	_, err := NewExecutor().Execute(context.Background(), block, models.EndConfig{}, execCtx)
	assert.ErrorIs(t, err, models.ErrMalformedConfig)
}
