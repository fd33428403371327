package delay

import (
	"context"
	"testing"
	"time"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_Effective(t *testing.T) {
	executor := NewExecutor()

	tests := []struct {
		name     string
		config   models.DelayConfig
		expected time.Duration
	}{
		{"short seconds", models.DelayConfig{Duration: 1, Unit: "seconds"}, time.Second},
		{"fractional", models.DelayConfig{Duration: 0.5, Unit: "seconds"}, 500 * time.Millisecond},
		{"minutes clamp", models.DelayConfig{Duration: 2, Unit: "minutes"}, DefaultMaxDelay},
		{"hours clamp", models.DelayConfig{Duration: 1, Unit: "hours"}, DefaultMaxDelay},
		{"unknown unit reads seconds", models.DelayConfig{Duration: 2, Unit: "fortnights"}, 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, executor.Effective(tt.config))
		})
	}
}

func TestExecutor_Execute(t *testing.T) {
	executor := NewExecutor(WithMaxDelay(10 * time.Millisecond))

	block := &models.WorkflowBlock{ID: "d1", Type: models.BlockTypeDelay, Config: map[string]any{"duration": 5, "unit": "minutes"}}
	config, err := models.ParseBlockConfig(block)
	require.NoError(t, err)

	execCtx := models.NewExecutionContext("exec-1", "wf-1", nil, nil)

	start := time.Now()
	outcome, err := executor.Execute(context.Background(), block, config, execCtx)
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second)
	assert.True(t, outcome.Success)
	assert.Equal(t, int64(300000), outcome.Data["requested_ms"])
	assert.Equal(t, int64(10), outcome.Data["waited_ms"])

	logs := execCtx.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "Waiting for 5 minutes", logs[0].Message)
	assert.Equal(t, "Delay completed", logs[1].Message)
}

func TestExecutor_ReturnsWhenContextDone(t *testing.T) {
	executor := NewExecutor(WithMaxDelay(time.Hour))

	block := &models.WorkflowBlock{ID: "d1", Type: models.BlockTypeDelay, Config: map[string]any{"duration": 1, "unit": "hours"}}
	config, err := models.ParseBlockConfig(block)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := executor.Execute(ctx, block, config, models.NewExecutionContext("e", "w", nil, nil))
	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "Delay interrupted", outcome.Message)
}
