package action

import (
	"context"
	"testing"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_EchoesConfig(t *testing.T) {
	tests := []struct {
		name    string
		kind    models.BlockType
		config  map[string]any
		message string
	}{
		{"action", models.BlockTypeAction, map[string]any{"name": "ping"}, "Executing custom action"},
		{"database with operation", models.BlockTypeDatabase, map[string]any{"operation": "insert", "table": "users"}, "Executing database operation: insert"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := &models.WorkflowBlock{ID: "a1", Type: tt.kind, Config: tt.config}
			config, err := models.ParseBlockConfig(block)
			require.NoError(t, err)

			executor := NewExecutor(tt.kind)
			assert.Equal(t, tt.kind, executor.Type())

			execCtx := models.NewExecutionContext("exec-1", "wf-1", nil, nil)

			outcome, err := executor.Execute(context.Background(), block, config, execCtx)
			require.NoError(t, err)
			assert.True(t, outcome.Success)

			logs := execCtx.Logs()
			require.Len(t, logs, 2)
			assert.Equal(t, tt.message, logs[0].Message)
			assert.Equal(t, tt.config, logs[0].Data)
		})
	}
}
