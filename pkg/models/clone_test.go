package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkflow_CloneIsIndependent(t *testing.T) {
	original := &Workflow{
		ID:          "wf",
		Name:        "Original",
		Blocks:      []*WorkflowBlock{{ID: "a", Type: BlockTypeTrigger, Config: map[string]any{"k": "v"}, Position: &Position{X: 1}}},
		Connections: []*Connection{{ID: "c", Source: "a", Target: "b"}},
	}

	clone := original.Clone()
	clone.Name = "Clone"
	clone.Blocks[0].Config["k"] = "changed"
	clone.Blocks[0].Position.X = 9
	clone.Connections[0].Target = "z"

	assert.Equal(t, "Original", original.Name)
	assert.Equal(t, "v", original.Blocks[0].Config["k"])
	assert.InDelta(t, 1.0, original.Blocks[0].Position.X, 0)
	assert.Equal(t, "b", original.Connections[0].Target)

	var nilWorkflow *Workflow
	assert.Nil(t, nilWorkflow.Clone())
}

func TestExecutionRecord_CloneIsIndependent(t *testing.T) {
	record := NewExecutionRecord("e", "wf", "manual")
	require.NoError(t, record.Start(time.Now()))
	require.NoError(t, record.Finalize(ExecutionStatusCompleted, time.Now(), "", []ExecutionLog{{Message: "one"}}))

	clone := record.Clone()
	clone.Logs[0].Message = "changed"
	*clone.CompletedAt = clone.CompletedAt.Add(time.Hour)

	assert.Equal(t, "one", record.Logs[0].Message)
	assert.True(t, record.CompletedAt.Before(*clone.CompletedAt))
}
