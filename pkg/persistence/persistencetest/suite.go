// Package persistencetest holds the behaviour every persistence backend must share.
package persistencetest

import (
	"testing"
	"time"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory builds an empty backend for one subtest.
type Factory func(t *testing.T) persistence.Persistence

// Run exercises the repositories of the backend built by factory.
func Run(t *testing.T, factory Factory) {
	t.Helper()

	t.Run("workflow round trip", func(t *testing.T) { testWorkflowRoundTrip(t, factory(t)) })
	t.Run("workflow not found", func(t *testing.T) { testWorkflowNotFound(t, factory(t)) })
	t.Run("workflow list and delete", func(t *testing.T) { testWorkflowListAndDelete(t, factory(t)) })
	t.Run("execution round trip", func(t *testing.T) { testExecutionRoundTrip(t, factory(t)) })
	t.Run("executions by workflow", func(t *testing.T) { testExecutionsByWorkflow(t, factory(t)) })
	t.Run("schedules", func(t *testing.T) { testSchedules(t, factory(t)) })
	t.Run("health check", func(t *testing.T) { require.NoError(t, factory(t).HealthCheck(t.Context())) })
}

// SampleWorkflow returns a small trigger -> api_call -> end workflow.
func SampleWorkflow(id string) *models.Workflow {
	return &models.Workflow{
		ID:          id,
		Name:        "Workflow " + id,
		Description: "sample",
		Active:      true,
		TriggerType: models.TriggerTypeManual,
		Blocks: []*models.WorkflowBlock{
			{ID: "t", Type: models.BlockTypeTrigger, Label: "Start", Position: &models.Position{X: 10, Y: 20}},
			{ID: "a", Type: models.BlockTypeAPICall, Config: map[string]any{"url": "https://example.com", "method": "GET"}},
			{ID: "e", Type: models.BlockTypeEnd},
		},
		Connections: []*models.Connection{
			{ID: "c1", Source: "t", Target: "a", Condition: "always"},
			{ID: "c2", Source: "a", Target: "e"},
		},
	}
}

func sampleRecord(id, workflowID string, startedAt time.Time) *models.ExecutionRecord {
	record := models.NewExecutionRecord(id, workflowID, "manual")
	_ = record.Start(startedAt)
	_ = record.Finalize(models.ExecutionStatusCompleted, startedAt.Add(time.Second), "", []models.ExecutionLog{
		{ID: id + "-l1", ExecutionID: id, Level: models.LogLevelInfo, Message: "Starting", Timestamp: startedAt},
		{ID: id + "-l2", ExecutionID: id, BlockID: "t", Level: models.LogLevelWarning, Message: "Careful", Data: map[string]any{"n": 1.0}, Timestamp: startedAt.Add(time.Millisecond)},
	})

	return record
}

func testWorkflowRoundTrip(t *testing.T, p persistence.Persistence) {
	ctx := t.Context()
	workflow := SampleWorkflow("wf-1")

	require.NoError(t, p.WorkflowRepository().Save(ctx, workflow))
	assert.False(t, workflow.CreatedAt.IsZero())
	assert.False(t, workflow.UpdatedAt.IsZero())

	loaded, err := p.WorkflowRepository().GetByID(ctx, "wf-1")
	require.NoError(t, err)

	assert.Equal(t, workflow.Name, loaded.Name)
	assert.True(t, loaded.Active)
	require.Len(t, loaded.Blocks, 3)
	assert.Equal(t, models.BlockTypeAPICall, loaded.Blocks[1].Type)
	assert.Equal(t, "https://example.com", loaded.Blocks[1].Config["url"])
	assert.Equal(t, "Start", loaded.Blocks[0].Label)
	require.NotNil(t, loaded.Blocks[0].Position)
	assert.InDelta(t, 20.0, loaded.Blocks[0].Position.Y, 0)
	require.Len(t, loaded.Connections, 2)
	assert.Equal(t, "always", loaded.Connections[0].Condition)

	createdAt := loaded.CreatedAt

	loaded.Name = "Renamed"
	require.NoError(t, p.WorkflowRepository().Save(ctx, loaded))

	reloaded, err := p.WorkflowRepository().GetByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)
	assert.True(t, reloaded.CreatedAt.Equal(createdAt))
}

func testWorkflowNotFound(t *testing.T, p persistence.Persistence) {
	_, err := p.WorkflowRepository().GetByID(t.Context(), "missing")
	assert.ErrorIs(t, err, persistence.ErrWorkflowNotFound)

	err = p.WorkflowRepository().Delete(t.Context(), "missing")
	assert.ErrorIs(t, err, persistence.ErrWorkflowNotFound)
}

func testWorkflowListAndDelete(t *testing.T, p persistence.Persistence) {
	ctx := t.Context()

	first := SampleWorkflow("wf-a")
	first.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := SampleWorkflow("wf-b")
	second.CreatedAt = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, p.WorkflowRepository().Save(ctx, first))
	require.NoError(t, p.WorkflowRepository().Save(ctx, second))

	all, err := p.WorkflowRepository().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "wf-b", all[0].ID)
	assert.Equal(t, "wf-a", all[1].ID)

	require.NoError(t, p.WorkflowRepository().Delete(ctx, "wf-a"))

	all, err = p.WorkflowRepository().GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "wf-b", all[0].ID)
}

func testExecutionRoundTrip(t *testing.T, p persistence.Persistence) {
	ctx := t.Context()
	startedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	running := models.NewExecutionRecord("exec-1", "wf-1", "api")
	require.NoError(t, running.Start(startedAt))
	require.NoError(t, p.ExecutionRepository().Save(ctx, running))

	loaded, err := p.ExecutionRepository().GetByID(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, loaded.Status)
	assert.Nil(t, loaded.CompletedAt)

	finished := sampleRecord("exec-1", "wf-1", startedAt)
	require.NoError(t, p.ExecutionRepository().Save(ctx, finished))

	loaded, err = p.ExecutionRepository().GetByID(ctx, "exec-1")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusCompleted, loaded.Status)
	require.NotNil(t, loaded.CompletedAt)
	assert.True(t, loaded.CompletedAt.After(loaded.StartedAt))
	require.Len(t, loaded.Logs, 2)
	assert.Equal(t, "Careful", loaded.Logs[1].Message)
	assert.Equal(t, models.LogLevelWarning, loaded.Logs[1].Level)
	assert.Equal(t, "t", loaded.Logs[1].BlockID)
	assert.InDelta(t, 1.0, loaded.Logs[1].Data["n"], 0)

	_, err = p.ExecutionRepository().GetByID(ctx, "missing")
	assert.ErrorIs(t, err, persistence.ErrExecutionNotFound)
}

func testExecutionsByWorkflow(t *testing.T, p persistence.Persistence) {
	ctx := t.Context()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, p.ExecutionRepository().Save(ctx, sampleRecord("e1", "wf-1", base)))
	require.NoError(t, p.ExecutionRepository().Save(ctx, sampleRecord("e2", "wf-1", base.Add(time.Hour))))
	require.NoError(t, p.ExecutionRepository().Save(ctx, sampleRecord("e3", "wf-2", base)))

	records, err := p.ExecutionRepository().GetByWorkflow(ctx, "wf-1", 0)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "e2", records[0].ID)
	assert.Equal(t, "e1", records[1].ID)

	limited, err := p.ExecutionRepository().GetByWorkflow(ctx, "wf-1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "e2", limited[0].ID)

	require.NoError(t, p.ExecutionRepository().DeleteByWorkflow(ctx, "wf-1"))

	records, err = p.ExecutionRepository().GetByWorkflow(ctx, "wf-1", 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	other, err := p.ExecutionRepository().GetByWorkflow(ctx, "wf-2", 0)
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func testSchedules(t *testing.T, p persistence.Persistence) {
	ctx := t.Context()

	daily, err := models.NewSchedule("s1", "wf-1", "daily")
	require.NoError(t, err)
	hourly, err := models.NewSchedule("s2", "wf-2", "hourly")
	require.NoError(t, err)

	require.NoError(t, p.ScheduleRepository().Save(ctx, daily))
	require.NoError(t, p.ScheduleRepository().Save(ctx, hourly))

	loaded, err := p.ScheduleRepository().GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "daily", loaded.Expression)
	assert.Equal(t, "0 0 * * *", loaded.CronExpression)
	assert.True(t, loaded.Active)
	assert.True(t, loaded.NextDueAt.Equal(daily.NextDueAt))

	all, err := p.ScheduleRepository().GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byWorkflow, err := p.ScheduleRepository().GetByWorkflow(ctx, "wf-2")
	require.NoError(t, err)
	require.Len(t, byWorkflow, 1)
	assert.Equal(t, "s2", byWorkflow[0].ID)

	require.NoError(t, p.ScheduleRepository().Delete(ctx, "s1"))
	_, err = p.ScheduleRepository().GetByID(ctx, "s1")
	assert.ErrorIs(t, err, persistence.ErrScheduleNotFound)
	assert.ErrorIs(t, p.ScheduleRepository().Delete(ctx, "s1"), persistence.ErrScheduleNotFound)
}
