package services

import (
	"context"
	"testing"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/flowforge/flowforge/pkg/persistence/memory"
	"github.com/flowforge/flowforge/pkg/scheduler"
	"github.com/flowforge/flowforge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedule_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := memory.NewPersistence()

	wf := testutil.LinearWorkflow()
	require.NoError(t, store.WorkflowRepository().Save(ctx, wf))

	other := testutil.LinearWorkflow()
	require.NoError(t, store.WorkflowRepository().Save(ctx, other))

	sched := scheduler.New(store.ScheduleRepository(), store.WorkflowRepository(), nil, testutil.DiscardLogger())
	service := NewSchedule(store, sched)

	daily, err := service.Create(ctx, wf.ID, "daily")
	require.NoError(t, err)
	assert.Equal(t, "0 0 * * *", daily.CronExpression)

	_, err = service.Create(ctx, other.ID, "*/10 * * * *")
	require.NoError(t, err)

	_, err = service.Create(ctx, wf.ID, "whenever")
	assert.True(t, IsValidationError(err))
	assert.ErrorIs(t, err, models.ErrInvalidSchedule)

	_, err = service.Create(ctx, "missing", "daily")
	assert.ErrorIs(t, err, persistence.ErrWorkflowNotFound)

	all, err := service.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := service.List(ctx, wf.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, daily.ID, mine[0].ID)

	require.NoError(t, service.Delete(ctx, daily.ID))
	assert.ErrorIs(t, service.Delete(ctx, daily.ID), persistence.ErrScheduleNotFound)
}
