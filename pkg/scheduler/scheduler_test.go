package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/flowforge/flowforge/pkg/dispatch"
	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/flowforge/flowforge/pkg/persistence/memory"
	"github.com/flowforge/flowforge/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	requests []dispatch.Request
	err      error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, request dispatch.Request) (*models.ExecutionRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.err != nil {
		return nil, d.err
	}

	d.requests = append(d.requests, request)

	return models.NewExecutionRecord("exec", request.WorkflowID, request.Trigger.Source), nil
}

func newTestScheduler(t *testing.T) (*Scheduler, *memory.Persistence, *recordingDispatcher, *models.Workflow) {
	t.Helper()

	store := memory.NewPersistence()
	dispatcher := &recordingDispatcher{}
	wf := testutil.LinearWorkflow(models.BlockTypeAction)
	require.NoError(t, store.WorkflowRepository().Save(context.Background(), wf))

	return New(store.ScheduleRepository(), store.WorkflowRepository(), dispatcher, testutil.DiscardLogger()), store, dispatcher, wf
}

func TestScheduler_Add(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantCron   string
		wantErr    error
	}{
		{name: "named daily", expression: "daily", wantCron: "0 0 * * *"},
		{name: "named evening", expression: "daily-6pm", wantCron: "0 18 * * *"},
		{name: "named case insensitive", expression: "Every-Minute", wantCron: "* * * * *"},
		{name: "raw cron", expression: "15 3 * * 1", wantCron: "15 3 * * 1"},
		{name: "invalid", expression: "every full moon", wantErr: models.ErrInvalidSchedule},
		{name: "empty", expression: "", wantErr: models.ErrInvalidSchedule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, store, _, wf := newTestScheduler(t)
			ctx := context.Background()

			schedule, err := s.Add(ctx, wf.ID, tt.expression)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, s.Registered())

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCron, schedule.CronExpression)
			assert.True(t, schedule.Active)
			assert.True(t, schedule.NextDueAt.After(time.Now().Add(-time.Second)))
			assert.Equal(t, []string{schedule.ID}, s.Registered())

			stored, err := store.ScheduleRepository().GetByID(ctx, schedule.ID)
			require.NoError(t, err)
			assert.Equal(t, schedule.CronExpression, stored.CronExpression)
		})
	}
}

func TestScheduler_AddUnknownWorkflow(t *testing.T) {
	s, _, _, _ := newTestScheduler(t)

	_, err := s.Add(context.Background(), "missing", "hourly")
	assert.ErrorIs(t, err, persistence.ErrWorkflowNotFound)
}

func TestScheduler_StartRegistersActiveSchedules(t *testing.T) {
	s, store, _, wf := newTestScheduler(t)
	ctx := context.Background()

	active, err := models.NewSchedule("active", wf.ID, "hourly")
	require.NoError(t, err)

	inactive, err := models.NewSchedule("inactive", wf.ID, "hourly")
	require.NoError(t, err)

	inactive.Active = false

	require.NoError(t, store.ScheduleRepository().Save(ctx, active))
	require.NoError(t, store.ScheduleRepository().Save(ctx, inactive))

	require.NoError(t, s.Start(ctx))
	assert.Equal(t, []string{"active"}, s.Registered())

	next, ok := s.NextRun("active")
	require.True(t, ok)
	assert.Equal(t, 0, next.Minute())

	stopCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	require.NoError(t, s.Stop(stopCtx))
	assert.ErrorIs(t, s.Stop(stopCtx), ErrNotStarted)
}

func TestScheduler_Remove(t *testing.T) {
	s, store, _, wf := newTestScheduler(t)
	ctx := context.Background()

	schedule, err := s.Add(ctx, wf.ID, "weekly")
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, schedule.ID))
	assert.Empty(t, s.Registered())

	_, err = store.ScheduleRepository().GetByID(ctx, schedule.ID)
	assert.True(t, persistence.IsScheduleNotFound(err))

	assert.ErrorIs(t, s.Remove(ctx, schedule.ID), persistence.ErrScheduleNotFound)
}

func TestScheduler_RemoveWorkflow(t *testing.T) {
	s, store, _, wf := newTestScheduler(t)
	ctx := context.Background()

	for _, expression := range []string{"hourly", "daily"} {
		_, err := s.Add(ctx, wf.ID, expression)
		require.NoError(t, err)
	}

	require.NoError(t, s.RemoveWorkflow(ctx, wf.ID))
	assert.Empty(t, s.Registered())

	remaining, err := store.ScheduleRepository().GetByWorkflow(ctx, wf.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestScheduler_FireDispatchesAndAdvances(t *testing.T) {
	s, store, dispatcher, wf := newTestScheduler(t)
	ctx := context.Background()

	schedule, err := s.Add(ctx, wf.ID, "every-minute")
	require.NoError(t, err)

	schedule.NextDueAt = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, store.ScheduleRepository().Save(ctx, schedule))

	s.fire(ctx, schedule.ID)

	require.Len(t, dispatcher.requests, 1)

	request := dispatcher.requests[0]
	assert.Equal(t, wf.ID, request.WorkflowID)
	assert.Equal(t, TriggerSource, request.Trigger.Source)
	assert.Equal(t, schedule.ID, request.Trigger.Data["schedule_id"])
	assert.Equal(t, "* * * * *", request.Trigger.Data["cron_expression"])

	stored, err := store.ScheduleRepository().GetByID(ctx, schedule.ID)
	require.NoError(t, err)
	assert.True(t, stored.NextDueAt.After(time.Now().UTC()))
}

func TestScheduler_FireDeactivatesOrphanedSchedule(t *testing.T) {
	s, store, dispatcher, wf := newTestScheduler(t)
	ctx := context.Background()

	schedule, err := s.Add(ctx, wf.ID, "hourly")
	require.NoError(t, err)

	dispatcher.err = persistence.NewWorkflowError("get", wf.ID, persistence.ErrWorkflowNotFound)

	s.fire(ctx, schedule.ID)

	assert.Empty(t, s.Registered())

	stored, err := store.ScheduleRepository().GetByID(ctx, schedule.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestScheduler_FireKeepsScheduleOnDispatchError(t *testing.T) {
	s, _, dispatcher, wf := newTestScheduler(t)
	ctx := context.Background()

	schedule, err := s.Add(ctx, wf.ID, "hourly")
	require.NoError(t, err)

	dispatcher.err = errors.New("broker down")

	s.fire(ctx, schedule.ID)

	assert.Equal(t, []string{schedule.ID}, s.Registered())
}
