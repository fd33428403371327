// Package scheduler runs workflows on recurring cron schedules.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/flowforge/flowforge/pkg/dispatch"
	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/flowforge/flowforge/pkg/workflow"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// TriggerSource is the trigger source of every scheduled run.
const TriggerSource = "schedule"

// ErrNotStarted is returned by Stop before Start.
var ErrNotStarted = errors.New("scheduler is not started")

// Scheduler keeps one cron entry per active schedule and dispatches the
// schedule's workflow whenever the entry fires.
type Scheduler struct {
	schedules  persistence.ScheduleRepository
	workflows  persistence.WorkflowRepository
	dispatcher dispatch.Dispatcher
	logger     *slog.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID // schedule id -> cron entry
	ctx     context.Context
	started bool
}

func New(
	schedules persistence.ScheduleRepository,
	workflows persistence.WorkflowRepository,
	dispatcher dispatch.Dispatcher,
	logger *slog.Logger,
) *Scheduler {
	logger = logger.With("module", "scheduler")

	return &Scheduler{
		schedules:  schedules,
		workflows:  workflows,
		dispatcher: dispatcher,
		logger:     logger,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cronLogger{logger}),
			cron.Recover(cronLogger{logger}),
		)),
		entries: make(map[string]cron.EntryID),
		ctx:     context.Background(),
	}
}

// Start registers every active stored schedule and starts the cron loop.
// Scheduled runs are dispatched with ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	schedules, err := s.schedules.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.ctx = ctx

	registered := 0

	for _, schedule := range schedules {
		if !schedule.Active {
			continue
		}

		err := s.register(schedule)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to register schedule", "schedule_id", schedule.ID, "error", err)

			continue
		}

		registered++
	}

	s.cron.Start()
	s.started = true

	s.logger.InfoContext(ctx, "Scheduler started", "schedules", registered)

	return nil
}

// Stop halts the cron loop and waits for running jobs or ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()

		return ErrNotStarted
	}

	s.started = false
	s.mu.Unlock()

	select {
	case <-s.cron.Stop().Done():
		s.logger.InfoContext(ctx, "Scheduler stopped")

		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to stop scheduler: %w", ctx.Err())
	}
}

// Add creates, stores and registers a schedule for workflowID. Expression is
// a named schedule (daily, hourly...) or a raw five-field cron expression.
func (s *Scheduler) Add(ctx context.Context, workflowID, expression string) (*models.Schedule, error) {
	_, err := s.workflows.GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	schedule, err := models.NewSchedule(uuid.NewString(), workflowID, expression)
	if err != nil {
		return nil, err
	}

	err = s.schedules.Save(ctx, schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	s.mu.Lock()
	err = s.register(schedule)
	s.mu.Unlock()

	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Schedule created",
		"schedule_id", schedule.ID,
		"workflow_id", workflowID,
		"cron_expression", schedule.CronExpression,
		"next_due_at", schedule.NextDueAt,
	)

	return schedule, nil
}

// Remove unregisters and deletes a schedule.
func (s *Scheduler) Remove(ctx context.Context, scheduleID string) error {
	s.unregister(scheduleID)

	err := s.schedules.Delete(ctx, scheduleID)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Schedule deleted", "schedule_id", scheduleID)

	return nil
}

// RemoveWorkflow deletes every schedule of workflowID.
func (s *Scheduler) RemoveWorkflow(ctx context.Context, workflowID string) error {
	schedules, err := s.schedules.GetByWorkflow(ctx, workflowID)
	if err != nil {
		return err
	}

	for _, schedule := range schedules {
		err := s.Remove(ctx, schedule.ID)
		if err != nil && !persistence.IsScheduleNotFound(err) {
			return err
		}
	}

	return nil
}

// Registered returns the ids of schedules with a live cron entry.
func (s *Scheduler) Registered() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// NextRun returns the next fire time of a registered schedule.
func (s *Scheduler) NextRun(scheduleID string) (time.Time, bool) {
	s.mu.Lock()
	entryID, ok := s.entries[scheduleID]
	s.mu.Unlock()

	if !ok {
		return time.Time{}, false
	}

	return s.cron.Entry(entryID).Next, true
}

// register must be called with mu held.
func (s *Scheduler) register(schedule *models.Schedule) error {
	if previous, ok := s.entries[schedule.ID]; ok {
		s.cron.Remove(previous)
	}

	scheduleID := schedule.ID

	entryID, err := s.cron.AddFunc(schedule.CronExpression, func() {
		s.fire(s.runContext(), scheduleID)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", models.ErrInvalidSchedule, err)
	}

	s.entries[schedule.ID] = entryID

	return nil
}

func (s *Scheduler) unregister(scheduleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entryID, ok := s.entries[scheduleID]; ok {
		s.cron.Remove(entryID)
		delete(s.entries, scheduleID)
	}
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ctx
}

// fire dispatches one scheduled run and advances the schedule's next due time.
// A schedule whose workflow no longer exists is deactivated.
func (s *Scheduler) fire(ctx context.Context, scheduleID string) {
	logger := s.logger.With("schedule_id", scheduleID)

	schedule, err := s.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load schedule", "error", err)

		if persistence.IsScheduleNotFound(err) {
			s.unregister(scheduleID)
		}

		return
	}

	record, err := s.dispatcher.Dispatch(ctx, dispatch.Request{
		WorkflowID: schedule.WorkflowID,
		Trigger: workflow.Trigger{
			Source: TriggerSource,
			Data: map[string]any{
				"schedule_id":     schedule.ID,
				"expression":      schedule.Expression,
				"cron_expression": schedule.CronExpression,
				"due_at":          schedule.NextDueAt.Format(time.RFC3339),
			},
		},
	})

	switch {
	case persistence.IsWorkflowNotFound(err):
		logger.WarnContext(ctx, "Deactivating schedule of deleted workflow", "workflow_id", schedule.WorkflowID)
		s.unregister(scheduleID)

		schedule.Active = false
	case err != nil:
		logger.ErrorContext(ctx, "Failed to dispatch scheduled run", "workflow_id", schedule.WorkflowID, "error", err)
	default:
		logger.InfoContext(ctx, "Scheduled run dispatched", "workflow_id", schedule.WorkflowID, "execution_id", record.ID)
	}

	err = schedule.UpdateNextDueAt()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to compute next due time", "error", err)

		return
	}

	err = s.schedules.Save(ctx, schedule)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to save schedule", "error", err)
	}
}

// cronLogger routes cron's job wrapper logs through slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
