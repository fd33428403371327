package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
)

// ScheduleManager registers and removes live schedules.
type ScheduleManager interface {
	Add(ctx context.Context, workflowID, expression string) (*models.Schedule, error)
	Remove(ctx context.Context, scheduleID string) error
}

type Schedule struct {
	persistence persistence.Persistence
	manager     ScheduleManager
}

func NewSchedule(p persistence.Persistence, manager ScheduleManager) *Schedule {
	return &Schedule{persistence: p, manager: manager}
}

// Create schedules workflowID. Expression is a named schedule or a cron expression.
func (s *Schedule) Create(ctx context.Context, workflowID, expression string) (*models.Schedule, error) {
	schedule, err := s.manager.Add(ctx, workflowID, expression)
	if errors.Is(err, models.ErrInvalidSchedule) {
		return nil, NewValidationError("CreateSchedule", "INVALID_SCHEDULE", err, err.Error())
	}

	return schedule, err
}

// List returns every schedule, or only those of workflowID when it is set.
func (s *Schedule) List(ctx context.Context, workflowID string) ([]*models.Schedule, error) {
	var (
		schedules []*models.Schedule
		err       error
	)

	if workflowID == "" {
		schedules, err = s.persistence.ScheduleRepository().GetAll(ctx)
	} else {
		schedules, err = s.persistence.ScheduleRepository().GetByWorkflow(ctx, workflowID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	return schedules, nil
}

func (s *Schedule) Delete(ctx context.Context, scheduleID string) error {
	return s.manager.Remove(ctx, scheduleID)
}
