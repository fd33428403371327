package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
)

// ScheduleRepository stores one JSON file per schedule.
type ScheduleRepository struct {
	p *Persistence
}

func (sr *ScheduleRepository) GetAll(_ context.Context) ([]*models.Schedule, error) {
	sr.p.mu.RLock()
	defer sr.p.mu.RUnlock()

	return sr.filter(func(*models.Schedule) bool { return true })
}

func (sr *ScheduleRepository) GetByID(_ context.Context, scheduleID string) (*models.Schedule, error) {
	sr.p.mu.RLock()
	defer sr.p.mu.RUnlock()

	var schedule models.Schedule

	if err := sr.p.readJSON(schedulesDir, scheduleID, &schedule); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.NewScheduleError("GetByID", scheduleID, persistence.ErrScheduleNotFound)
		}

		return nil, fmt.Errorf("failed to fetch schedule %s: %w", scheduleID, err)
	}

	return &schedule, nil
}

func (sr *ScheduleRepository) GetByWorkflow(_ context.Context, workflowID string) ([]*models.Schedule, error) {
	sr.p.mu.RLock()
	defer sr.p.mu.RUnlock()

	return sr.filter(func(schedule *models.Schedule) bool { return schedule.WorkflowID == workflowID })
}

func (sr *ScheduleRepository) Save(_ context.Context, schedule *models.Schedule) error {
	sr.p.mu.Lock()
	defer sr.p.mu.Unlock()

	if err := sr.p.writeJSON(schedulesDir, schedule.ID, schedule); err != nil {
		return persistence.NewScheduleError("Save", schedule.ID, err)
	}

	return nil
}

func (sr *ScheduleRepository) Delete(_ context.Context, scheduleID string) error {
	sr.p.mu.Lock()
	defer sr.p.mu.Unlock()

	if err := sr.p.remove(schedulesDir, scheduleID); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return persistence.NewScheduleError("Delete", scheduleID, persistence.ErrScheduleNotFound)
		}

		return fmt.Errorf("failed to delete schedule %s: %w", scheduleID, err)
	}

	return nil
}

func (sr *ScheduleRepository) filter(keep func(*models.Schedule) bool) ([]*models.Schedule, error) {
	schedules := make([]*models.Schedule, 0)

	err := sr.p.readAll(schedulesDir, func(body []byte) error {
		var schedule models.Schedule
		if err := json.Unmarshal(body, &schedule); err != nil {
			return err
		}

		if keep(&schedule) {
			schedules = append(schedules, &schedule)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	persistence.SortSchedules(schedules)

	return schedules, nil
}
