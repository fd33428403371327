// Package memory provides an in-process persistence implementation for tests and single-shot runs.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
)

// Persistence keeps every entity in maps guarded by one lock. Values are copied
// on the way in and out so callers never share state with the store.
type Persistence struct {
	mu         sync.RWMutex
	workflows  map[string]*models.Workflow
	executions map[string]*models.ExecutionRecord
	schedules  map[string]*models.Schedule
}

func NewPersistence() *Persistence {
	return &Persistence{
		workflows:  make(map[string]*models.Workflow),
		executions: make(map[string]*models.ExecutionRecord),
		schedules:  make(map[string]*models.Schedule),
	}
}

func (p *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return &workflowRepository{p: p}
}

func (p *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return &executionRepository{p: p}
}

func (p *Persistence) ScheduleRepository() persistence.ScheduleRepository {
	return &scheduleRepository{p: p}
}

func (p *Persistence) HealthCheck(_ context.Context) error {
	return nil
}

func (p *Persistence) Close(_ context.Context) error {
	return nil
}

type workflowRepository struct {
	p *Persistence
}

func (r *workflowRepository) GetAll(_ context.Context) ([]*models.Workflow, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	workflows := make([]*models.Workflow, 0, len(r.p.workflows))
	for _, workflow := range r.p.workflows {
		workflows = append(workflows, workflow.Clone())
	}

	persistence.SortWorkflows(workflows)

	return workflows, nil
}

func (r *workflowRepository) GetByID(_ context.Context, id string) (*models.Workflow, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	workflow, ok := r.p.workflows[id]
	if !ok {
		return nil, persistence.NewWorkflowError("GetByID", id, persistence.ErrWorkflowNotFound)
	}

	return workflow.Clone(), nil
}

func (r *workflowRepository) Save(_ context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()
	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	r.p.workflows[workflow.ID] = workflow.Clone()

	return nil
}

func (r *workflowRepository) Delete(_ context.Context, id string) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	if _, ok := r.p.workflows[id]; !ok {
		return persistence.NewWorkflowError("Delete", id, persistence.ErrWorkflowNotFound)
	}

	delete(r.p.workflows, id)

	return nil
}

type executionRepository struct {
	p *Persistence
}

func (r *executionRepository) Save(_ context.Context, record *models.ExecutionRecord) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	r.p.executions[record.ID] = record.Clone()

	return nil
}

func (r *executionRepository) GetByID(_ context.Context, id string) (*models.ExecutionRecord, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	record, ok := r.p.executions[id]
	if !ok {
		return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
	}

	return record.Clone(), nil
}

func (r *executionRepository) GetByWorkflow(_ context.Context, workflowID string, limit int) ([]*models.ExecutionRecord, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	var records []*models.ExecutionRecord

	for _, record := range r.p.executions {
		if record.WorkflowID == workflowID {
			records = append(records, record.Clone())
		}
	}

	persistence.SortExecutions(records)

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

func (r *executionRepository) DeleteByWorkflow(_ context.Context, workflowID string) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	for id, record := range r.p.executions {
		if record.WorkflowID == workflowID {
			delete(r.p.executions, id)
		}
	}

	return nil
}

type scheduleRepository struct {
	p *Persistence
}

func (r *scheduleRepository) GetAll(_ context.Context) ([]*models.Schedule, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	schedules := make([]*models.Schedule, 0, len(r.p.schedules))
	for _, schedule := range r.p.schedules {
		schedules = append(schedules, schedule.Clone())
	}

	persistence.SortSchedules(schedules)

	return schedules, nil
}

func (r *scheduleRepository) GetByID(_ context.Context, id string) (*models.Schedule, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	schedule, ok := r.p.schedules[id]
	if !ok {
		return nil, persistence.NewScheduleError("GetByID", id, persistence.ErrScheduleNotFound)
	}

	return schedule.Clone(), nil
}

func (r *scheduleRepository) GetByWorkflow(_ context.Context, workflowID string) ([]*models.Schedule, error) {
	r.p.mu.RLock()
	defer r.p.mu.RUnlock()

	var schedules []*models.Schedule

	for _, schedule := range r.p.schedules {
		if schedule.WorkflowID == workflowID {
			schedules = append(schedules, schedule.Clone())
		}
	}

	persistence.SortSchedules(schedules)

	return schedules, nil
}

func (r *scheduleRepository) Save(_ context.Context, schedule *models.Schedule) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	r.p.schedules[schedule.ID] = schedule.Clone()

	return nil
}

func (r *scheduleRepository) Delete(_ context.Context, id string) error {
	r.p.mu.Lock()
	defer r.p.mu.Unlock()

	if _, ok := r.p.schedules[id]; !ok {
		return persistence.NewScheduleError("Delete", id, persistence.ErrScheduleNotFound)
	}

	delete(r.p.schedules, id)

	return nil
}
