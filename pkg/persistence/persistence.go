// Package persistence provides the data storage abstraction for workflows, execution records and schedules.
package persistence

import (
	"context"

	"github.com/flowforge/flowforge/pkg/models"
)

// Persistence groups the repositories of one storage backend. Every
// implementation is safe for concurrent use.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ExecutionRepository() ExecutionRepository
	ScheduleRepository() ScheduleRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow documents.
type WorkflowRepository interface {
	// GetAll returns every workflow, most recently created first.
	GetAll(ctx context.Context) ([]*models.Workflow, error)
	// GetByID returns ErrWorkflowNotFound when id is unknown.
	GetByID(ctx context.Context, id string) (*models.Workflow, error)
	// Save inserts or replaces a workflow, stamping CreatedAt and UpdatedAt.
	Save(ctx context.Context, workflow *models.Workflow) error
	// Delete returns ErrWorkflowNotFound when id is unknown.
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository stores execution records.
type ExecutionRepository interface {
	// Save inserts or replaces a record.
	Save(ctx context.Context, record *models.ExecutionRecord) error
	// GetByID returns ErrExecutionNotFound when id is unknown.
	GetByID(ctx context.Context, id string) (*models.ExecutionRecord, error)
	// GetByWorkflow returns the workflow's records, most recently started first.
	// A non-positive limit returns all of them.
	GetByWorkflow(ctx context.Context, workflowID string, limit int) ([]*models.ExecutionRecord, error)
	// DeleteByWorkflow removes every record of a workflow.
	DeleteByWorkflow(ctx context.Context, workflowID string) error
}

// ScheduleRepository stores recurring run schedules.
type ScheduleRepository interface {
	GetAll(ctx context.Context) ([]*models.Schedule, error)
	// GetByID returns ErrScheduleNotFound when id is unknown.
	GetByID(ctx context.Context, id string) (*models.Schedule, error)
	GetByWorkflow(ctx context.Context, workflowID string) ([]*models.Schedule, error)
	Save(ctx context.Context, schedule *models.Schedule) error
	// Delete returns ErrScheduleNotFound when id is unknown.
	Delete(ctx context.Context, id string) error
}
