package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/flowforge/flowforge/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

type Workflow struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(p persistence.Persistence, reg *registry.Registry, validate *validator.Validate, logger *slog.Logger) *Workflow {
	return &Workflow{
		persistence: p,
		registry:    reg,
		validator:   validate,
		logger:      logger.With("module", "workflow_service"),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := w.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// List returns every stored workflow, most recently created first.
func (w *Workflow) List(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := w.persistence.WorkflowRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// FetchByID retrieves a workflow by its ID.
func (w *Workflow) FetchByID(ctx context.Context, id string) (*models.Workflow, error) {
	return w.persistence.WorkflowRepository().GetByID(ctx, id)
}

// Validate checks a workflow document: struct tags, unique block ids,
// connection endpoints and every block configuration. All problems are
// reported together.
func (w *Workflow) Validate(workflow *models.Workflow) error {
	if workflow == nil {
		return ErrWorkflowNil
	}

	var details []string

	err := w.validator.Struct(workflow)
	if err != nil {
		var fieldErrors validator.ValidationErrors
		if !errors.As(err, &fieldErrors) {
			return NewValidationError("Validate", "INVALID_WORKFLOW", ErrInvalidWorkflow, err.Error())
		}

		for _, fieldErr := range fieldErrors {
			details = append(details, fmt.Sprintf("%s failed on '%s'", fieldErr.Namespace(), fieldErr.Tag()))
		}
	}

	seen := make(map[string]bool, len(workflow.Blocks))

	for _, block := range workflow.Blocks {
		if block == nil {
			details = append(details, "block cannot be null")

			continue
		}

		if block.ID != "" && seen[block.ID] {
			details = append(details, fmt.Sprintf("%s: %s", ErrDuplicateBlockID, block.ID))
		}

		seen[block.ID] = true

		if err := w.registry.ValidateConfig(block); err != nil {
			details = append(details, err.Error())
		}
	}

	for _, conn := range workflow.DanglingConnections() {
		details = append(details, fmt.Sprintf("%s: %s -> %s", ErrDanglingConnection, conn.Source, conn.Target))
	}

	if len(details) > 0 {
		return NewValidationError("Validate", "INVALID_WORKFLOW", ErrInvalidWorkflow, details...)
	}

	return nil
}

// Create validates and stores a new workflow under a fresh id.
func (w *Workflow) Create(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if err := w.Validate(workflow); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	workflow.ID = uuid.NewString()
	workflow.CreatedAt = now
	workflow.UpdatedAt = now

	err := w.persistence.WorkflowRepository().Save(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to create workflow: %w", err)
	}

	w.logger.InfoContext(ctx, "Workflow created", "workflow_id", workflow.ID, "blocks", len(workflow.Blocks))

	return workflow, nil
}

// Update replaces an existing workflow by its ID, keeping its creation time.
func (w *Workflow) Update(ctx context.Context, workflowID string, workflow *models.Workflow) (*models.Workflow, error) {
	if err := w.Validate(workflow); err != nil {
		return nil, err
	}

	existing, err := w.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	workflow.ID = workflowID
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	err = w.persistence.WorkflowRepository().Save(ctx, workflow)
	if err != nil {
		return nil, fmt.Errorf("failed to update workflow: %w", err)
	}

	w.logger.InfoContext(ctx, "Workflow updated", "workflow_id", workflowID)

	return workflow, nil
}

// Delete removes a workflow together with its execution records and schedules.
func (w *Workflow) Delete(ctx context.Context, workflowID string) error {
	_, err := w.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return err
	}

	schedules, err := w.persistence.ScheduleRepository().GetByWorkflow(ctx, workflowID)
	if err != nil {
		return fmt.Errorf("failed to load schedules: %w", err)
	}

	for _, schedule := range schedules {
		err := w.persistence.ScheduleRepository().Delete(ctx, schedule.ID)
		if err != nil && !persistence.IsScheduleNotFound(err) {
			return fmt.Errorf("failed to delete schedule %s: %w", schedule.ID, err)
		}
	}

	err = w.persistence.ExecutionRepository().DeleteByWorkflow(ctx, workflowID)
	if err != nil {
		return fmt.Errorf("failed to delete executions: %w", err)
	}

	err = w.persistence.WorkflowRepository().Delete(ctx, workflowID)
	if err != nil {
		return fmt.Errorf("failed to delete workflow: %w", err)
	}

	w.logger.InfoContext(ctx, "Workflow deleted", "workflow_id", workflowID, "schedules", len(schedules))

	return nil
}
