package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowforge/flowforge/pkg/dispatch"
	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/flowforge/flowforge/pkg/workflow"
)

// DefaultExecutionLimit bounds execution listings when no limit is given.
const DefaultExecutionLimit = 50

// WebhookTriggerSource is the trigger source of webhook runs.
const WebhookTriggerSource = "webhook"

// Canceller stops in-flight executions.
type Canceller interface {
	Cancel(executionID string) error
}

// Execution starts runs and reads their records.
type Execution struct {
	persistence persistence.Persistence
	dispatcher  dispatch.Dispatcher
	canceller   Canceller
	workflows   *Workflow
	logger      *slog.Logger
}

// NewExecution creates the execution service. canceller may be nil when runs
// happen out of process.
func NewExecution(
	p persistence.Persistence,
	dispatcher dispatch.Dispatcher,
	canceller Canceller,
	workflows *Workflow,
	logger *slog.Logger,
) *Execution {
	return &Execution{
		persistence: p,
		dispatcher:  dispatcher,
		canceller:   canceller,
		workflows:   workflows,
		logger:      logger.With("module", "execution_service"),
	}
}

// Execute starts a run of a stored workflow and returns its initial record.
func (e *Execution) Execute(ctx context.Context, workflowID, source string, data map[string]any) (*models.ExecutionRecord, error) {
	record, err := e.dispatcher.Dispatch(ctx, dispatch.Request{
		WorkflowID: workflowID,
		Trigger:    workflow.Trigger{Source: source, Data: data},
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ExecuteWebhook runs a stored workflow for an inbound webhook. Only active
// workflows accept webhooks.
func (e *Execution) ExecuteWebhook(ctx context.Context, workflowID string, payload map[string]any) (*models.ExecutionRecord, error) {
	wf, err := e.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if !wf.Active {
		return nil, fmt.Errorf("%w: %s", ErrWorkflowInactive, workflowID)
	}

	return e.Execute(ctx, workflowID, WebhookTriggerSource, payload)
}

// ExecuteInline validates and runs a workflow document that is not stored.
func (e *Execution) ExecuteInline(ctx context.Context, wf *models.Workflow, source string, data map[string]any) (*models.ExecutionRecord, error) {
	if err := e.workflows.Validate(wf); err != nil {
		return nil, err
	}

	return e.dispatcher.Dispatch(ctx, dispatch.Request{
		Workflow: wf,
		Trigger:  workflow.Trigger{Source: source, Data: data},
	})
}

// ListByWorkflow returns the workflow's records, newest first.
func (e *Execution) ListByWorkflow(ctx context.Context, workflowID string, limit int) ([]*models.ExecutionRecord, error) {
	_, err := e.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultExecutionLimit
	}

	records, err := e.persistence.ExecutionRepository().GetByWorkflow(ctx, workflowID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	return records, nil
}

func (e *Execution) FetchByID(ctx context.Context, executionID string) (*models.ExecutionRecord, error) {
	return e.persistence.ExecutionRepository().GetByID(ctx, executionID)
}

// Logs returns the log entries of one execution in emission order.
func (e *Execution) Logs(ctx context.Context, executionID string) ([]models.ExecutionLog, error) {
	record, err := e.persistence.ExecutionRepository().GetByID(ctx, executionID)
	if err != nil {
		return nil, err
	}

	return record.Logs, nil
}

// Cancel stops a running execution.
func (e *Execution) Cancel(ctx context.Context, executionID string) error {
	record, err := e.persistence.ExecutionRepository().GetByID(ctx, executionID)
	if err != nil {
		return err
	}

	if record.Status.IsTerminal() {
		return fmt.Errorf("%w: %s is %s", ErrExecutionNotRunning, executionID, record.Status)
	}

	if e.canceller == nil {
		return ErrCancelUnsupported
	}

	err = e.canceller.Cancel(executionID)
	if err != nil {
		return err
	}

	e.logger.InfoContext(ctx, "Execution cancelled", "execution_id", executionID)

	return nil
}
