// Package dispatch routes trigger requests to the component that runs them.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowforge/flowforge/pkg/eventbus"
	"github.com/flowforge/flowforge/pkg/events"
	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/flowforge/flowforge/pkg/workflow"
	"github.com/google/uuid"
)

// Mode selects a Dispatcher implementation.
type Mode string

const (
	ModeDirect   Mode = "direct"
	ModeEventBus Mode = "eventbus"
)

// ErrUnsupportedMode is returned for an unknown dispatch mode.
var ErrUnsupportedMode = errors.New("unsupported dispatch mode")

// Request asks for one run. Workflow, when set, is run as an inline document;
// otherwise WorkflowID is loaded from the store.
type Request struct {
	WorkflowID string
	Workflow   *models.Workflow
	Trigger    workflow.Trigger
}

// Dispatcher starts runs without waiting for them. The returned record is a
// snapshot of the run at hand-off time.
type Dispatcher interface {
	Dispatch(ctx context.Context, request Request) (*models.ExecutionRecord, error)
}

// DirectDispatcher runs workflows in-process through a workflow.Manager.
type DirectDispatcher struct {
	manager *workflow.Manager
}

func NewDirectDispatcher(manager *workflow.Manager) *DirectDispatcher {
	return &DirectDispatcher{manager: manager}
}

func (d *DirectDispatcher) Dispatch(ctx context.Context, request Request) (*models.ExecutionRecord, error) {
	if request.Workflow != nil {
		return d.manager.StartWorkflow(ctx, request.Workflow, request.Trigger)
	}

	return d.manager.Start(ctx, request.WorkflowID, request.Trigger)
}

// EventBusDispatcher publishes a workflow.triggered event for a worker to pick up.
type EventBusDispatcher struct {
	publisher eventbus.EventPublisher
	workflows persistence.WorkflowRepository
	logger    *slog.Logger
}

func NewEventBusDispatcher(publisher eventbus.EventPublisher, workflows persistence.WorkflowRepository, logger *slog.Logger) *EventBusDispatcher {
	return &EventBusDispatcher{
		publisher: publisher,
		workflows: workflows,
		logger:    logger.With("module", "eventbus_dispatcher"),
	}
}

// Dispatch checks that a stored workflow exists, then publishes. The returned
// record is pending; the worker owns it from then on.
func (d *EventBusDispatcher) Dispatch(ctx context.Context, request Request) (*models.ExecutionRecord, error) {
	workflowID := request.WorkflowID

	if request.Workflow != nil {
		workflowID = request.Workflow.ID
	} else {
		_, err := d.workflows.GetByID(ctx, workflowID)
		if err != nil {
			return nil, err
		}
	}

	executionID := request.Trigger.ExecutionID
	if executionID == "" {
		executionID = uuid.NewString()
	}

	event := &events.WorkflowTriggered{
		BaseEvent:     events.NewBaseEvent(events.WorkflowTriggeredEvent, workflowID),
		ExecutionID:   executionID,
		TriggerSource: request.Trigger.Source,
		TriggerData:   request.Trigger.Data,
		Workflow:      request.Workflow,
	}

	err := d.publisher.Publish(ctx, executionID, event)
	if err != nil {
		return nil, fmt.Errorf("failed to publish trigger for workflow %s: %w", workflowID, err)
	}

	d.logger.InfoContext(ctx, "Workflow trigger published",
		"workflow_id", workflowID,
		"execution_id", executionID,
		"trigger_source", request.Trigger.Source,
	)

	return models.NewExecutionRecord(executionID, workflowID, request.Trigger.Source), nil
}
