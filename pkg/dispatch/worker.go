package dispatch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flowforge/flowforge/pkg/eventbus"
	"github.com/flowforge/flowforge/pkg/events"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/flowforge/flowforge/pkg/workflow"
)

// Worker consumes workflow.triggered events and runs them through a Manager.
type Worker struct {
	subscriber eventbus.EventSubscriber
	workflows  persistence.WorkflowRepository
	manager    *workflow.Manager
	logger     *slog.Logger
}

func NewWorker(
	subscriber eventbus.EventSubscriber,
	workflows persistence.WorkflowRepository,
	manager *workflow.Manager,
	logger *slog.Logger,
) *Worker {
	return &Worker{
		subscriber: subscriber,
		workflows:  workflows,
		manager:    manager,
		logger:     logger.With("module", "worker"),
	}
}

// Start registers the handler and subscribes. It returns once the subscription is live.
func (w *Worker) Start(ctx context.Context) error {
	err := w.subscriber.Handle(events.WorkflowTriggeredEvent, w.handleTriggered)
	if err != nil {
		return fmt.Errorf("failed to register workflow.triggered handler: %w", err)
	}

	err = w.subscriber.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to events: %w", err)
	}

	w.logger.InfoContext(ctx, "Worker subscribed", "event_type", events.WorkflowTriggeredEvent)

	return nil
}

// handleTriggered runs the requested workflow to completion. Unknown workflows
// are logged and acknowledged so the event is not redelivered forever.
func (w *Worker) handleTriggered(ctx context.Context, event any) error {
	triggered, ok := event.(*events.WorkflowTriggered)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}

	logger := w.logger.With("workflow_id", triggered.WorkflowID, "execution_id", triggered.ExecutionID)

	wf := triggered.Workflow
	if wf == nil {
		var err error

		wf, err = w.workflows.GetByID(ctx, triggered.WorkflowID)
		if persistence.IsWorkflowNotFound(err) {
			logger.WarnContext(ctx, "Dropping trigger for unknown workflow")

			return nil
		}

		if err != nil {
			return err
		}
	}

	record, err := w.manager.RunSync(ctx, wf, workflow.Trigger{
		Source:      triggered.TriggerSource,
		Data:        triggered.TriggerData,
		ExecutionID: triggered.ExecutionID,
	})
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Triggered workflow finished", "status", record.Status)

	return nil
}
