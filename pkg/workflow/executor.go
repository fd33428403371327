// Package workflow runs workflow graphs and manages in-flight executions.
package workflow

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/flowforge/flowforge/pkg/eventbus"
	"github.com/flowforge/flowforge/pkg/events"
	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/otelhelper"
	"github.com/flowforge/flowforge/pkg/registry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultBlockTimeout bounds every I/O-bound block.
const DefaultBlockTimeout = 30 * time.Second

// TriggerVariable is the variable under which the trigger payload is exposed to blocks.
const TriggerVariable = "trigger"

// Trigger describes what started a run.
type Trigger struct {
	// Source names the entry point: manual, schedule, webhook, api, cli...
	Source string
	// Data is the trigger payload. Its keys are seeded into the variable store.
	Data map[string]any
	// ExecutionID forces the record id; empty means generate one.
	ExecutionID string
}

// Executor walks a workflow graph and folds the run into an ExecutionRecord.
// One Executor is shared by every run; it holds no per-run state.
type Executor struct {
	registry     *registry.Registry
	logger       *slog.Logger
	tracer       trace.Tracer
	publisher    eventbus.EventPublisher
	blockTimeout time.Duration
	now          func() time.Time
	newID        func() string
}

// Option configures an Executor.
type Option func(*Executor)

// WithBlockTimeout sets the timeout applied to I/O-bound blocks.
func WithBlockTimeout(timeout time.Duration) Option {
	return func(e *Executor) {
		if timeout > 0 {
			e.blockTimeout = timeout
		}
	}
}

// WithClock replaces the clock used for record and log timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Executor) {
		e.now = now
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *Executor) {
		e.tracer = tracer
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithPublisher publishes lifecycle events. Publish failures are logged and never affect a run.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(e *Executor) {
		e.publisher = publisher
	}
}

// WithIDGenerator replaces the execution id generator.
func WithIDGenerator(newID func() string) Option {
	return func(e *Executor) {
		e.newID = newID
	}
}

func NewExecutor(registry *registry.Registry, opts ...Option) *Executor {
	e := &Executor{
		registry:     registry,
		logger:       slog.Default(),
		tracer:       otelhelper.NoopTracer(),
		publisher:    eventbus.NopPublisher{},
		blockTimeout: DefaultBlockTimeout,
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With("module", "workflow_executor")

	return e
}

// Begin creates the record of a new run in the running state.
func (e *Executor) Begin(workflowID string, trigger Trigger) *models.ExecutionRecord {
	id := trigger.ExecutionID
	if id == "" {
		id = e.newID()
	}

	record := models.NewExecutionRecord(id, workflowID, trigger.Source)
	_ = record.Start(e.now())

	return record
}

// Execute runs workflow to completion and returns its finalized record.
func (e *Executor) Execute(ctx context.Context, workflow *models.Workflow, trigger Trigger) *models.ExecutionRecord {
	return e.Run(ctx, e.Begin(workflow.ID, trigger), workflow, trigger)
}

// Run drives a record created by Begin to a terminal status. The record is
// finalized exactly once and returned. Cancelling ctx stops the run before
// the next block is dispatched.
func (e *Executor) Run(ctx context.Context, record *models.ExecutionRecord, workflow *models.Workflow, trigger Trigger) *models.ExecutionRecord {
	logger := e.logger.With("workflow_id", workflow.ID, "execution_id", record.ID)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.WorkflowNameKey, workflow.Name),
		attribute.String(otelhelper.ExecutionIDKey, record.ID),
		attribute.String(otelhelper.TriggerSourceKey, trigger.Source),
	)
	defer span.End()

	execCtx := models.NewExecutionContext(record.ID, workflow.ID, e.now, logger)
	execCtx.TriggerSource = trigger.Source

	if trigger.Data != nil {
		execCtx.TriggerData = maps.Clone(trigger.Data)

		for key, value := range trigger.Data {
			execCtx.Set(key, value)
		}

		execCtx.Set(TriggerVariable, maps.Clone(trigger.Data))
	}

	e.publish(ctx, logger, record.ID, &events.WorkflowExecutionStarted{
		BaseEvent:     events.NewBaseEvent(events.WorkflowExecutionStartedEvent, workflow.ID),
		ExecutionID:   record.ID,
		WorkflowName:  workflow.Name,
		TriggerSource: trigger.Source,
	})

	execCtx.Info("", "Starting workflow execution: "+workflow.Name, nil)

	run := &run{executor: e, workflow: workflow, record: record, execCtx: execCtx, logger: logger}
	status, failedBlock, err := run.walk(ctx)

	switch status {
	case models.ExecutionStatusCompleted:
		execCtx.Info("", "Workflow execution completed successfully", nil)
	case models.ExecutionStatusCancelled:
		execCtx.Warn("", "Workflow execution cancelled", map[string]any{"reason": context.Cause(ctx).Error()})
	default:
		execCtx.Error("", "Workflow execution failed: "+err.Error(), nil)
		otelhelper.SetError(span, err, attribute.String(otelhelper.BlockIDKey, failedBlock))
	}

	errorMessage := ""
	if err != nil {
		errorMessage = err.Error()
	}

	finalizeErr := record.Finalize(status, e.now(), errorMessage, execCtx.Logs())
	if finalizeErr != nil {
		logger.ErrorContext(ctx, "Failed to finalize execution record", "error", finalizeErr)
	}

	span.SetAttributes(attribute.String(otelhelper.StatusKey, string(record.Status)))

	e.publishOutcome(ctx, logger, record, failedBlock, run.executed)

	return record
}

func (e *Executor) publishOutcome(ctx context.Context, logger *slog.Logger, record *models.ExecutionRecord, failedBlock string, executed int) {
	var durationMs int64
	if record.CompletedAt != nil {
		durationMs = record.CompletedAt.Sub(record.StartedAt).Milliseconds()
	}

	switch record.Status {
	case models.ExecutionStatusCompleted:
		e.publish(ctx, logger, record.ID, &events.WorkflowExecutionCompleted{
			BaseEvent:      events.NewBaseEvent(events.WorkflowExecutionCompletedEvent, record.WorkflowID),
			ExecutionID:    record.ID,
			Status:         string(record.Status),
			DurationMs:     durationMs,
			BlocksExecuted: executed,
		})
	case models.ExecutionStatusCancelled:
		e.publish(ctx, logger, record.ID, &events.WorkflowExecutionCancelled{
			BaseEvent:      events.NewBaseEvent(events.WorkflowExecutionCancelledEvent, record.WorkflowID),
			ExecutionID:    record.ID,
			DurationMs:     durationMs,
			BlocksExecuted: executed,
		})
	default:
		e.publish(ctx, logger, record.ID, &events.WorkflowExecutionFailed{
			BaseEvent:      events.NewBaseEvent(events.WorkflowExecutionFailedEvent, record.WorkflowID),
			ExecutionID:    record.ID,
			Status:         string(record.Status),
			DurationMs:     durationMs,
			BlockID:        failedBlock,
			Error:          record.ErrorMessage,
			BlocksExecuted: executed,
		})
	}
}

func (e *Executor) publish(ctx context.Context, logger *slog.Logger, key string, event eventbus.Event) {
	// Lifecycle events go out even when the run itself was cancelled.
	err := e.publisher.Publish(context.WithoutCancel(ctx), key, event)
	if err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}
