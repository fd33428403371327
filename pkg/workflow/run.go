package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowforge/flowforge/pkg/events"
	"github.com/flowforge/flowforge/pkg/graph"
	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/otelhelper"
	"github.com/flowforge/flowforge/pkg/protocol"
	"go.opentelemetry.io/otel/attribute"
)

// ErrBlockTimeout wraps the error of a block that exceeded its deadline.
var ErrBlockTimeout = errors.New("block timed out")

// run is the state of one execution. It lives for a single Executor.Run call.
type run struct {
	executor *Executor
	workflow *models.Workflow
	record   *models.ExecutionRecord
	execCtx  *models.ExecutionContext
	logger   *slog.Logger
	executed int
}

// walk visits the graph breadth first and reports the terminal status, the id
// of the block that failed the run (if any) and the error behind it.
func (r *run) walk(ctx context.Context) (models.ExecutionStatus, string, error) {
	start, err := graph.FindStartBlock(r.workflow)
	if errors.Is(err, graph.ErrEmptyWorkflow) {
		r.execCtx.Warn("", "Workflow has no blocks", nil)

		return models.ExecutionStatusCompleted, "", nil
	}

	if err != nil {
		return models.ExecutionStatusFailed, "", err
	}

	if start == nil {
		return models.ExecutionStatusFailed, "", graph.ErrNoStartBlock
	}

	walker := graph.NewWalker(r.workflow, start)

	for {
		block, ok := walker.Next()
		if !ok {
			return models.ExecutionStatusCompleted, "", nil
		}

		if ctx.Err() != nil {
			return models.ExecutionStatusCancelled, "", context.Cause(ctx)
		}

		outcome, err := r.dispatch(ctx, block)
		if err != nil {
			return models.ExecutionStatusFailed, block.ID, err
		}

		if !outcome.Halt {
			walker.Expand(block.ID)
		}
	}
}

func (r *run) dispatch(ctx context.Context, block *models.WorkflowBlock) (models.BlockOutcome, error) {
	executor, _ := r.executor.registry.Resolve(block.Type)

	ctx, span := otelhelper.StartSpan(ctx, r.executor.tracer, "block.execute",
		attribute.String(otelhelper.ExecutionIDKey, r.record.ID),
		attribute.String(otelhelper.BlockIDKey, block.ID),
		attribute.String(otelhelper.BlockTypeKey, string(block.Type)),
	)
	defer span.End()

	name := block.DisplayName()
	startedAt := r.executor.now()

	r.execCtx.Info(block.ID, "Executing block: "+name, map[string]any{"type": string(block.Type)})

	outcome, err := r.execute(ctx, executor, block)
	r.executed++

	event := &events.BlockExecuted{
		BaseEvent:   events.NewBaseEvent(events.BlockExecutedEvent, r.workflow.ID),
		ExecutionID: r.record.ID,
		BlockID:     block.ID,
		BlockType:   block.Type,
		Success:     err == nil && outcome.Success,
		Halted:      outcome.Halt,
		DurationMs:  r.executor.now().Sub(startedAt).Milliseconds(),
	}

	switch {
	case err != nil:
		r.execCtx.Error(block.ID, "Block failed: "+err.Error(), nil)
		otelhelper.SetError(span, err, attribute.String(otelhelper.BlockIDKey, block.ID))

		event.Error = err.Error()
	case outcome.Success:
		r.execCtx.Info(block.ID, "Block completed: "+name, nil)
	default:
		r.execCtx.Warn(block.ID, "Block completed with failures: "+name, nil)
	}

	r.executor.publish(ctx, r.logger, r.record.ID, event)

	return outcome, err
}

// execute runs one executor. I/O-bound executors are detached from run
// cancellation and bounded by the block timeout; the rest share the run context.
func (r *run) execute(ctx context.Context, executor protocol.BlockExecutor, block *models.WorkflowBlock) (models.BlockOutcome, error) {
	config, err := models.ParseBlockConfig(block)
	if err != nil {
		return models.BlockOutcome{}, fmt.Errorf("block %s: %w", block.ID, err)
	}

	blockCtx := ctx

	if io, ok := executor.(protocol.IOBound); ok && io.PerformsIO() {
		var cancel context.CancelFunc

		blockCtx, cancel = context.WithTimeout(context.WithoutCancel(ctx), r.executor.blockTimeout)
		defer cancel()
	}

	outcome, err := executor.Execute(blockCtx, block, config, r.execCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		return outcome, fmt.Errorf("%w: %s: %w", ErrBlockTimeout, block.DisplayName(), err)
	}

	return outcome, err
}
