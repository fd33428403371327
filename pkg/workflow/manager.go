package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
)

var (
	// ErrExecutionNotRunning is returned when cancelling an unknown or finished execution.
	ErrExecutionNotRunning = errors.New("execution is not running")

	// ErrExecutionCancelled is the cancellation cause of runs stopped through Cancel.
	ErrExecutionCancelled = errors.New("execution cancelled")

	// ErrManagerShutdown is returned by Start after Shutdown and is the cause of runs it stops.
	ErrManagerShutdown = errors.New("workflow manager is shut down")
)

const saveTimeout = 10 * time.Second

type inflight struct {
	cancel context.CancelCauseFunc
	done   chan struct{}
}

// Manager runs persisted executions: it stores the record when a run starts
// and when it ends, and tracks in-flight runs so they can be cancelled.
// It is safe for concurrent use.
type Manager struct {
	persistence persistence.Persistence
	executor    *Executor
	logger      *slog.Logger

	mu       sync.Mutex
	running  map[string]*inflight
	wg       sync.WaitGroup
	closed   bool
	ctx      context.Context
	shutdown context.CancelCauseFunc
}

func NewManager(p persistence.Persistence, executor *Executor, logger *slog.Logger) *Manager {
	ctx, cancel := context.WithCancelCause(context.Background())

	return &Manager{
		persistence: p,
		executor:    executor,
		logger:      logger.With("module", "workflow_manager"),
		running:     make(map[string]*inflight),
		ctx:         ctx,
		shutdown:    cancel,
	}
}

// Start loads a stored workflow and runs it in the background. The returned
// record is a snapshot in the running state.
func (m *Manager) Start(ctx context.Context, workflowID string, trigger Trigger) (*models.ExecutionRecord, error) {
	workflow, err := m.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	return m.StartWorkflow(ctx, workflow, trigger)
}

// StartWorkflow runs workflow in the background. The workflow need not be stored.
func (m *Manager) StartWorkflow(ctx context.Context, workflow *models.Workflow, trigger Trigger) (*models.ExecutionRecord, error) {
	record, runCtx, err := m.begin(ctx, m.ctx, workflow, trigger)
	if err != nil {
		return nil, err
	}

	snapshot := record.Clone()

	go m.finish(runCtx, record, workflow, trigger)

	return snapshot, nil
}

// RunSync runs workflow on the calling goroutine and returns the finalized
// record. Cancelling ctx cancels the run.
func (m *Manager) RunSync(ctx context.Context, workflow *models.Workflow, trigger Trigger) (*models.ExecutionRecord, error) {
	record, runCtx, err := m.begin(ctx, ctx, workflow, trigger)
	if err != nil {
		return nil, err
	}

	stop := context.AfterFunc(m.ctx, func() {
		m.cancelRun(record.ID, ErrManagerShutdown)
	})
	defer stop()

	return m.finish(runCtx, record, workflow, trigger), nil
}

func (m *Manager) begin(ctx, parent context.Context, workflow *models.Workflow, trigger Trigger) (*models.ExecutionRecord, context.Context, error) {
	record := m.executor.Begin(workflow.ID, trigger)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()

		return nil, nil, ErrManagerShutdown
	}

	runCtx, cancel := context.WithCancelCause(parent)
	m.running[record.ID] = &inflight{cancel: cancel, done: make(chan struct{})}
	m.wg.Add(1)
	m.mu.Unlock()

	err := m.persistence.ExecutionRepository().Save(ctx, record)
	if err != nil {
		m.untrack(record.ID)

		return nil, nil, fmt.Errorf("failed to save execution record: %w", err)
	}

	m.logger.InfoContext(ctx, "Execution started",
		"execution_id", record.ID,
		"workflow_id", workflow.ID,
		"trigger_source", trigger.Source,
	)

	return record, runCtx, nil
}

func (m *Manager) finish(ctx context.Context, record *models.ExecutionRecord, workflow *models.Workflow, trigger Trigger) *models.ExecutionRecord {
	defer m.untrack(record.ID)

	record = m.executor.Run(ctx, record, workflow, trigger)

	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()

	err := m.persistence.ExecutionRepository().Save(saveCtx, record)
	if err != nil {
		m.logger.ErrorContext(saveCtx, "Failed to save execution record", "execution_id", record.ID, "error", err)
	}

	m.logger.InfoContext(saveCtx, "Execution finished",
		"execution_id", record.ID,
		"workflow_id", record.WorkflowID,
		"status", record.Status,
	)

	return record
}

func (m *Manager) untrack(executionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.running[executionID]
	if !ok {
		return
	}

	delete(m.running, executionID)
	run.cancel(nil)
	close(run.done)
	m.wg.Done()
}

func (m *Manager) cancelRun(executionID string, cause error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.running[executionID]
	if ok {
		run.cancel(cause)
	}

	return ok
}

// Cancel stops a running execution before its next block is dispatched.
func (m *Manager) Cancel(executionID string) error {
	if !m.cancelRun(executionID, ErrExecutionCancelled) {
		return fmt.Errorf("%w: %s", ErrExecutionNotRunning, executionID)
	}

	m.logger.Info("Execution cancellation requested", "execution_id", executionID)

	return nil
}

// Running returns the ids of in-flight executions.
func (m *Manager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.running))
	for id := range m.running {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}

// Wait blocks until executionID is no longer running or ctx is done.
func (m *Manager) Wait(ctx context.Context, executionID string) error {
	m.mu.Lock()
	run, ok := m.running[executionID]
	m.mu.Unlock()

	if !ok {
		return nil
	}

	select {
	case <-run.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown refuses new runs, cancels in-flight ones and waits for their
// records to be stored.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.shutdown(ErrManagerShutdown)

	done := make(chan struct{})

	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.InfoContext(ctx, "Workflow manager stopped")

		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to drain running executions: %w", ctx.Err())
	}
}
