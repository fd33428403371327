package models

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/google/uuid"
)

// ExecutionContext is the run-scoped state shared by the blocks of one execution:
// a variable store and an append-only log sequence. It is not safe for
// concurrent use; a run dispatches one block at a time.
type ExecutionContext struct {
	ID            string
	WorkflowID    string
	TriggerSource string
	TriggerData   map[string]any

	variables map[string]any
	logs      []ExecutionLog
	now       func() time.Time
	logger    *slog.Logger
}

// NewExecutionContext creates an empty context. A nil clock uses time.Now.
func NewExecutionContext(id, workflowID string, now func() time.Time, logger *slog.Logger) *ExecutionContext {
	if now == nil {
		now = time.Now
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &ExecutionContext{
		ID:          id,
		WorkflowID:  workflowID,
		TriggerData: make(map[string]any),
		variables:   make(map[string]any),
		now:         now,
		logger:      logger,
	}
}

// Get returns a variable and whether it is set.
func (c *ExecutionContext) Get(name string) (any, bool) {
	value, ok := c.variables[name]

	return value, ok
}

// Set stores a variable.
func (c *ExecutionContext) Set(name string, value any) {
	c.variables[name] = value
}

// Variables returns a copy of the variable store.
func (c *ExecutionContext) Variables() map[string]any {
	return maps.Clone(c.variables)
}

// Log appends an entry to the run's log trail and mirrors it to the process logger.
// Timestamps are strictly increasing in emission order.
func (c *ExecutionContext) Log(level LogLevel, blockID, message string, data map[string]any) ExecutionLog {
	timestamp := c.now()
	if n := len(c.logs); n > 0 && !timestamp.After(c.logs[n-1].Timestamp) {
		timestamp = c.logs[n-1].Timestamp.Add(time.Nanosecond)
	}

	entry := ExecutionLog{
		ID:          uuid.NewString(),
		ExecutionID: c.ID,
		BlockID:     blockID,
		Level:       level,
		Message:     message,
		Data:        data,
		Timestamp:   timestamp,
	}

	c.logs = append(c.logs, entry)

	attrs := []any{"execution_id", c.ID}
	if blockID != "" {
		attrs = append(attrs, "block_id", blockID)
	}

	c.logger.Log(context.Background(), slogLevel(level), message, attrs...)

	return entry
}

// Info appends an info entry.
func (c *ExecutionContext) Info(blockID, message string, data map[string]any) {
	c.Log(LogLevelInfo, blockID, message, data)
}

// Warn appends a warning entry.
func (c *ExecutionContext) Warn(blockID, message string, data map[string]any) {
	c.Log(LogLevelWarning, blockID, message, data)
}

// Error appends an error entry.
func (c *ExecutionContext) Error(blockID, message string, data map[string]any) {
	c.Log(LogLevelError, blockID, message, data)
}

// Debug appends a debug entry.
func (c *ExecutionContext) Debug(blockID, message string, data map[string]any) {
	c.Log(LogLevelDebug, blockID, message, data)
}

// Logs returns a copy of the log sequence.
func (c *ExecutionContext) Logs() []ExecutionLog {
	return append(make([]ExecutionLog, 0, len(c.logs)), c.logs...)
}

func slogLevel(level LogLevel) slog.Level {
	switch level {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarning:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
