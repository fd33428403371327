package models

import (
	"errors"
	"fmt"
	"time"
)

// ExecutionStatus is the lifecycle state of one run.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// IsTerminal reports whether the status ends a run.
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionStatusCompleted || s == ExecutionStatusFailed || s == ExecutionStatusCancelled
}

// ErrInvalidStatusTransition is returned when a record would move backwards or be finalized twice.
var ErrInvalidStatusTransition = errors.New("invalid execution status transition")

// LogLevel is the severity of an execution log entry.
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// ExecutionLog is one append-only entry of a run's log trail.
type ExecutionLog struct {
	ID          string         `json:"id"`
	ExecutionID string         `json:"execution_id"`
	BlockID     string         `json:"block_id,omitempty"`
	Level       LogLevel       `json:"level"`
	Message     string         `json:"message"`
	Data        map[string]any `json:"data,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// ExecutionRecord is the externally visible result of one run.
type ExecutionRecord struct {
	ID            string          `json:"execution_id"`
	WorkflowID    string          `json:"workflow_id"`
	Status        ExecutionStatus `json:"status"`
	TriggerSource string          `json:"trigger_source"`
	StartedAt     time.Time       `json:"started_at"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
	Logs          []ExecutionLog  `json:"logs"`
}

// NewExecutionRecord creates a record in the pending state.
func NewExecutionRecord(id, workflowID, triggerSource string) *ExecutionRecord {
	return &ExecutionRecord{
		ID:            id,
		WorkflowID:    workflowID,
		Status:        ExecutionStatusPending,
		TriggerSource: triggerSource,
		Logs:          []ExecutionLog{},
	}
}

// Start moves a pending record to running.
func (r *ExecutionRecord) Start(at time.Time) error {
	if r.Status != ExecutionStatusPending {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, r.Status, ExecutionStatusRunning)
	}

	r.Status = ExecutionStatusRunning
	r.StartedAt = at

	return nil
}

// Finalize moves a running record to a terminal status exactly once.
// The completion timestamp is kept strictly after the start timestamp.
func (r *ExecutionRecord) Finalize(status ExecutionStatus, at time.Time, errorMessage string, logs []ExecutionLog) error {
	if !status.IsTerminal() || r.Status != ExecutionStatusRunning {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, r.Status, status)
	}

	if !at.After(r.StartedAt) {
		at = r.StartedAt.Add(time.Nanosecond)
	}

	r.Status = status
	r.CompletedAt = &at

	if status == ExecutionStatusFailed {
		r.ErrorMessage = errorMessage
	}

	r.Logs = append(make([]ExecutionLog, 0, len(logs)), logs...)

	return nil
}

// Succeeded reports whether the run completed.
func (r *ExecutionRecord) Succeeded() bool {
	return r.Status == ExecutionStatusCompleted
}
