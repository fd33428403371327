// Package events defines event types and structures for workflow lifecycle notifications.
package events

import (
	"time"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/google/uuid"
)

type EventType string

// Topic carries every workflow event.
const Topic = "flowforge.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Dispatch events.
	WorkflowTriggeredEvent EventType = "workflow.triggered"

	// Workflow execution lifecycle events.
	WorkflowExecutionStartedEvent   EventType = "workflow.execution.started"
	WorkflowExecutionCompletedEvent EventType = "workflow.execution.completed"
	WorkflowExecutionFailedEvent    EventType = "workflow.execution.failed"
	WorkflowExecutionCancelledEvent EventType = "workflow.execution.cancelled"

	// Block events.
	BlockExecutedEvent EventType = "block.executed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	WorkerID   string         `json:"worker_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a new event of eventType.
func NewBaseEvent(eventType EventType, workflowID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
	}
}

// WorkflowTriggered asks a worker to run a workflow. Workflow carries an inline
// document; when nil the worker loads WorkflowID from the store.
type WorkflowTriggered struct {
	BaseEvent

	ExecutionID   string           `json:"execution_id,omitempty"`
	TriggerSource string           `json:"trigger_source"`
	TriggerData   map[string]any   `json:"trigger_data,omitempty"`
	Workflow      *models.Workflow `json:"workflow,omitempty"`
}

func (w WorkflowTriggered) GetType() EventType {
	return WorkflowTriggeredEvent
}

type WorkflowExecutionStarted struct {
	BaseEvent

	ExecutionID   string `json:"execution_id"`
	WorkflowName  string `json:"workflow_name"`
	TriggerSource string `json:"trigger_source"`
}

func (w WorkflowExecutionStarted) GetType() EventType {
	return WorkflowExecutionStartedEvent
}

type WorkflowExecutionCompleted struct {
	BaseEvent

	ExecutionID    string `json:"execution_id"`
	Status         string `json:"status"`
	DurationMs     int64  `json:"duration_ms"`
	BlocksExecuted int    `json:"blocks_executed"`
}

func (w WorkflowExecutionCompleted) GetType() EventType {
	return WorkflowExecutionCompletedEvent
}

type WorkflowExecutionFailed struct {
	BaseEvent

	ExecutionID    string `json:"execution_id"`
	Status         string `json:"status"`
	DurationMs     int64  `json:"duration_ms"`
	BlockID        string `json:"block_id,omitempty"`
	Error          string `json:"error"`
	BlocksExecuted int    `json:"blocks_executed"`
}

func (w WorkflowExecutionFailed) GetType() EventType {
	return WorkflowExecutionFailedEvent
}

type WorkflowExecutionCancelled struct {
	BaseEvent

	ExecutionID    string `json:"execution_id"`
	DurationMs     int64  `json:"duration_ms"`
	BlocksExecuted int    `json:"blocks_executed"`
}

func (w WorkflowExecutionCancelled) GetType() EventType {
	return WorkflowExecutionCancelledEvent
}

// BlockExecuted reports one dispatched block.
type BlockExecuted struct {
	BaseEvent

	ExecutionID string           `json:"execution_id"`
	BlockID     string           `json:"block_id"`
	BlockType   models.BlockType `json:"block_type"`
	Success     bool             `json:"success"`
	Halted      bool             `json:"halted"`
	DurationMs  int64            `json:"duration_ms"`
	Error       string           `json:"error,omitempty"`
}

func (b BlockExecuted) GetType() EventType {
	return BlockExecutedEvent
}
