// Package web provides the REST API handlers for workflows, executions and schedules.
package web

import "github.com/flowforge/flowforge/pkg/models"

// WorkflowRequest is the body of workflow create and update calls.
type WorkflowRequest struct {
	Name          string                  `json:"name"                     validate:"required,min=1"`
	Description   string                  `json:"description"`
	Active        *bool                   `json:"active,omitempty"`
	TriggerType   models.TriggerType      `json:"trigger_type,omitempty"`
	TriggerConfig map[string]any          `json:"trigger_config,omitempty"`
	Blocks        []*models.WorkflowBlock `json:"blocks"`
	Connections   []*models.Connection    `json:"connections"`
}

// ToWorkflow converts the request into a workflow. Active defaults to true.
func (r WorkflowRequest) ToWorkflow() *models.Workflow {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	blocks := r.Blocks
	if blocks == nil {
		blocks = []*models.WorkflowBlock{}
	}

	connections := r.Connections
	if connections == nil {
		connections = []*models.Connection{}
	}

	return &models.Workflow{
		Name:          r.Name,
		Description:   r.Description,
		Active:        active,
		TriggerType:   r.TriggerType,
		TriggerConfig: r.TriggerConfig,
		Blocks:        blocks,
		Connections:   connections,
	}
}

// ExecuteRequest is the optional body of a stored workflow execution.
type ExecuteRequest struct {
	TriggerData map[string]any `json:"trigger_data,omitempty"`
}

// ExecuteInlineRequest carries a workflow document to run without storing it.
type ExecuteInlineRequest struct {
	Workflow    *models.Workflow `json:"workflow"               validate:"required"`
	TriggerData map[string]any   `json:"trigger_data,omitempty"`
}

// ScheduleRequest creates a schedule. Schedule is a named schedule
// (daily, hourly...) or a five-field cron expression.
type ScheduleRequest struct {
	WorkflowID string `json:"workflow_id,omitempty"`
	Schedule   string `json:"schedule"              validate:"required"`
}

// ExecutionResponse is returned when a run is started.
type ExecutionResponse struct {
	ExecutionID string                 `json:"execution_id"`
	WorkflowID  string                 `json:"workflow_id"`
	Status      models.ExecutionStatus `json:"status"`
	Message     string                 `json:"message"`
}

// NewExecutionResponse summarises a freshly dispatched record.
func NewExecutionResponse(record *models.ExecutionRecord) ExecutionResponse {
	return ExecutionResponse{
		ExecutionID: record.ID,
		WorkflowID:  record.WorkflowID,
		Status:      record.Status,
		Message:     "Workflow execution started",
	}
}
