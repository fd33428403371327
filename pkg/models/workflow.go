// Package models defines the core domain models for block-based workflow automation
package models

import "time"

// TriggerType describes how a workflow is meant to be started.
type TriggerType string

const (
	TriggerTypeManual   TriggerType = "manual"
	TriggerTypeSchedule TriggerType = "schedule"
	TriggerTypeWebhook  TriggerType = "webhook"
	TriggerTypeEvent    TriggerType = "event"
)

// Workflow is the root aggregate: blocks and connections have no existence outside it.
type Workflow struct {
	ID            string           `json:"id"                       yaml:"id"`
	Name          string           `json:"name"                     yaml:"name"                     validate:"required,min=1"`
	Description   string           `json:"description"              yaml:"description"`
	Active        bool             `json:"active"                   yaml:"active"`
	TriggerType   TriggerType      `json:"trigger_type,omitempty"   yaml:"trigger_type,omitempty"   validate:"omitempty,oneof=manual schedule webhook event"`
	TriggerConfig map[string]any   `json:"trigger_config,omitempty" yaml:"trigger_config,omitempty"`
	Blocks        []*WorkflowBlock `json:"blocks"                   yaml:"blocks"                   validate:"dive"`
	Connections   []*Connection    `json:"connections"              yaml:"connections"              validate:"dive"`
	CreatedAt     time.Time        `json:"created_at"               yaml:"created_at,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"               yaml:"updated_at,omitempty"`
}

// BlockByID returns the block with the given id, or nil.
func (w *Workflow) BlockByID(id string) *WorkflowBlock {
	for _, block := range w.Blocks {
		if block != nil && block.ID == id {
			return block
		}
	}

	return nil
}

// RemoveBlock deletes a block and every connection that references it.
// It reports whether the block existed.
func (w *Workflow) RemoveBlock(id string) bool {
	index := -1

	for i, block := range w.Blocks {
		if block != nil && block.ID == id {
			index = i

			break
		}
	}

	if index < 0 {
		return false
	}

	w.Blocks = append(w.Blocks[:index], w.Blocks[index+1:]...)

	connections := make([]*Connection, 0, len(w.Connections))
	for _, conn := range w.Connections {
		if conn.Source == id || conn.Target == id {
			continue
		}

		connections = append(connections, conn)
	}

	w.Connections = connections

	return true
}

// DanglingConnections returns connections whose source or target does not resolve to a block.
func (w *Workflow) DanglingConnections() []*Connection {
	var dangling []*Connection

	for _, conn := range w.Connections {
		if w.BlockByID(conn.Source) == nil || w.BlockByID(conn.Target) == nil {
			dangling = append(dangling, conn)
		}
	}

	return dangling
}
