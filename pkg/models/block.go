package models

import "strings"

// BlockType is the tag that selects a block's executor and configuration shape.
type BlockType string

// Built-in block types.
const (
	BlockTypeTrigger       BlockType = "trigger"
	BlockTypeAction        BlockType = "action"
	BlockTypeCondition     BlockType = "condition"
	BlockTypeLoop          BlockType = "loop"
	BlockTypeAPICall       BlockType = "api_call"
	BlockTypeDataTransform BlockType = "data_transform"
	BlockTypeNotification  BlockType = "notification"
	BlockTypeDelay         BlockType = "delay"
	BlockTypeDatabase      BlockType = "database"
	BlockTypeEnd           BlockType = "end"

	// Aliases accepted in workflow documents.
	BlockTypeAPI   BlockType = "api"
	BlockTypeEmail BlockType = "email"
)

var blockTypeAliases = map[BlockType]BlockType{
	BlockTypeAPI:   BlockTypeAPICall,
	BlockTypeEmail: BlockTypeNotification,
}

// Canonical resolves aliases to their canonical type tag.
func (t BlockType) Canonical() BlockType {
	normalized := BlockType(strings.ToLower(strings.TrimSpace(string(t))))
	if canonical, ok := blockTypeAliases[normalized]; ok {
		return canonical
	}

	return normalized
}

// Position is the UI placement of a block; it has no effect on execution.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// WorkflowBlock is a single typed step in a workflow graph.
type WorkflowBlock struct {
	ID       string         `json:"id"                 yaml:"id"                 validate:"required"`
	Type     BlockType      `json:"type"               yaml:"type"               validate:"required"`
	Config   map[string]any `json:"config,omitempty"   yaml:"config,omitempty"`
	Label    string         `json:"label,omitempty"    yaml:"label,omitempty"`
	Position *Position      `json:"position,omitempty" yaml:"position,omitempty"`
}

// DisplayName returns the label, falling back to the type tag.
func (b *WorkflowBlock) DisplayName() string {
	if b.Label != "" {
		return b.Label
	}

	return string(b.Type)
}

// Connection is a directed edge between two blocks. Condition is a label only;
// it is stored but never evaluated.
type Connection struct {
	ID        string `json:"id"                  yaml:"id"`
	Source    string `json:"source"              yaml:"source"              validate:"required"`
	Target    string `json:"target"              yaml:"target"              validate:"required"`
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// BlockOutcome is the structured result every block executor returns.
// Halt stops the walker from enqueueing the block's successors.
type BlockOutcome struct {
	Success bool           `json:"success"`
	Halt    bool           `json:"halt"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}
