// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/google/uuid"
)

// CreateTestWorkflow creates an empty active workflow that can be overridden.
func CreateTestWorkflow(overrides ...func(*models.Workflow)) *models.Workflow {
	workflow := &models.Workflow{
		ID:          uuid.New().String(),
		Name:        "Test Workflow",
		Description: "A test workflow",
		Active:      true,
		TriggerType: models.TriggerTypeManual,
		Blocks:      []*models.WorkflowBlock{},
		Connections: []*models.Connection{},
	}

	for _, override := range overrides {
		override(workflow)
	}

	return workflow
}

// Block creates a block with an optional config.
func Block(id string, blockType models.BlockType, config map[string]any) *models.WorkflowBlock {
	return &models.WorkflowBlock{ID: id, Type: blockType, Config: config}
}

// Connect creates a connection from source to target.
func Connect(source, target string) *models.Connection {
	return &models.Connection{ID: source + "-" + target, Source: source, Target: target}
}

// WithID sets the workflow id.
func WithID(id string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.ID = id
	}
}

// WithName sets the workflow name.
func WithName(name string) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Name = name
	}
}

// WithBlocks appends blocks.
func WithBlocks(blocks ...*models.WorkflowBlock) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Blocks = append(w.Blocks, blocks...)
	}
}

// WithConnections appends connections.
func WithConnections(connections ...*models.Connection) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Connections = append(w.Connections, connections...)
	}
}

// WithChain appends blocks and connects them in declaration order.
func WithChain(blocks ...*models.WorkflowBlock) func(*models.Workflow) {
	return func(w *models.Workflow) {
		w.Blocks = append(w.Blocks, blocks...)

		for i := 1; i < len(blocks); i++ {
			w.Connections = append(w.Connections, Connect(blocks[i-1].ID, blocks[i].ID))
		}
	}
}

// LinearWorkflow builds trigger -> b1 -> ... -> end where each middle block has the given type.
func LinearWorkflow(types ...models.BlockType) *models.Workflow {
	blocks := []*models.WorkflowBlock{Block("trigger", models.BlockTypeTrigger, nil)}
	for i, blockType := range types {
		blocks = append(blocks, Block(fmt.Sprintf("b%d", i+1), blockType, nil))
	}

	blocks = append(blocks, Block("end", models.BlockTypeEnd, nil))

	return CreateTestWorkflow(WithChain(blocks...))
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
