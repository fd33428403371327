// Package protocol defines the interfaces and contracts for pluggable blocks and transports.
package protocol

import (
	"context"

	"github.com/flowforge/flowforge/pkg/models"
)

// BlockExecutor executes every block of one type.
type BlockExecutor interface {
	// Type returns the canonical block type tag this executor handles
	Type() models.BlockType

	// Name returns the human-readable name for this block type
	Name() string

	// Description returns a description of what this block does
	Description() string

	// Schema returns the JSON schema for configuring this block
	Schema() map[string]any

	// Execute runs the block. A returned error is a hard failure that aborts the run;
	// soft and partial failures are reported through the outcome.
	Execute(ctx context.Context, block *models.WorkflowBlock, config models.BlockConfig, execCtx *models.ExecutionContext) (models.BlockOutcome, error)
}

// IOBound is implemented by executors that perform external I/O and must run under a timeout.
type IOBound interface {
	PerformsIO() bool
}
