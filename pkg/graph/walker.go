// Package graph resolves traversal order over a workflow's block/connection graph.
package graph

import (
	"errors"

	"github.com/flowforge/flowforge/pkg/models"
)

var (
	// ErrEmptyWorkflow is reported when a workflow has no blocks. It is not a run failure.
	ErrEmptyWorkflow = errors.New("workflow has no blocks")

	// ErrNoStartBlock is reported when no block can start the run.
	ErrNoStartBlock = errors.New("no start block found")
)

// FindStartBlock returns the first trigger block; otherwise the first block with
// no incoming connection; otherwise the first declared block.
func FindStartBlock(workflow *models.Workflow) (*models.WorkflowBlock, error) {
	blocks := declaredBlocks(workflow)
	if len(blocks) == 0 {
		return nil, ErrEmptyWorkflow
	}

	for _, block := range blocks {
		if block.Type.Canonical() == models.BlockTypeTrigger {
			return block, nil
		}
	}

	incoming := make(map[string]bool, len(workflow.Connections))
	for _, conn := range workflow.Connections {
		if conn != nil {
			incoming[conn.Target] = true
		}
	}

	for _, block := range blocks {
		if !incoming[block.ID] {
			return block, nil
		}
	}

	return blocks[0], nil
}

// NextBlocks returns the targets of the connections leaving blockID, in
// connection declaration order. Connections whose target does not resolve are dropped.
func NextBlocks(blockID string, workflow *models.Workflow) []*models.WorkflowBlock {
	var next []*models.WorkflowBlock

	for _, conn := range workflow.Connections {
		if conn == nil || conn.Source != blockID {
			continue
		}

		if target := workflow.BlockByID(conn.Target); target != nil {
			next = append(next, target)
		}
	}

	return next
}

// Walker drives a breadth-first traversal in which every block is visited at most once.
type Walker struct {
	workflow *models.Workflow
	byID     map[string]*models.WorkflowBlock
	outgoing map[string][]string
	queue    []*models.WorkflowBlock
	visited  map[string]bool
	order    []string
}

// NewWalker builds a walker over workflow seeded with start.
func NewWalker(workflow *models.Workflow, start *models.WorkflowBlock) *Walker {
	w := &Walker{
		workflow: workflow,
		byID:     make(map[string]*models.WorkflowBlock, len(workflow.Blocks)),
		outgoing: make(map[string][]string),
		visited:  make(map[string]bool, len(workflow.Blocks)),
	}

	for _, block := range declaredBlocks(workflow) {
		if _, exists := w.byID[block.ID]; !exists {
			w.byID[block.ID] = block
		}
	}

	for _, conn := range workflow.Connections {
		if conn != nil {
			w.outgoing[conn.Source] = append(w.outgoing[conn.Source], conn.Target)
		}
	}

	if start != nil {
		w.queue = append(w.queue, start)
	}

	return w
}

// Next pops the next unvisited block and marks it visited.
func (w *Walker) Next() (*models.WorkflowBlock, bool) {
	for len(w.queue) > 0 {
		block := w.queue[0]
		w.queue = w.queue[1:]

		if w.visited[block.ID] {
			continue
		}

		w.visited[block.ID] = true
		w.order = append(w.order, block.ID)

		return block, true
	}

	return nil, false
}

// Expand enqueues the successors of blockID. Unresolved targets are skipped.
func (w *Walker) Expand(blockID string) {
	for _, targetID := range w.outgoing[blockID] {
		if target, ok := w.byID[targetID]; ok {
			w.queue = append(w.queue, target)
		}
	}
}

// Visited returns block ids in visit order.
func (w *Walker) Visited() []string {
	return append([]string(nil), w.order...)
}

func declaredBlocks(workflow *models.Workflow) []*models.WorkflowBlock {
	if workflow == nil {
		return nil
	}

	blocks := make([]*models.WorkflowBlock, 0, len(workflow.Blocks))
	for _, block := range workflow.Blocks {
		if block != nil {
			blocks = append(blocks, block)
		}
	}

	return blocks
}
