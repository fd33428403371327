// Package registry maps block type tags to the executors that run them.
package registry

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/flowforge/flowforge/pkg/blocks/generic"
	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/protocol"
)

// Registry resolves block types to executors. Unknown types resolve to a
// generic executor. It is safe for concurrent use.
type Registry struct {
	logger    *slog.Logger
	mu        sync.RWMutex
	executors map[models.BlockType]protocol.BlockExecutor
	fallback  protocol.BlockExecutor
}

func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}

	return &Registry{
		logger:    log.With("module", "registry"),
		executors: make(map[models.BlockType]protocol.BlockExecutor),
		fallback:  generic.NewExecutor(),
	}
}

// Register adds executor under its canonical type, replacing any previous one.
func (r *Registry) Register(executor protocol.BlockExecutor) {
	blockType := executor.Type().Canonical()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.executors[blockType]; exists {
		r.logger.Warn("Replacing registered block executor", "type", blockType)
	}

	r.executors[blockType] = executor
}

// Resolve returns the executor for blockType, following aliases. The boolean
// is false when the fallback executor was returned.
func (r *Registry) Resolve(blockType models.BlockType) (protocol.BlockExecutor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if executor, ok := r.executors[blockType.Canonical()]; ok {
		return executor, true
	}

	return r.fallback, false
}

// IsRegistered reports whether blockType has a dedicated executor.
func (r *Registry) IsRegistered(blockType models.BlockType) bool {
	_, ok := r.Resolve(blockType)

	return ok
}

// Types returns the registered canonical types in lexical order.
func (r *Registry) Types() []models.BlockType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]models.BlockType, 0, len(r.executors))
	for blockType := range r.executors {
		types = append(types, blockType)
	}

	slices.SortFunc(types, func(a, b models.BlockType) int {
		return strings.Compare(string(a), string(b))
	})

	return types
}

// Descriptor is the catalogue entry of one block type.
type Descriptor struct {
	Type        models.BlockType `json:"type"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Schema      map[string]any   `json:"schema"`
}

// Descriptors returns the catalogue of registered block types.
func (r *Registry) Descriptors() []Descriptor {
	types := r.Types()
	descriptors := make([]Descriptor, 0, len(types))

	for _, blockType := range types {
		executor, _ := r.Resolve(blockType)
		descriptors = append(descriptors, Descriptor{
			Type:        blockType,
			Name:        executor.Name(),
			Description: executor.Description(),
			Schema:      executor.Schema(),
		})
	}

	return descriptors
}

// Descriptor returns the catalogue entry for blockType.
func (r *Registry) Descriptor(blockType models.BlockType) (Descriptor, error) {
	executor, ok := r.Resolve(blockType)
	if !ok {
		return Descriptor{}, fmt.Errorf("block type '%s' not registered", blockType)
	}

	return Descriptor{
		Type:        executor.Type().Canonical(),
		Name:        executor.Name(),
		Description: executor.Description(),
		Schema:      executor.Schema(),
	}, nil
}
