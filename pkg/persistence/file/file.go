// Package file provides file-based persistence: one JSON document per entity under a root directory.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/flowforge/flowforge/pkg/persistence"
)

const (
	workflowsDir  = "workflows"
	executionsDir = "executions"
	schedulesDir  = "schedules"
)

// Persistence implements the persistence.Persistence interface using the file system.
type Persistence struct {
	root string
	mu   sync.RWMutex

	workflowRepo  *WorkflowRepository
	executionRepo *ExecutionRepository
	scheduleRepo  *ScheduleRepository
}

// NewPersistence creates a new instance of Persistence with the specified root directory.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	p := &Persistence{root: cleanRoot}
	p.workflowRepo = &WorkflowRepository{p: p}
	p.executionRepo = &ExecutionRepository{p: p}
	p.scheduleRepo = &ScheduleRepository{p: p}

	return p
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the root directory exists and is a directory.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	info, err := os.Stat(fp.root)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", fp.root)
	}

	return nil
}

func (fp *Persistence) WorkflowRepository() persistence.WorkflowRepository {
	return fp.workflowRepo
}

func (fp *Persistence) ExecutionRepository() persistence.ExecutionRepository {
	return fp.executionRepo
}

func (fp *Persistence) ScheduleRepository() persistence.ScheduleRepository {
	return fp.scheduleRepo
}

// validateID rejects identifiers that could escape the storage directory.
func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: identifier cannot be empty", persistence.ErrInvalidIdentifier)
	}

	if strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q contains invalid characters", persistence.ErrInvalidIdentifier, id)
	}

	return nil
}

func (fp *Persistence) path(dir, id string) string {
	return filepath.Join(fp.root, dir, id+".json")
}

// readJSON decodes the document id of dir into target. It returns fs.ErrNotExist when absent.
func (fp *Persistence) readJSON(dir, id string, target any) error {
	if err := validateID(id); err != nil {
		return err
	}

	body, err := os.ReadFile(fp.path(dir, id))
	if err != nil {
		return err
	}

	return json.Unmarshal(body, target)
}

// writeJSON stores value atomically as the document id of dir.
func (fp *Persistence) writeJSON(dir, id string, value any) error {
	if err := validateID(id); err != nil {
		return err
	}

	directory := filepath.Join(fp.root, dir)

	if err := os.MkdirAll(directory, 0750); err != nil {
		return fmt.Errorf("failed to create %s directory: %w", dir, err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(directory, id+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", id, err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write %s: %w", id, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write %s: %w", id, err)
	}

	if err := os.Rename(tmp.Name(), fp.path(dir, id)); err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to store %s: %w", id, err)
	}

	return nil
}

func (fp *Persistence) remove(dir, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	return os.Remove(fp.path(dir, id))
}

// readAll decodes every document of dir with decode.
func (fp *Persistence) readAll(dir string, decode func(body []byte) error) error {
	root := os.DirFS(filepath.Join(fp.root, dir))

	names, err := fs.Glob(root, "*.json")
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", dir, err)
	}

	for _, name := range names {
		body, err := fs.ReadFile(root, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}

			return fmt.Errorf("failed to read %s/%s: %w", dir, name, err)
		}

		if err := decode(body); err != nil {
			return fmt.Errorf("failed to decode %s/%s: %w", dir, name, err)
		}
	}

	return nil
}
