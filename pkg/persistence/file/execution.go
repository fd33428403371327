package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
)

// ExecutionRepository stores one JSON file per execution record.
type ExecutionRepository struct {
	p *Persistence
}

func (er *ExecutionRepository) Save(_ context.Context, record *models.ExecutionRecord) error {
	er.p.mu.Lock()
	defer er.p.mu.Unlock()

	if err := er.p.writeJSON(executionsDir, record.ID, record); err != nil {
		return persistence.NewExecutionError("Save", record.ID, err)
	}

	return nil
}

func (er *ExecutionRepository) GetByID(_ context.Context, executionID string) (*models.ExecutionRecord, error) {
	er.p.mu.RLock()
	defer er.p.mu.RUnlock()

	var record models.ExecutionRecord

	if err := er.p.readJSON(executionsDir, executionID, &record); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.NewExecutionError("GetByID", executionID, persistence.ErrExecutionNotFound)
		}

		return nil, fmt.Errorf("failed to fetch execution %s: %w", executionID, err)
	}

	return &record, nil
}

func (er *ExecutionRepository) GetByWorkflow(_ context.Context, workflowID string, limit int) ([]*models.ExecutionRecord, error) {
	er.p.mu.RLock()
	defer er.p.mu.RUnlock()

	records, err := er.matching(workflowID)
	if err != nil {
		return nil, err
	}

	persistence.SortExecutions(records)

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

func (er *ExecutionRepository) DeleteByWorkflow(_ context.Context, workflowID string) error {
	er.p.mu.Lock()
	defer er.p.mu.Unlock()

	records, err := er.matching(workflowID)
	if err != nil {
		return err
	}

	for _, record := range records {
		if err := er.p.remove(executionsDir, record.ID); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to delete execution %s: %w", record.ID, err)
		}
	}

	return nil
}

func (er *ExecutionRepository) matching(workflowID string) ([]*models.ExecutionRecord, error) {
	var records []*models.ExecutionRecord

	err := er.p.readAll(executionsDir, func(body []byte) error {
		var record models.ExecutionRecord
		if err := json.Unmarshal(body, &record); err != nil {
			return err
		}

		if record.WorkflowID == workflowID {
			records = append(records, &record)
		}

		return nil
	})

	return records, err
}
