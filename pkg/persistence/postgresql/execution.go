package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
)

const executionColumns = `
			id
		  , workflow_id
		  , status
		  , trigger_source
		  , started_at
		  , completed_at
		  , error_message
		  , logs`

// ExecutionRepository stores execution records with their log trail as JSONB.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

func (r *ExecutionRepository) Save(ctx context.Context, record *models.ExecutionRecord) error {
	logs, err := json.Marshal(nonNilSlice(record.Logs))
	if err != nil {
		return fmt.Errorf("failed to marshal execution logs: %w", err)
	}

	query := `
		INSERT INTO executions (` + executionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			workflow_id = EXCLUDED.workflow_id
		  , status = EXCLUDED.status
		  , trigger_source = EXCLUDED.trigger_source
		  , started_at = EXCLUDED.started_at
		  , completed_at = EXCLUDED.completed_at
		  , error_message = EXCLUDED.error_message
		  , logs = EXCLUDED.logs
	`

	_, err = r.db.ExecContext(ctx, query,
		record.ID,
		record.WorkflowID,
		string(record.Status),
		record.TriggerSource,
		record.StartedAt,
		record.CompletedAt,
		record.ErrorMessage,
		logs,
	)
	if err != nil {
		return persistence.NewExecutionError("Save", record.ID, err)
	}

	return nil
}

func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.ExecutionRecord, error) {
	query := `SELECT` + executionColumns + ` FROM executions WHERE id = $1`

	record, err := scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewExecutionError("GetByID", id, persistence.ErrExecutionNotFound)
		}

		return nil, fmt.Errorf("failed to scan execution: %w", err)
	}

	return record, nil
}

func (r *ExecutionRepository) GetByWorkflow(ctx context.Context, workflowID string, limit int) ([]*models.ExecutionRecord, error) {
	query := `SELECT` + executionColumns + `
		FROM executions
		WHERE workflow_id = $1
		ORDER BY started_at DESC, id ASC
	`
	args := []any{workflowID}

	if limit > 0 {
		query += " LIMIT $2"

		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer closeRows(ctx, r.logger, rows)

	records := make([]*models.ExecutionRecord, 0)

	for rows.Next() {
		record, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		records = append(records, record)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return records, nil
}

func (r *ExecutionRepository) DeleteByWorkflow(ctx context.Context, workflowID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM executions WHERE workflow_id = $1", workflowID)
	if err != nil {
		return fmt.Errorf("failed to delete executions: %w", err)
	}

	return nil
}

func scanExecution(row rowScanner) (*models.ExecutionRecord, error) {
	var (
		record      models.ExecutionRecord
		status      string
		completedAt sql.NullTime
		logs        []byte
	)

	err := row.Scan(
		&record.ID,
		&record.WorkflowID,
		&status,
		&record.TriggerSource,
		&record.StartedAt,
		&completedAt,
		&record.ErrorMessage,
		&logs,
	)
	if err != nil {
		return nil, err
	}

	record.Status = models.ExecutionStatus(status)
	record.StartedAt = record.StartedAt.UTC()

	if completedAt.Valid {
		at := completedAt.Time.UTC()
		record.CompletedAt = &at
	}

	err = json.Unmarshal(logs, &record.Logs)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution logs: %w", err)
	}

	return &record, nil
}
