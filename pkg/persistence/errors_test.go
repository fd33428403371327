package persistence_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/stretchr/testify/assert"
)

func TestStandardizedErrors(t *testing.T) {
	t.Parallel()

	t.Run("error checking functions work correctly", func(t *testing.T) {
		workflowErr := persistence.NewWorkflowError("GetByID", "workflow-123", persistence.ErrWorkflowNotFound)
		executionErr := persistence.NewExecutionError("GetByID", "exec-1", persistence.ErrExecutionNotFound)
		scheduleErr := persistence.NewScheduleError("Delete", "sched-1", persistence.ErrScheduleNotFound)

		assert.True(t, persistence.IsWorkflowNotFound(workflowErr))
		assert.True(t, persistence.IsExecutionNotFound(executionErr))
		assert.True(t, persistence.IsScheduleNotFound(scheduleErr))

		assert.True(t, errors.Is(workflowErr, persistence.ErrWorkflowNotFound))
		assert.False(t, errors.Is(workflowErr, persistence.ErrExecutionNotFound))
	})

	t.Run("wrapped errors are still detected", func(t *testing.T) {
		err := fmt.Errorf("loading: %w", persistence.NewExecutionError("GetByID", "exec-1", persistence.ErrExecutionNotFound))

		assert.True(t, persistence.IsNotFound(err))
		assert.False(t, persistence.IsNotFound(errors.New("boom")))
	})

	t.Run("workflow error contains context", func(t *testing.T) {
		err := persistence.NewWorkflowError("UpdateWorkflow", "workflow-123", persistence.ErrWorkflowNotFound)

		assert.Contains(t, err.Error(), "UpdateWorkflow")
		assert.Contains(t, err.Error(), "workflow-123")
		assert.Contains(t, err.Error(), "workflow not found")
	})

	t.Run("workflow error message is included", func(t *testing.T) {
		err := &persistence.WorkflowError{Op: "Save", WorkflowID: "wf", Err: errors.New("disk full"), Message: "write failed"}

		assert.Equal(t, "Save operation failed for workflow wf: write failed (disk full)", err.Error())
	})
}
