package services

import (
	"context"
	"errors"
	"testing"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/flowforge/flowforge/pkg/persistence/file"
	"github.com/flowforge/flowforge/pkg/registry"
	"github.com/flowforge/flowforge/pkg/testutil"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *registry.Registry {
	reg := registry.NewRegistry(testutil.DiscardLogger())
	registry.RegisterDefaultBlocks(reg, nil, nil)

	return reg
}

func newWorkflowService(t *testing.T, p persistence.Persistence) *Workflow {
	t.Helper()

	return NewWorkflow(p, newTestRegistry(), validator.New(validator.WithRequiredStructEnabled()), testutil.DiscardLogger())
}

func TestWorkflow_Validate(t *testing.T) {
	service := newWorkflowService(t, file.NewPersistence(t.TempDir()))

	tests := []struct {
		name        string
		workflow    *models.Workflow
		wantErr     error
		wantDetails []string
	}{
		{
			name:     "valid linear workflow",
			workflow: testutil.LinearWorkflow(models.BlockTypeAction, models.BlockTypeDelay),
		},
		{
			name:     "empty workflow is valid",
			workflow: testutil.CreateTestWorkflow(testutil.WithBlocks()),
		},
		{
			name:    "nil",
			wantErr: ErrWorkflowNil,
		},
		{
			name:        "missing name",
			workflow:    testutil.CreateTestWorkflow(testutil.WithName("")),
			wantErr:     ErrInvalidWorkflow,
			wantDetails: []string{"Workflow.Name failed on 'required'"},
		},
		{
			name: "duplicate block ids",
			workflow: testutil.CreateTestWorkflow(testutil.WithBlocks(
				testutil.Block("a", models.BlockTypeTrigger, nil),
				testutil.Block("a", models.BlockTypeEnd, nil),
			)),
			wantErr:     ErrInvalidWorkflow,
			wantDetails: []string{"duplicate block id: a"},
		},
		{
			name: "dangling connection",
			workflow: testutil.CreateTestWorkflow(
				testutil.WithBlocks(testutil.Block("a", models.BlockTypeTrigger, nil)),
				testutil.WithConnections(testutil.Connect("a", "ghost")),
			),
			wantErr:     ErrInvalidWorkflow,
			wantDetails: []string{"connection references an unknown block: a -> ghost"},
		},
		{
			name: "malformed block config",
			workflow: testutil.CreateTestWorkflow(testutil.WithBlocks(
				testutil.Block("d", models.BlockTypeDelay, map[string]any{"duration": "soon"}),
			)),
			wantErr: ErrInvalidWorkflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := service.Validate(tt.workflow)
			if tt.wantErr == nil {
				require.NoError(t, err)

				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))

			var validationErr *ValidationError
			if errors.As(err, &validationErr) {
				for _, detail := range tt.wantDetails {
					assert.Contains(t, validationErr.Details, detail)
				}
			}
		})
	}
}

func TestWorkflow_CRUD(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	service := newWorkflowService(t, store)
	ctx := context.Background()

	created, err := service.Create(ctx, testutil.LinearWorkflow(models.BlockTypeAction))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	fetched, err := service.FetchByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, fetched.Name)

	replacement := testutil.LinearWorkflow(models.BlockTypeNotification)
	replacement.Name = "Renamed"

	updated, err := service.Update(ctx, created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Renamed", updated.Name)
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt))

	all, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, service.Delete(ctx, created.ID))

	_, err = service.FetchByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestWorkflow_UpdateUnknown(t *testing.T) {
	service := newWorkflowService(t, file.NewPersistence(t.TempDir()))

	_, err := service.Update(context.Background(), "missing", testutil.LinearWorkflow())
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestWorkflow_CreateRejectsInvalid(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	service := newWorkflowService(t, store)

	_, err := service.Create(context.Background(), testutil.CreateTestWorkflow(testutil.WithName("")))
	require.True(t, IsValidationError(err))

	all, err := store.WorkflowRepository().GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWorkflow_DeleteCascades(t *testing.T) {
	store := file.NewPersistence(t.TempDir())
	service := newWorkflowService(t, store)
	ctx := context.Background()

	created, err := service.Create(ctx, testutil.LinearWorkflow())
	require.NoError(t, err)

	schedule, err := models.NewSchedule("s-1", created.ID, "hourly")
	require.NoError(t, err)
	require.NoError(t, store.ScheduleRepository().Save(ctx, schedule))
	require.NoError(t, store.ExecutionRepository().Save(ctx, models.NewExecutionRecord("e-1", created.ID, "api")))

	require.NoError(t, service.Delete(ctx, created.ID))

	_, err = store.ScheduleRepository().GetByID(ctx, "s-1")
	assert.True(t, persistence.IsScheduleNotFound(err))

	_, err = store.ExecutionRepository().GetByID(ctx, "e-1")
	assert.True(t, persistence.IsExecutionNotFound(err))
}

func TestWorkflow_HealthCheck(t *testing.T) {
	message, ok := newWorkflowService(t, file.NewPersistence(t.TempDir())).HealthCheck(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "Persistence layer is healthy", message)

	message, ok = (&Workflow{}).HealthCheck(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "Persistence layer not initialized", message)
}
