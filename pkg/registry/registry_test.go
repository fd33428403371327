package registry

import (
	"context"
	"testing"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockExecutor struct {
	blockType models.BlockType
}

func (m *mockExecutor) Type() models.BlockType { return m.blockType }
func (m *mockExecutor) Name() string           { return "Mock" }
func (m *mockExecutor) Description() string    { return "A mock executor for unit testing" }
func (m *mockExecutor) Schema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"message"},
		"properties": map[string]any{
			"message": map[string]any{"type": "string"},
		},
	}
}

func (m *mockExecutor) Execute(context.Context, *models.WorkflowBlock, models.BlockConfig, *models.ExecutionContext) (models.BlockOutcome, error) {
	return models.BlockOutcome{Success: true}, nil
}

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, protocol.Message) (protocol.SendResult, error) {
	return protocol.SendResult{Success: true}, nil
}

type nopCaller struct{}

func (nopCaller) Call(context.Context, protocol.APIRequest) (protocol.APIResponse, error) {
	return protocol.APIResponse{Status: 200}, nil
}

func defaultRegistry() *Registry {
	r := NewRegistry(nil)
	RegisterDefaultBlocks(r, nopNotifier{}, nopCaller{})

	return r
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(&mockExecutor{blockType: "Mock"})

	executor, ok := r.Resolve("mock")
	require.True(t, ok)
	assert.Equal(t, "Mock", executor.Name())
	assert.True(t, r.IsRegistered(" MOCK "))
}

func TestRegistry_UnknownTypeFallsBack(t *testing.T) {
	r := defaultRegistry()

	executor, ok := r.Resolve("custom_widget")
	assert.False(t, ok)
	require.NotNil(t, executor)
	assert.Equal(t, "Generic", executor.Name())

	_, err := r.Descriptor("custom_widget")
	assert.Error(t, err)
}

func TestRegistry_AliasesResolveToCanonicalExecutors(t *testing.T) {
	r := defaultRegistry()

	api, ok := r.Resolve(models.BlockTypeAPI)
	require.True(t, ok)
	assert.Equal(t, models.BlockTypeAPICall, api.Type())

	email, ok := r.Resolve(models.BlockTypeEmail)
	require.True(t, ok)
	assert.Equal(t, models.BlockTypeNotification, email.Type())

	_, performsIO := api.(protocol.IOBound)
	assert.True(t, performsIO)
}

func TestRegistry_Descriptors(t *testing.T) {
	r := defaultRegistry()

	descriptors := r.Descriptors()
	require.Len(t, descriptors, 10)

	types := make([]models.BlockType, 0, len(descriptors))
	for _, descriptor := range descriptors {
		types = append(types, descriptor.Type)
		assert.NotEmpty(t, descriptor.Name)
		assert.NotEmpty(t, descriptor.Schema)
	}

	assert.Equal(t, []models.BlockType{
		models.BlockTypeAction,
		models.BlockTypeAPICall,
		models.BlockTypeCondition,
		models.BlockTypeDataTransform,
		models.BlockTypeDatabase,
		models.BlockTypeDelay,
		models.BlockTypeEnd,
		models.BlockTypeLoop,
		models.BlockTypeNotification,
		models.BlockTypeTrigger,
	}, types)
}

func TestRegistry_ValidateConfig(t *testing.T) {
	r := defaultRegistry()
	r.Register(&mockExecutor{blockType: "mock"})

	tests := []struct {
		name    string
		block   *models.WorkflowBlock
		wantErr bool
	}{
		{"valid api call", &models.WorkflowBlock{ID: "a", Type: "api", Config: map[string]any{"url": "https://x", "method": "POST"}}, false},
		{"api call url wrong kind", &models.WorkflowBlock{ID: "a", Type: "api_call", Config: map[string]any{"url": 42}}, true},
		{"notification list", &models.WorkflowBlock{ID: "n", Type: "email", Config: map[string]any{"to": []any{"a@x.com"}}}, false},
		{"notification wrong kind", &models.WorkflowBlock{ID: "n", Type: "notification", Config: map[string]any{"to": 7}}, true},
		{"loop fractional", &models.WorkflowBlock{ID: "l", Type: "loop", Config: map[string]any{"maxIterations": 2.5}}, true},
		{"delay without config", &models.WorkflowBlock{ID: "d", Type: "delay"}, false},
		{"required property missing", &models.WorkflowBlock{ID: "m", Type: "mock", Config: map[string]any{}}, true},
		{"unknown type is only parsed", &models.WorkflowBlock{ID: "u", Type: "whatever", Config: map[string]any{"x": 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.ValidateConfig(tt.block)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidBlockConfig)

				return
			}

			assert.NoError(t, err)
		})
	}
}
