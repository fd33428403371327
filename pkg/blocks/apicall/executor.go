// Package apicall provides the executor for api_call blocks.
package apicall

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/protocol"
)

// SkippedMessage is logged when an api_call block has no URL.
const SkippedMessage = "API call skipped: No URL configured"

// ErrNoCaller is returned when the executor was built without a transport.
var ErrNoCaller = errors.New("api caller not configured")

// Executor performs one outbound API call per block and stores the response
// in the variable store under "<blockId>_response".
type Executor struct {
	caller protocol.APICaller
}

// NewExecutor creates an api_call executor backed by caller.
func NewExecutor(caller protocol.APICaller) *Executor {
	return &Executor{caller: caller}
}

// ResponseKey returns the variable name the response of blockID is stored under.
func ResponseKey(blockID string) string {
	return blockID + "_response"
}

func (e *Executor) Type() models.BlockType {
	return models.BlockTypeAPICall
}

func (e *Executor) Name() string {
	return "API Call"
}

func (e *Executor) Description() string {
	return "Calls an external HTTP API and stores the status and body for later blocks"
}

// PerformsIO marks the executor for the per-block timeout.
func (e *Executor) PerformsIO() bool {
	return true
}

// Schema returns the JSON schema for api_call block configuration.
func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Target URL; when empty the call is skipped",
				"examples":    []string{"https://api.example.com/users"},
			},
			"method": map[string]any{
				"type":        "string",
				"description": "HTTP method",
				"enum":        []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "get", "post", "put", "patch", "delete", "head"},
				"default":     models.DefaultHTTPMethod,
			},
			"headers": map[string]any{
				"type":        "object",
				"description": "Request headers",
			},
			"body": map[string]any{
				"description": "Request body; objects are sent as JSON",
			},
			"timeout": map[string]any{
				"type":        "number",
				"description": "Request timeout in seconds",
				"minimum":     0,
			},
		},
	}
}

// Execute performs the call. Transport errors and timeouts are hard failures.
func (e *Executor) Execute(
	ctx context.Context,
	block *models.WorkflowBlock,
	config models.BlockConfig,
	execCtx *models.ExecutionContext,
) (models.BlockOutcome, error) {
	apiConfig, ok := config.(models.APICallConfig)
	if !ok {
		return models.BlockOutcome{}, fmt.Errorf("%w: expected api_call configuration, got %T", models.ErrMalformedConfig, config)
	}

	if apiConfig.URL == "" {
		execCtx.Warn(block.ID, SkippedMessage, nil)

		return models.BlockOutcome{Success: true, Message: SkippedMessage}, nil
	}

	if e.caller == nil {
		return models.BlockOutcome{}, ErrNoCaller
	}

	execCtx.Info(block.ID, fmt.Sprintf("Making %s request to %s", apiConfig.Method, apiConfig.URL), map[string]any{
		"method": apiConfig.Method,
		"url":    apiConfig.URL,
	})

	if apiConfig.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, apiConfig.Timeout)
		defer cancel()
	}

	response, err := e.caller.Call(ctx, protocol.APIRequest{
		Method:  apiConfig.Method,
		URL:     apiConfig.URL,
		Headers: apiConfig.Headers,
		Body:    apiConfig.Body,
	})
	if err != nil {
		return models.BlockOutcome{}, fmt.Errorf("%s request to %s failed: %w", apiConfig.Method, apiConfig.URL, err)
	}

	stored := map[string]any{
		"status": response.Status,
		"data":   response.Data,
	}
	execCtx.Set(ResponseKey(block.ID), stored)

	execCtx.Info(block.ID, "API call completed successfully", map[string]any{"status": response.Status})

	return models.BlockOutcome{Success: true, Message: "API call completed successfully", Data: stored}, nil
}
