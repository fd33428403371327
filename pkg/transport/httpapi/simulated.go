package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/flowforge/flowforge/pkg/protocol"
)

// SimulatedMessage is the message of every simulated response.
const SimulatedMessage = "API call simulated"

// SimulatedCaller answers every request with a synthetic 200 and performs no I/O.
type SimulatedCaller struct {
	logger *slog.Logger
}

func NewSimulatedCaller(logger *slog.Logger) *SimulatedCaller {
	return &SimulatedCaller{logger: logger.With("module", "simulated_api_caller")}
}

func (c *SimulatedCaller) Call(ctx context.Context, request protocol.APIRequest) (protocol.APIResponse, error) {
	c.logger.DebugContext(ctx, "Simulating API call", "method", request.Method, "url", request.URL)

	return protocol.APIResponse{
		Status: http.StatusOK,
		Data:   map[string]any{"success": true, "message": SimulatedMessage},
	}, nil
}
