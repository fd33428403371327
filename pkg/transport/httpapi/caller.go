// Package httpapi provides the outbound API transports used by api_call blocks.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/flowforge/flowforge/pkg/protocol"
)

const (
	defaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20
)

var (
	ErrInvalidMethod = errors.New("invalid HTTP method")
	ErrInvalidURL    = errors.New("invalid request URL")
)

// Caller performs real HTTP requests. JSON response bodies are decoded, any
// other body is returned as a string. Non-2xx statuses are returned, not errors.
type Caller struct {
	client *http.Client
	logger *slog.Logger
}

// Option configures a Caller.
type Option func(*Caller)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Caller) {
		c.client = client
	}
}

func NewCaller(logger *slog.Logger, opts ...Option) *Caller {
	c := &Caller{
		client: &http.Client{Timeout: defaultTimeout},
		logger: logger.With("module", "http_api_caller"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Caller) Call(ctx context.Context, request protocol.APIRequest) (protocol.APIResponse, error) {
	req, err := buildRequest(ctx, request)
	if err != nil {
		return protocol.APIResponse{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return protocol.APIResponse{}, fmt.Errorf("http request failed: %w", err)
	}

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			c.logger.ErrorContext(ctx, "failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return protocol.APIResponse{}, fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.DebugContext(ctx, "API call finished",
		"method", req.Method,
		"url", request.URL,
		"status", resp.StatusCode,
	)

	return protocol.APIResponse{Status: resp.StatusCode, Data: decodeBody(resp.Header.Get("Content-Type"), body)}, nil
}

func buildRequest(ctx context.Context, request protocol.APIRequest) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(request.Method))
	if method == "" {
		method = http.MethodGet
	}

	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodHead:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidMethod, request.Method)
	}

	if !strings.HasPrefix(request.URL, "http://") && !strings.HasPrefix(request.URL, "https://") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, request.URL)
	}

	body, contentType, err := encodeBody(request.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, request.URL, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	for key, value := range request.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// encodeBody sends strings verbatim and everything else as JSON.
func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		if b == "" {
			return nil, "", nil
		}

		return strings.NewReader(b), "text/plain; charset=utf-8", nil
	case []byte:
		return bytes.NewReader(b), "application/octet-stream", nil
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}

		return bytes.NewReader(encoded), "application/json", nil
	}
}

func decodeBody(contentType string, body []byte) any {
	if len(body) == 0 {
		return nil
	}

	if strings.Contains(contentType, "json") {
		var decoded any

		if err := json.Unmarshal(body, &decoded); err == nil {
			return decoded
		}
	}

	return string(body)
}
