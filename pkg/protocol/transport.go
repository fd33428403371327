package protocol

import "context"

// Message is one notification addressed to a single recipient.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendResult reports the delivery of one message.
type SendResult struct {
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Notifier delivers notifications. Implementations must be safe for concurrent use;
// one instance is shared by every run.
type Notifier interface {
	Send(ctx context.Context, message Message) (SendResult, error)
}

// APIRequest describes one outbound API call.
type APIRequest struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    any               `json:"body,omitempty"`
}

// APIResponse is the part of a response the engine consumes.
type APIResponse struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

// APICaller performs outbound API calls. Implementations must be safe for concurrent use.
type APICaller interface {
	Call(ctx context.Context, request APIRequest) (APIResponse, error)
}
