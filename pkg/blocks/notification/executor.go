// Package notification provides the executor for notification and email blocks.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/protocol"
)

// SkippedMessage is logged when a notification block has no recipient.
const SkippedMessage = "Notification skipped: No recipient configured"

// ErrNoNotifier is returned when the executor was built without a transport.
var ErrNoNotifier = errors.New("notifier not configured")

// Executor sends one message per recipient. A rejected recipient never stops the
// others, but an expired context aborts the block. The block succeeds when at
// least one message was delivered; successors run either way.
type Executor struct {
	notifier protocol.Notifier
}

// NewExecutor creates a notification executor backed by notifier.
func NewExecutor(notifier protocol.Notifier) *Executor {
	return &Executor{notifier: notifier}
}

func (e *Executor) Type() models.BlockType {
	return models.BlockTypeNotification
}

func (e *Executor) Name() string {
	return "Notification"
}

func (e *Executor) Description() string {
	return "Sends a message to one or more comma separated recipients and reports per recipient delivery"
}

// PerformsIO marks the executor for the per-block timeout.
func (e *Executor) PerformsIO() bool {
	return true
}

// Schema returns the JSON schema for notification block configuration.
func (e *Executor) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"type": map[string]any{
				"type":        "string",
				"description": "Delivery channel",
				"default":     models.DefaultNotificationChannel,
			},
			"to": map[string]any{
				"description": "Recipient or comma separated recipient list",
				"oneOf": []any{
					map[string]any{"type": "string"},
					map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
				"examples": []string{"ops@example.com", "a@example.com, b@example.com"},
			},
			"subject": map[string]any{
				"type":    "string",
				"default": models.DefaultNotificationSubject,
			},
			"body": map[string]any{
				"type":    "string",
				"default": models.DefaultNotificationBody,
			},
		},
	}
}

// Execute delivers the notification and aggregates the per recipient results.
func (e *Executor) Execute(
	ctx context.Context,
	block *models.WorkflowBlock,
	config models.BlockConfig,
	execCtx *models.ExecutionContext,
) (models.BlockOutcome, error) {
	notificationConfig, ok := config.(models.NotificationConfig)
	if !ok {
		return models.BlockOutcome{}, fmt.Errorf("%w: expected notification configuration, got %T", models.ErrMalformedConfig, config)
	}

	if len(notificationConfig.Recipients) == 0 {
		execCtx.Warn(block.ID, SkippedMessage, nil)

		return models.BlockOutcome{Success: true, Message: SkippedMessage}, nil
	}

	if e.notifier == nil {
		return models.BlockOutcome{}, ErrNoNotifier
	}

	execCtx.Info(block.ID, fmt.Sprintf("Sending %s notification to %d recipient(s)", notificationConfig.Channel, len(notificationConfig.Recipients)), map[string]any{
		"type":       notificationConfig.Channel,
		"recipients": notificationConfig.Recipients,
	})

	results := make([]map[string]any, 0, len(notificationConfig.Recipients))
	succeeded := 0

	for _, recipient := range notificationConfig.Recipients {
		result := e.send(ctx, recipient, notificationConfig)
		results = append(results, result)

		if err := ctx.Err(); err != nil {
			return models.BlockOutcome{}, fmt.Errorf("notification to %s: %w", recipient, err)
		}

		if result["success"] == true {
			succeeded++

			continue
		}

		execCtx.Warn(block.ID, "Failed to notify "+recipient, result)
	}

	failed := len(notificationConfig.Recipients) - succeeded
	summary := map[string]any{
		"total":      len(notificationConfig.Recipients),
		"success":    succeeded,
		"failed":     failed,
		"recipients": notificationConfig.Recipients,
		"results":    results,
	}

	if succeeded == 0 {
		message := fmt.Sprintf("Notification failed for all %d recipient(s)", failed)
		execCtx.Error(block.ID, message, summary)

		return models.BlockOutcome{Success: false, Message: message, Data: summary}, nil
	}

	message := fmt.Sprintf("Notification sent to %d of %d recipient(s)", succeeded, len(notificationConfig.Recipients))
	execCtx.Info(block.ID, message, summary)

	return models.BlockOutcome{Success: true, Message: message, Data: summary}, nil
}

func (e *Executor) send(ctx context.Context, recipient string, config models.NotificationConfig) map[string]any {
	result := map[string]any{"recipient": recipient}

	sent, err := e.notifier.Send(ctx, protocol.Message{
		To:      recipient,
		Subject: config.Subject,
		Body:    config.Body,
	})

	switch {
	case err != nil:
		result["success"] = false
		result["error"] = err.Error()
	case !sent.Success:
		result["success"] = false
		result["error"] = sent.Error
	default:
		result["success"] = true
		if sent.MessageID != "" {
			result["message_id"] = sent.MessageID
		}
	}

	return result
}
