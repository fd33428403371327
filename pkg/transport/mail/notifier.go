package mail

import (
	"context"
	"log/slog"

	"github.com/flowforge/flowforge/pkg/protocol"
	"github.com/google/uuid"
)

type (
	Message    = protocol.Message
	SendResult = protocol.SendResult
)

// LogNotifier writes notifications to the log instead of delivering them.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "log_notifier")}
}

func (n *LogNotifier) Send(ctx context.Context, message Message) (SendResult, error) {
	messageID := "log-" + uuid.NewString()

	n.logger.InfoContext(ctx, "Notification",
		"to", message.To,
		"subject", message.Subject,
		"body", message.Body,
		"message_id", messageID,
	)

	return SendResult{Success: true, MessageID: messageID}, nil
}
