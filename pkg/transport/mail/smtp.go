// Package mail provides the notifiers used by notification blocks.
package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"
)

const (
	DefaultPort = 587
	DefaultFrom = "FlowForge Automation <noreply@flowforge.local>"

	sendTimeout = 15 * time.Second
)

var (
	ErrMissingHost      = errors.New("smtp host is required")
	ErrInvalidRecipient = errors.New("invalid recipient address")
)

// SMTPConfig holds the SMTP connection settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sender is the part of the go-mail client the notifier uses.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPNotifier sends each notification as a plain text mail with an HTML alternative.
type SMTPNotifier struct {
	sender sender
	from   string
	logger *slog.Logger
}

func NewSMTPNotifier(config SMTPConfig, logger *slog.Logger) (*SMTPNotifier, error) {
	if config.Host == "" {
		return nil, ErrMissingHost
	}

	if config.Port == 0 {
		config.Port = DefaultPort
	}

	opts := []gomail.Option{
		gomail.WithPort(config.Port),
		gomail.WithTimeout(sendTimeout),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}

	if config.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(config.Username),
			gomail.WithPassword(config.Password),
		)
	}

	client, err := gomail.NewClient(config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return newSMTPNotifier(client, config.From, logger), nil
}

func newSMTPNotifier(s sender, from string, logger *slog.Logger) *SMTPNotifier {
	if from == "" {
		from = DefaultFrom
	}

	return &SMTPNotifier{
		sender: s,
		from:   from,
		logger: logger.With("module", "smtp_notifier"),
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, message Message) (SendResult, error) {
	msg, err := n.buildMessage(message)
	if err != nil {
		return SendResult{Success: false, Error: err.Error()}, nil
	}

	err = n.sender.DialAndSendWithContext(ctx, msg)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to send mail to %s: %w", message.To, err)
	}

	messageID := strings.Trim(firstHeader(msg, gomail.HeaderMessageID), "<>")

	n.logger.InfoContext(ctx, "Mail sent", "to", message.To, "message_id", messageID)

	return SendResult{Success: true, MessageID: messageID}, nil
}

func (n *SMTPNotifier) buildMessage(message Message) (*gomail.Msg, error) {
	msg := gomail.NewMsg()

	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}

	if err := msg.To(message.To); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRecipient, message.To)
	}

	msg.Subject(message.Subject)
	msg.SetMessageID()
	msg.SetDate()
	msg.SetBodyString(gomail.TypeTextPlain, message.Body)
	msg.AddAlternativeString(gomail.TypeTextHTML, renderHTML(message))

	return msg, nil
}

func renderHTML(message Message) string {
	return fmt.Sprintf(
		`<div style="font-family: Arial, sans-serif; padding: 20px;"><h2>%s</h2><p>%s</p>`+
			`<hr><p style="color: #6B7280; font-size: 12px;">Sent by FlowForge Workflow Automation</p></div>`,
		html.EscapeString(message.Subject),
		html.EscapeString(message.Body),
	)
}

func firstHeader(msg *gomail.Msg, header gomail.Header) string {
	values := msg.GetGenHeader(header)
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
