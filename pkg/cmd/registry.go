// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/flowforge/flowforge/pkg/protocol"
	"github.com/flowforge/flowforge/pkg/registry"
	"github.com/flowforge/flowforge/pkg/transport/httpapi"
	"github.com/flowforge/flowforge/pkg/transport/mail"
)

// NewRegistry registers every built-in block executor on top of the given transports.
func NewRegistry(logger *slog.Logger, notifier protocol.Notifier, caller protocol.APICaller) *registry.Registry {
	reg := registry.NewRegistry(logger)
	registry.RegisterDefaultBlocks(reg, notifier, caller)

	return reg
}

// NewNotifier returns an SMTP notifier when a host is configured and a log notifier otherwise.
func NewNotifier(config mail.SMTPConfig, logger *slog.Logger) (protocol.Notifier, error) {
	if config.Host == "" {
		logger.Info("SMTP host not configured, notifications are logged only")

		return mail.NewLogNotifier(logger), nil
	}

	return mail.NewSMTPNotifier(config, logger)
}

// NewAPICaller returns the transport for api_call blocks: http or simulate.
func NewAPICaller(kind string, logger *slog.Logger) (protocol.APICaller, error) {
	switch kind {
	case "", "http":
		return httpapi.NewCaller(logger), nil
	case "simulate":
		return httpapi.NewSimulatedCaller(logger), nil
	default:
		return nil, fmt.Errorf("unsupported api transport %q", kind)
	}
}
