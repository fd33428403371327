package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/flowforge/flowforge/pkg/eventbus"
	"github.com/flowforge/flowforge/pkg/otelhelper"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/flowforge/flowforge/pkg/registry"
	"github.com/flowforge/flowforge/pkg/transport/mail"
	"github.com/flowforge/flowforge/pkg/workflow"
	"github.com/urfave/cli/v3"
)

// Runtime is the engine wired from command flags.
type Runtime struct {
	Logger      *slog.Logger
	Persistence persistence.Persistence
	Registry    *registry.Registry
	Executor    *workflow.Executor
	Manager     *workflow.Manager
	// EventBus is nil unless requested.
	EventBus eventbus.EventBus

	shutdownTracer otelhelper.ShutdownFunc
}

// RuntimeOptions selects optional components.
type RuntimeOptions struct {
	ServiceName string
	EventBus    bool
}

// NewRuntime builds the engine from the flags of command. Partially built
// components are closed on error.
func NewRuntime(ctx context.Context, command *cli.Command, logger *slog.Logger, opts RuntimeOptions) (_ *Runtime, err error) {
	r := &Runtime{Logger: logger}

	defer func() {
		if err != nil {
			r.Close(ctx)
		}
	}()

	tracer, shutdown, err := otelhelper.NewTracer(ctx, opts.ServiceName, otelhelper.Exporter(command.String("tracing")))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	r.shutdownTracer = shutdown

	r.Persistence, err = NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize persistence: %w", err)
	}

	notifier, err := NewNotifier(mail.SMTPConfig{
		Host:     command.String("smtp-host"),
		Port:     command.Int("smtp-port"),
		Username: command.String("smtp-username"),
		Password: command.String("smtp-password"),
		From:     command.String("smtp-from"),
	}, logger)
	if err != nil {
		return nil, err
	}

	caller, err := NewAPICaller(command.String("api-transport"), logger)
	if err != nil {
		return nil, err
	}

	r.Registry = NewRegistry(logger, notifier, caller)

	executorOpts := []workflow.Option{
		workflow.WithLogger(logger),
		workflow.WithTracer(tracer),
		workflow.WithBlockTimeout(command.Duration("block-timeout")),
	}

	if opts.EventBus {
		r.EventBus, err = NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
		if err != nil {
			return nil, err
		}

		executorOpts = append(executorOpts, workflow.WithPublisher(r.EventBus))
	}

	r.Executor = workflow.NewExecutor(r.Registry, executorOpts...)
	r.Manager = workflow.NewManager(r.Persistence, r.Executor, logger)

	return r, nil
}

// Close drains the manager, then closes the event bus, the store and the tracer.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error

	if r.Manager != nil {
		drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		errs = append(errs, r.Manager.Shutdown(drainCtx))

		cancel()
	}

	if r.EventBus != nil {
		errs = append(errs, r.EventBus.Close())
	}

	if r.Persistence != nil {
		errs = append(errs, r.Persistence.Close(ctx))
	}

	if r.shutdownTracer != nil {
		errs = append(errs, r.shutdownTracer(context.WithoutCancel(ctx)))
	}

	err := errors.Join(errs...)
	if err != nil {
		r.Logger.ErrorContext(ctx, "Failed to close runtime", "error", err)
	}

	return err
}
