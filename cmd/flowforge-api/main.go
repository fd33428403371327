package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flowforge/flowforge/pkg/cmd"
	"github.com/flowforge/flowforge/pkg/dispatch"
	"github.com/flowforge/flowforge/pkg/log"
	"github.com/flowforge/flowforge/pkg/services"
	cli "github.com/urfave/cli/v3"
)

const (
	defaultPort     = 9091
	shutdownTimeout = 10 * time.Second
)

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "flowforge-api",
		Usage:                 "Create, schedule and execute workflows over HTTP",
		EnableShellCompletion: true,
		Flags: cmd.Flags(
			[]cli.Flag{
				&cli.IntFlag{
					Name:    "port",
					Aliases: []string{"p"},
					Usage:   "Port to run the API server on",
					Value:   defaultPort,
					Sources: cli.EnvVars("PORT"),
				},
				&cli.StringFlag{
					Name:    "dispatch-mode",
					Usage:   "How executions are started (direct, eventbus)",
					Value:   string(dispatch.ModeDirect),
					Sources: cli.EnvVars("DISPATCH_MODE"),
				},
			},
			cmd.LogFlags(),
			cmd.PersistenceFlags("memory://"),
			cmd.EventBusFlags(),
			cmd.EngineFlags(),
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))
			logger = log.WithModule("api")

			logger.InfoContext(ctx, "Initializing FlowForge API")

			mode := dispatch.Mode(command.String("dispatch-mode"))
			if mode != dispatch.ModeDirect && mode != dispatch.ModeEventBus {
				return fmt.Errorf("%w: %q", dispatch.ErrUnsupportedMode, mode)
			}

			runtime, err := cmd.NewRuntime(ctx, command, logger, cmd.RuntimeOptions{
				ServiceName: "flowforge-api",
				EventBus:    mode == dispatch.ModeEventBus,
			})
			if err != nil {
				return err
			}

			defer func() { _ = runtime.Close(ctx) }()

			var (
				dispatcher dispatch.Dispatcher
				canceller  services.Canceller
			)

			if mode == dispatch.ModeEventBus {
				dispatcher = dispatch.NewEventBusDispatcher(runtime.EventBus, runtime.Persistence.WorkflowRepository(), logger)
			} else {
				dispatcher = dispatch.NewDirectDispatcher(runtime.Manager)
				canceller = runtime.Manager
			}

			api := NewAPI(logger, runtime.Persistence, runtime.Registry, dispatcher, canceller)

			serveCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = api.Start(serveCtx, command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "API server stopped with error", "error", err)

				return err
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		logger.Error("flowforge-api failed", "error", err)
		os.Exit(1)
	}
}
