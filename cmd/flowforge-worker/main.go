// Package main runs workflows published on the event bus by an API in eventbus dispatch mode.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/flowforge/flowforge/pkg/cmd"
	"github.com/flowforge/flowforge/pkg/dispatch"
	"github.com/flowforge/flowforge/pkg/log"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "flowforge-worker",
		EnableShellCompletion: true,
		Usage:                 "Execute workflows triggered through the event bus",
		Flags: cmd.Flags(
			[]cli.Flag{
				&cli.StringFlag{
					Name:    "worker-id",
					Aliases: []string{"id"},
					Usage:   "Custom worker ID (auto-generated if not provided)",
					Value:   "",
					Sources: cli.EnvVars("WORKER_ID"),
				},
			},
			cmd.LogFlags(),
			cmd.PersistenceFlags("memory://"),
			cmd.EventBusFlags(),
			cmd.EngineFlags(),
		),
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			workerID := command.String("worker-id")
			if workerID == "" {
				workerID = "worker-" + uuid.New().String()[:8]
			}

			logger := log.WithModule("flowforge-worker").With("workerId", workerID)

			logger.InfoContext(ctx, "Initializing FlowForge Worker")

			runtime, err := cmd.NewRuntime(ctx, command, logger, cmd.RuntimeOptions{
				ServiceName: "flowforge-worker",
				EventBus:    true,
			})
			if err != nil {
				return err
			}

			defer func() { _ = runtime.Close(ctx) }()

			runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			worker := dispatch.NewWorker(runtime.EventBus, runtime.Persistence.WorkflowRepository(), runtime.Manager, logger)

			err = worker.Start(runCtx)
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start worker", "error", err)

				return err
			}

			logger.InfoContext(ctx, "Worker started successfully")

			<-runCtx.Done()
			logger.InfoContext(ctx, "Shutting down worker...")

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		log.WithModule("flowforge-worker").Error("flowforge-worker failed", "error", err)
		os.Exit(1)
	}
}
