// Package main is the command line entry point for running workflow documents locally.
package main

import (
	"context"
	"os"

	"github.com/flowforge/flowforge/pkg/cmd"
	"github.com/flowforge/flowforge/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func main() {
	command := &cli.Command{
		Name:                  "flowforge",
		Usage:                 "Validate and run workflow documents",
		EnableShellCompletion: true,
		Flags:                 cmd.LogFlags(),
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Aliases:   []string{"r"},
				Usage:     "Execute a workflow file and print its execution record",
				ArgsUsage: "<file|->",
				Flags: cmd.Flags(
					[]cli.Flag{
						&cli.StringFlag{
							Name:  "data",
							Usage: "Trigger data as a JSON object",
						},
					},
					cmd.PersistenceFlags("memory://"),
					cmd.EngineFlags(),
				),
				Action: runCommand,
			},
			{
				Name:      "validate",
				Aliases:   []string{"v"},
				Usage:     "Check a workflow file without executing it",
				ArgsUsage: "<file|->",
				Action:    validateCommand,
			},
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		log.WithModule("flowforge").Error("flowforge failed", "error", err)
		os.Exit(1)
	}
}
