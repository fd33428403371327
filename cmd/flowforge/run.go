package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/flowforge/flowforge/pkg/cmd"
	"github.com/flowforge/flowforge/pkg/config"
	"github.com/flowforge/flowforge/pkg/log"
	"github.com/flowforge/flowforge/pkg/models"
	"github.com/flowforge/flowforge/pkg/services"
	"github.com/flowforge/flowforge/pkg/workflow"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	cli "github.com/urfave/cli/v3"
)

const cliTriggerSource = "cli"

var (
	errMissingFile     = errors.New("a workflow file is required")
	errExecutionFailed = errors.New("workflow execution failed")
)

func runCommand(ctx context.Context, command *cli.Command) error {
	path := command.Args().First()
	if path == "" {
		return errMissingFile
	}

	data, err := parseTriggerData(command.String("data"))
	if err != nil {
		return err
	}

	logger := log.WithModule("cli")

	runtime, err := cmd.NewRuntime(ctx, command, logger, cmd.RuntimeOptions{ServiceName: "flowforge"})
	if err != nil {
		return err
	}

	defer func() { _ = runtime.Close(ctx) }()

	validate := validator.New(validator.WithRequiredStructEnabled())
	workflows := services.NewWorkflow(runtime.Persistence, runtime.Registry, validate, logger)

	return runWorkflow(ctx, path, data, workflows, runtime.Manager, os.Stdout)
}

func validateCommand(_ context.Context, command *cli.Command) error {
	path := command.Args().First()
	if path == "" {
		return errMissingFile
	}

	logger := log.WithModule("cli")
	validate := validator.New(validator.WithRequiredStructEnabled())
	workflows := services.NewWorkflow(nil, cmd.NewRegistry(logger, nil, nil), validate, logger)

	return validateWorkflow(path, workflows, os.Stdout)
}

// runWorkflow executes the document at path and writes the final record as JSON.
// A failed or cancelled execution is reported as an error after the record is written.
func runWorkflow(
	ctx context.Context,
	path string,
	data map[string]any,
	workflows *services.Workflow,
	manager *workflow.Manager,
	out io.Writer,
) error {
	wf, err := loadValid(path, workflows, out)
	if err != nil {
		return err
	}

	if wf.ID == "" {
		wf.ID = uuid.New().String()
	}

	record, err := manager.RunSync(ctx, wf, workflow.Trigger{Source: cliTriggerSource, Data: data})
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	err = encoder.Encode(record)
	if err != nil {
		return fmt.Errorf("failed to write execution record: %w", err)
	}

	if record.Status != models.ExecutionStatusCompleted {
		return fmt.Errorf("%w: %s %s", errExecutionFailed, record.Status, record.ErrorMessage)
	}

	return nil
}

func validateWorkflow(path string, workflows *services.Workflow, out io.Writer) error {
	wf, err := loadValid(path, workflows, out)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(out, "workflow %q is valid: %d blocks, %d connections\n", wf.Name, len(wf.Blocks), len(wf.Connections))

	return err
}

// loadValid parses path and prints every validation problem before failing.
func loadValid(path string, workflows *services.Workflow, out io.Writer) (*models.Workflow, error) {
	wf, err := config.LoadWorkflow(path)
	if err != nil {
		return nil, err
	}

	err = workflows.Validate(wf)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			for _, detail := range validationErr.Details {
				_, _ = fmt.Fprintf(out, "  - %s\n", detail)
			}
		}

		return nil, err
	}

	return wf, nil
}

func parseTriggerData(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}

	var data map[string]any

	err := json.Unmarshal([]byte(raw), &data)
	if err != nil {
		return nil, fmt.Errorf("invalid trigger data: %w", err)
	}

	return data, nil
}
