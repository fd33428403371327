// Package main provides the FlowForge API server implementation.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/flowforge/flowforge/pkg/dispatch"
	"github.com/flowforge/flowforge/pkg/persistence"
	"github.com/flowforge/flowforge/pkg/registry"
	"github.com/flowforge/flowforge/pkg/scheduler"
	"github.com/flowforge/flowforge/pkg/services"
	"github.com/flowforge/flowforge/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	dispatcher  dispatch.Dispatcher
	canceller   services.Canceller
	scheduler   *scheduler.Scheduler
	validate    *validator.Validate
}

// NewAPI wires the HTTP surface. canceller is nil when executions run in
// another process.
func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	registry *registry.Registry,
	dispatcher dispatch.Dispatcher,
	canceller services.Canceller,
) *API {
	return &API{
		persistence: persistence,
		logger:      logger,
		registry:    registry,
		dispatcher:  dispatcher,
		canceller:   canceller,
		scheduler: scheduler.New(
			persistence.ScheduleRepository(),
			persistence.WorkflowRepository(),
			dispatcher,
			logger,
		),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	workflowService := services.NewWorkflow(a.persistence, a.registry, a.validate, a.logger)
	executionService := services.NewExecution(a.persistence, a.dispatcher, a.canceller, workflowService, a.logger)
	scheduleService := services.NewSchedule(a.persistence, a.scheduler)

	handlers := web.NewAPIHandlers(workflowService, executionService, scheduleService, a.validate, a.registry)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("FlowForge API")
	})

	web.RegisterRoutes(app, handlers)

	return app
}

// Start serves on port until ctx is cancelled, then stops the scheduler and
// the listener.
func (a *API) Start(ctx context.Context, port int) error {
	err := a.scheduler.Start(ctx)
	if err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	app := a.App()
	listenErr := make(chan error, 1)

	go func() {
		listenErr <- app.Listen(":"+strconv.Itoa(port), fiber.ListenConfig{DisableStartupMessage: true})
	}()

	a.logger.InfoContext(ctx, "FlowForge API listening", "port", port)

	select {
	case err = <-listenErr:
	case <-ctx.Done():
		a.logger.InfoContext(ctx, "Shutting down API...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err = app.ShutdownWithContext(shutdownCtx)
	}

	stopErr := a.scheduler.Stop(context.WithoutCancel(ctx))
	if errors.Is(stopErr, scheduler.ErrNotStarted) {
		stopErr = nil
	}

	return errors.Join(err, stopErr)
}
