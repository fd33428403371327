package web

import "github.com/gofiber/fiber/v3"

// CreateSchedule accepts the workflow either from the route or the body.
func (h *APIHandlers) CreateSchedule(c fiber.Ctx) error {
	var req ScheduleRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if id := c.Params("id"); id != "" {
		req.WorkflowID = id
	}

	if req.WorkflowID == "" {
		return badRequest(c, "workflow_id is required")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	schedule, err := h.scheduleService.Create(c.Context(), req.WorkflowID, req.Schedule)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(schedule)
}

func (h *APIHandlers) GetSchedules(c fiber.Ctx) error {
	workflowID := c.Params("id")
	if workflowID == "" {
		workflowID = c.Query("workflow_id")
	}

	schedules, err := h.scheduleService.List(c.Context(), workflowID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"schedules":   schedules,
		"total_count": len(schedules),
	})
}

func (h *APIHandlers) DeleteSchedule(c fiber.Ctx) error {
	err := h.scheduleService.Delete(c.Context(), c.Params("id"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
