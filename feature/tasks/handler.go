package tasks

import (
	"studyhub/core/logger"
	"studyhub/core/server"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for tasks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the task routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/tasks")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Get("/:id", h.HandleGet)
	group.Delete("/:id", h.HandleDelete)
	group.Post("/:id/complete", h.HandleComplete)
	group.Post("/:id/reopen", h.HandleReopen)
}

// HandleList returns tasks, optionally those of one group.
// @Summary List Tasks
// @Tags tasks
// @Produce json
// @Param groupId query string false "Only tasks assigned to this group"
// @Success 200 {array} models.Task
// @Router /tasks [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	tasks, err := h.service.List(c.Context(), c.Query("groupId"))
	if err != nil {
		return server.SendError(c, l, "Failed to list tasks", err)
	}
	return c.JSON(tasks)
}

// HandleCreate adds a task.
// @Summary Create Task
// @Tags tasks
// @Accept json
// @Produce json
// @Param body body CreateInput true "Task"
// @Success 201 {object} models.Task
// @Failure 400 {object} server.ErrorResponse
// @Router /tasks [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	var in CreateInput
	if err := c.BodyParser(&in); err != nil {
		return server.BadRequest(c, err)
	}
	if in.OwnerID == "" {
		in.OwnerID = c.Get(server.UserHeader)
	}

	task, err := h.service.Create(c.Context(), in)
	if err != nil {
		return server.SendError(c, l, "Failed to create task", err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// HandleGet returns a single task.
// @Summary Get Task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} models.Task
// @Failure 404 {object} server.ErrorResponse
// @Router /tasks/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	task, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return server.SendError(c, l, "Failed to get task", err)
	}
	return c.JSON(task)
}

// HandleComplete marks a task completed.
// @Summary Complete Task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} models.Task
// @Failure 409 {object} server.ErrorResponse
// @Router /tasks/{id}/complete [post]
func (h *Handler) HandleComplete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	task, err := h.service.Complete(c.Context(), c.Params("id"), c.Get(server.UserHeader))
	if err != nil {
		return server.SendError(c, l, "Failed to complete task", err)
	}
	return c.JSON(task)
}

// HandleReopen marks a task pending again.
// @Summary Reopen Task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} models.Task
// @Failure 409 {object} server.ErrorResponse
// @Router /tasks/{id}/reopen [post]
func (h *Handler) HandleReopen(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	task, err := h.service.Reopen(c.Context(), c.Params("id"), c.Get(server.UserHeader))
	if err != nil {
		return server.SendError(c, l, "Failed to reopen task", err)
	}
	return c.JSON(task)
}

// HandleDelete removes a task.
// @Summary Delete Task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 404 {object} server.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if err := h.service.Delete(c.Context(), c.Params("id"), c.Get(server.UserHeader)); err != nil {
		return server.SendError(c, l, "Failed to delete task", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
