package groups

import (
	"studyhub/core/logger"
	"studyhub/core/server"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for groups.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateRequest is the body of a create call.
type CreateRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	School       string `json:"school"`
	ClassName    string `json:"className"`
	TeacherEmail string `json:"teacherEmail"`
}

// JoinRequest is the body of a join call.
type JoinRequest struct {
	Code string `json:"code"`
}

// RegisterRoutes registers the group routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/groups")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleCreate)
	group.Post("/join", h.HandleJoin)
	group.Get("/:id", h.HandleGet)
	group.Patch("/:id", h.HandleUpdate)
	group.Post("/:id/leave", h.HandleLeave)
	group.Post("/:id/code", h.HandleRegenerateCode)
}

// HandleList returns the groups visible to the acting user.
// @Summary List Groups
// @Description List groups the user owns or belongs to; all groups when ?all=true.
// @Tags groups
// @Produce json
// @Param X-User-ID header string false "Acting user (defaults to the local profile)"
// @Param all query bool false "Return every group"
// @Success 200 {array} models.Group
// @Failure 500 {object} server.ErrorResponse
// @Router /groups [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	userID := c.Get(server.UserHeader)
	if c.QueryBool("all") {
		userID = ""
	}

	groups, err := h.service.List(c.Context(), userID)
	if err != nil {
		return server.SendError(c, l, "Failed to list groups", err)
	}
	return c.JSON(groups)
}

// HandleCreate creates a group owned by the acting user.
// @Summary Create Group
// @Tags groups
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Owner (defaults to the local profile)"
// @Param body body CreateRequest true "Group"
// @Success 201 {object} models.Group
// @Failure 400 {object} server.ErrorResponse
// @Router /groups [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return server.BadRequest(c, err)
	}

	meta := Patch{
		Description:  &req.Description,
		School:       &req.School,
		ClassName:    &req.ClassName,
		TeacherEmail: &req.TeacherEmail,
	}
	g, err := h.service.Create(c.Context(), c.Get(server.UserHeader), req.Name, meta)
	if err != nil {
		return server.SendError(c, l, "Failed to create group", err)
	}
	return c.Status(fiber.StatusCreated).JSON(g)
}

// HandleGet returns a single group.
// @Summary Get Group
// @Tags groups
// @Produce json
// @Param id path string true "Group ID"
// @Success 200 {object} models.Group
// @Failure 404 {object} server.ErrorResponse
// @Router /groups/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	g, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return server.SendError(c, l, "Failed to get group", err)
	}
	return c.JSON(g)
}

// HandleJoin adds the acting user to the group holding the code.
// @Summary Join Group
// @Description Join a group by share code. Codes are case-insensitive.
// @Tags groups
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Joining user (defaults to the local profile)"
// @Param body body JoinRequest true "Share code"
// @Success 200 {object} models.Group
// @Failure 404 {object} server.ErrorResponse "Unknown code"
// @Failure 409 {object} server.ErrorResponse "Already a member, or the owner"
// @Router /groups/join [post]
func (h *Handler) HandleJoin(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	var req JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return server.BadRequest(c, err)
	}

	g, err := h.service.JoinByCode(c.Context(), req.Code, c.Get(server.UserHeader))
	if err != nil {
		return server.SendError(c, l, "Failed to join group", err)
	}
	return c.JSON(g)
}

// HandleLeave removes the acting user from the group.
// @Summary Leave Group
// @Tags groups
// @Produce json
// @Param id path string true "Group ID"
// @Param X-User-ID header string false "Leaving user (defaults to the local profile)"
// @Success 200 {object} models.Group
// @Failure 404 {object} server.ErrorResponse
// @Failure 409 {object} server.ErrorResponse "Not a member, or the owner"
// @Router /groups/{id}/leave [post]
func (h *Handler) HandleLeave(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	g, err := h.service.Leave(c.Context(), c.Params("id"), c.Get(server.UserHeader))
	if err != nil {
		return server.SendError(c, l, "Failed to leave group", err)
	}
	return c.JSON(g)
}

// HandleUpdate applies a metadata patch. Owner only.
// @Summary Update Group
// @Tags groups
// @Accept json
// @Produce json
// @Param id path string true "Group ID"
// @Param X-User-ID header string false "Requesting user (defaults to the local profile)"
// @Param body body Patch true "Fields to change"
// @Success 200 {object} models.Group
// @Failure 400 {object} server.ErrorResponse
// @Failure 403 {object} server.ErrorResponse
// @Router /groups/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	var patch Patch
	if err := c.BodyParser(&patch); err != nil {
		return server.BadRequest(c, err)
	}

	g, err := h.service.UpdateMetadata(c.Context(), c.Params("id"), patch, c.Get(server.UserHeader))
	if err != nil {
		return server.SendError(c, l, "Failed to update group", err)
	}
	return c.JSON(g)
}

// HandleRegenerateCode issues a new share code. Owner only.
// @Summary Regenerate Share Code
// @Tags groups
// @Produce json
// @Param id path string true "Group ID"
// @Param X-User-ID header string false "Requesting user (defaults to the local profile)"
// @Success 200 {object} models.Group
// @Failure 403 {object} server.ErrorResponse
// @Router /groups/{id}/code [post]
func (h *Handler) HandleRegenerateCode(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	g, err := h.service.RegenerateCode(c.Context(), c.Params("id"), c.Get(server.UserHeader))
	if err != nil {
		return server.SendError(c, l, "Failed to regenerate share code", err)
	}
	return c.JSON(g)
}
