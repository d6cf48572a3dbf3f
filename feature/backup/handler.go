package backup

import (
	"fmt"

	"studyhub/core/logger"
	"studyhub/core/reconcile"
	"studyhub/core/server"

	"github.com/gofiber/fiber/v2"
)

// Handler handles HTTP requests for backups.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the backup routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/backup")
	group.Get("/", h.HandleList)
	group.Get("/export", h.HandleDownload)
	group.Post("/export", h.HandleExport)
	group.Post("/import/merge", h.HandleImportMerge)
	group.Post("/import/replace", h.HandleImportReplace)
}

// HandleList returns the stored exports.
// @Summary List Backups
// @Tags backup
// @Produce json
// @Success 200 {array} string
// @Router /backup [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	names, err := h.service.List(c.Context())
	if err != nil {
		return server.SendError(c, l, "Failed to list backups", err)
	}
	return c.JSON(names)
}

// HandleDownload returns a fresh snapshot as an attachment.
// @Summary Download Snapshot
// @Tags backup
// @Produce json
// @Success 200 {object} models.Snapshot
// @Router /backup/export [get]
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	snap, err := h.service.Snapshot(c.Context())
	if err != nil {
		return server.SendError(c, l, "Failed to capture snapshot", err)
	}
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", FileName(h.service.prefix, snap.ExportedAt)))
	return c.JSON(snap)
}

// HandleExport writes a snapshot to the configured target.
// @Summary Export Snapshot
// @Tags backup
// @Produce json
// @Success 201 {object} ExportResult
// @Failure 500 {object} server.ErrorResponse
// @Router /backup/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	res, err := h.service.Export(c.Context())
	if err != nil {
		return server.SendError(c, l, "Export failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// HandleImportMerge merges a snapshot into the live state.
// @Summary Import (merge)
// @Description Merge a snapshot by id. Existing records win; counters never decrease.
// @Description The snapshot is the request body, or a stored export named by ?name=.
// @Tags backup
// @Accept json
// @Produce json
// @Param name query string false "Stored export to import"
// @Success 200 {object} reconcile.Result
// @Failure 400 {object} server.ErrorResponse "Malformed snapshot; nothing applied"
// @Failure 409 {object} server.ErrorResponse "Another import is running"
// @Router /backup/import/merge [post]
func (h *Handler) HandleImportMerge(c *fiber.Ctx) error {
	return h.handleImport(c, reconcile.StrategyMerge)
}

// HandleImportReplace overwrites the live state with a snapshot.
// @Summary Import (replace)
// @Description Overwrite every collection with the snapshot. Destructive.
// @Tags backup
// @Accept json
// @Produce json
// @Param name query string false "Stored export to import"
// @Success 200 {object} reconcile.Result
// @Failure 400 {object} server.ErrorResponse "Malformed snapshot; nothing applied"
// @Failure 409 {object} server.ErrorResponse "Another import is running"
// @Router /backup/import/replace [post]
func (h *Handler) HandleImportReplace(c *fiber.Ctx) error {
	return h.handleImport(c, reconcile.StrategyReplace)
}

func (h *Handler) handleImport(c *fiber.Ctx, strategy reconcile.Strategy) error {
	l := logger.WithRayID(h.service.logger, c)

	raw := c.Body()
	if name := c.Query("name"); name != "" {
		data, err := h.service.Read(c.Context(), name)
		if err != nil {
			return server.SendError(c, l, "Failed to read backup", err)
		}
		raw = data
	}

	var (
		res reconcile.Result
		err error
	)
	if strategy == reconcile.StrategyReplace {
		res, err = h.service.ImportReplace(c.Context(), raw)
	} else {
		res, err = h.service.ImportMerge(c.Context(), raw)
	}
	if err != nil {
		return server.SendError(c, l, "Import failed", err)
	}
	return c.JSON(res)
}
