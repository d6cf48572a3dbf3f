package integrity

import (
	"studyhub/core/logger"
	"studyhub/core/server"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/data", h.HandleDataCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/bucket", h.HandleBucketCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Runs the data, schema and bucket checks concurrently.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := h.service.RunAll(c.Context())
	for name, msg := range report.Errors {
		l.Warn("Integrity check could not run", zap.String("check", name), zap.String("error", msg))
	}
	return c.JSON(report)
}

// HandleDataCheck checks and optionally repairs live data.
// @Summary Check Data
// @Description Checks share codes, membership, task completion and group references. Optionally repairs what can be repaired.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Repair fixable issues"
// @Success 200 {object} checks.DataReport "Data Report"
// @Failure 500 {object} server.ErrorResponse "Internal Server Error"
// @Router /integrity/data [get]
func (h *Handler) HandleDataCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if c.QueryBool("fix") {
		l.Info("Attempting to repair data issues")
		report, err := h.service.FixData(c.Context())
		if err != nil {
			return server.SendError(c, l, "Data repair failed", err)
		}
		return c.JSON(report)
	}

	report, err := h.service.CheckData(c.Context())
	if err != nil {
		return server.SendError(c, l, "Data check failed", err)
	}
	if len(report.Issues) > 0 {
		l.Warn("Data issues detected", zap.Int("issues", len(report.Issues)))
	}
	return c.JSON(report)
}

// HandleSchemaCheck checks the collections table.
// @Summary Check Schema
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} server.ErrorResponse "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	report, err := h.service.CheckSchema()
	if err != nil {
		return server.SendError(c, l, "Schema check failed", err)
	}
	return c.JSON(report)
}

// HandleBucketCheck checks and optionally creates the backup bucket.
// @Summary Check Backup Bucket
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create the bucket and export prefix"
// @Success 200 {object} checks.BucketReport "Bucket Report"
// @Failure 404 {object} server.ErrorResponse "Bucket target not configured"
// @Router /integrity/bucket [get]
func (h *Handler) HandleBucketCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckBucket(c.Context())
	if err != nil {
		return server.SendError(c, l, "Bucket check failed", err)
	}
	if report.Status != "ok" && c.QueryBool("fix") {
		l.Info("Attempting to create backup bucket")
		if err := h.service.FixBucket(c.Context()); err != nil {
			return server.SendError(c, l, "Failed to create backup bucket", err)
		}
		if report, err = h.service.CheckBucket(c.Context()); err != nil {
			return server.SendError(c, l, "Bucket check failed", err)
		}
	}
	return c.JSON(report)
}
