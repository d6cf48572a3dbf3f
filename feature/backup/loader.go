package backup

import (
	"studyhub/core/metrics"
	"studyhub/core/reconcile"
	"studyhub/core/sharecode"
	"studyhub/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Backup feature.
func NewFeature(repo store.Repository, target Target, prefix string, m *metrics.Metrics, logger *zap.Logger) *Feature {
	engine := reconcile.NewEngine(sharecode.NewGenerator())
	svc := NewService(repo, target, engine, prefix, m, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "backup"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the feature's service to the CLI.
func (f *Feature) Service() *Service {
	return f.service
}
