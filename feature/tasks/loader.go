package tasks

import (
	"time"

	"studyhub/core/calendar"
	"studyhub/core/notify"
	"studyhub/core/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new Tasks feature.
func NewFeature(repo store.Repository, scheduler notify.Scheduler, cal calendar.Adapter, calCfg calendar.Config, notifyCfg notify.Config, logger *zap.Logger) *Feature {
	lead := time.Duration(notifyCfg.LeadMinutes) * time.Minute
	svc := NewService(repo, scheduler, cal, calCfg.CalendarID, lead, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "tasks"
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

// Service exposes the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
