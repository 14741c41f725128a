package order

import (
	"aggregate-persistence/core/journal"
	"aggregate-persistence/core/repository"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	gateway *Gateway
	service *Service
	handler *Handler
	err     error
}

// NewFeature creates the order feature. Without a database it stays disabled.
func NewFeature(db *gorm.DB, cfg repository.Config, sink journal.Sink, logger *zap.Logger) *Feature {
	if db == nil {
		return &Feature{}
	}
	gw, err := NewGateway(db, cfg, sink, logger)
	if err != nil {
		return &Feature{err: err}
	}
	svc := NewService(gw, logger)
	return &Feature{gateway: gw, service: svc, handler: NewHandler(svc, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "order"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.handler != nil || f.err != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if f.err != nil {
		return f.err
	}
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the order service, nil when disabled.
func (f *Feature) Service() *Service {
	return f.service
}
