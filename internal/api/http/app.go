package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/lead-service/internal/config"
	"github.com/spec-kit/lead-service/internal/observability"
)

// NewApp builds the Fiber application. Parsed values must stay valid after the
// handler returns, since the store and queued notifications keep them.
func NewApp(cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      cfg.Name,
		BodyLimit:    cfg.BodyLimitBytes,
		Immutable:    true,
		ErrorHandler: ErrorHandler(logger, metrics),
	})
}
