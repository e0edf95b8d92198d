package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/lead-service/internal/api/http/handlers"
	"github.com/spec-kit/lead-service/internal/auth"
	"github.com/spec-kit/lead-service/internal/observability"
)

// LeadRoutes is the admin surface shared by every submission kind.
type LeadRoutes interface {
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	SendEmail(c *fiber.Ctx) error
}

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Intake         *handlers.IntakeHandler
	Contacts       LeadRoutes
	Projects       LeadRoutes
	Careers        LeadRoutes
	Resumes        *handlers.ResumeHandler
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")
	api.Get("/health", cfg.Health.Live)
	api.Get("/health/ready", cfg.Health.Ready)

	requireAdmin := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", requireAdmin, cfg.Auth.Me)
	authGroup.Post("/logout", requireAdmin, cfg.Auth.Logout)

	contact := api.Group("/contact")
	contact.Post("/", cfg.Intake.Contact)
	registerLeadRoutes(contact, cfg.Contacts, requireAdmin)

	project := api.Group("/project")
	project.Post("/", cfg.Intake.Project)
	registerLeadRoutes(project, cfg.Projects, requireAdmin)

	career := api.Group("/career")
	career.Post("/", cfg.Intake.Career)
	career.Get("/resume/:filename", requireAdmin, cfg.Resumes.Download)
	registerLeadRoutes(career, cfg.Careers, requireAdmin)

	app.Use(NotFound)
}

func registerLeadRoutes(group fiber.Router, leads LeadRoutes, requireAdmin fiber.Handler) {
	group.Get("/", requireAdmin, leads.List)
	group.Get("/:id", requireAdmin, leads.Get)
	group.Put("/:id", requireAdmin, leads.Update)
	group.Post("/:id/send-email", requireAdmin, leads.SendEmail)
}
