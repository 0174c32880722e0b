package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fieldworks/maintenance-service/internal/api/http/handlers"
	"github.com/fieldworks/maintenance-service/internal/auth"
	"github.com/fieldworks/maintenance-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Jobs           *handlers.JobsHandler
	Technicians    *handlers.TechniciansHandler
	Assets         *handlers.AssetsHandler
	Availability   *handlers.AvailabilityHandler
	Downtime       *handlers.DowntimeHandler
	Locations      *handlers.LocationsHandler
	Activity       *handlers.ActivityHandler
	Summaries      *handlers.SummariesHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Writes require PLANNER (or ADMIN),
// reads any authenticated account.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)

	planner := auth.RequireRole(domain.UserRolePlanner)

	jobs := protected.Group("/jobs")
	jobs.Get("", cfg.Jobs.ListJobs)
	jobs.Get("/:id", cfg.Jobs.GetJob)
	jobs.Post("", planner, cfg.Jobs.CreateJob)
	jobs.Patch("/:id", planner, cfg.Jobs.UpdateJob)
	jobs.Post("/:id/assign", planner, cfg.Jobs.AssignJob)
	jobs.Post("/:id/cancel", planner, cfg.Jobs.CancelJob)

	technicians := protected.Group("/technicians")
	technicians.Get("", cfg.Technicians.ListTechnicians)
	technicians.Get("/:id", cfg.Technicians.GetTechnician)
	technicians.Post("", planner, cfg.Technicians.CreateTechnician)
	technicians.Patch("/:id", planner, cfg.Technicians.UpdateTechnician)
	technicians.Post("/:id/deactivate", planner, cfg.Technicians.DeactivateTechnician)

	assets := protected.Group("/assets")
	assets.Get("", cfg.Assets.ListAssets)
	assets.Get("/:id", cfg.Assets.GetAsset)
	assets.Post("", planner, cfg.Assets.CreateAsset)
	assets.Patch("/:id", planner, cfg.Assets.UpdateAsset)

	availability := protected.Group("/availability")
	availability.Get("", cfg.Availability.ListSlots)
	availability.Post("", planner, cfg.Availability.CreateSlot)
	availability.Patch("/:id", planner, cfg.Availability.UpdateSlot)
	availability.Delete("/:id", planner, cfg.Availability.DeleteSlot)

	downtime := protected.Group("/downtime")
	downtime.Get("", cfg.Downtime.ListDowntime)
	downtime.Get("/:id", cfg.Downtime.GetDowntime)
	downtime.Post("", planner, cfg.Downtime.CreateDowntime)
	downtime.Patch("/:id", planner, cfg.Downtime.UpdateDowntime)
	downtime.Delete("/:id", planner, cfg.Downtime.DeleteDowntime)

	locations := protected.Group("/locations")
	locations.Get("", cfg.Locations.ListLocations)
	locations.Get("/:id", cfg.Locations.GetLocation)
	locations.Post("", planner, cfg.Locations.CreateLocation)

	protected.Get("/activity", cfg.Activity.ListActivity)

	summaries := protected.Group("/summaries")
	summaries.Get("/jobs", cfg.Summaries.JobSummary)
	summaries.Get("/workload", cfg.Summaries.Workload)
	summaries.Get("/downtime", cfg.Summaries.Downtime)
}
