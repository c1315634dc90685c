package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/request-tracker/internal/api/http/handlers"
	"github.com/spec-kit/request-tracker/internal/auth"
	"github.com/spec-kit/request-tracker/internal/ratelimit"
)

// RouteConfig bundles everything needed to register the HTTP surface.
type RouteConfig struct {
	Auth     *handlers.AuthHandler
	Requests *handlers.RequestsHandler
	Upload   *handlers.UploadHandler
	Admin    *handlers.AdminHandler
	Health   *handlers.HealthHandler

	AuthMiddleware *auth.AuthMiddleware
	RateLimiter    *ratelimit.Limiter
}

// RegisterRoutes wires all endpoints onto the fiber app.
func RegisterRoutes(app *fiber.App, rc RouteConfig) {
	app.Get("/health/live", rc.Health.Live)
	app.Get("/health/ready", rc.Health.Ready)

	api := app.Group("/api")

	limited := func(h fiber.Handler) []fiber.Handler {
		if rc.RateLimiter == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{rc.RateLimiter.Middleware(), h}
	}

	authGroup := api.Group("/auth")
	authGroup.Post("/register", limited(rc.Auth.Register)...)
	authGroup.Post("/login", limited(rc.Auth.Login)...)
	authGroup.Post("/logout", rc.AuthMiddleware.Handle, rc.Auth.Logout)
	authGroup.Get("/me", rc.AuthMiddleware.Handle, rc.Auth.Me)

	profile := api.Group("/profile", rc.AuthMiddleware.Handle)
	profile.Patch("/basic-info", rc.Auth.UpdateBasicInfo)
	profile.Patch("/password", rc.Auth.ChangePassword)

	requests := api.Group("/requests", rc.AuthMiddleware.Handle)
	requests.Post("/upload", limited(rc.Upload.Upload)...)
	requests.Post("/", rc.Requests.Create)
	requests.Get("/", rc.Requests.List)
	requests.Get("/:id", rc.Requests.Get)
	requests.Post("/:id/comments", rc.Requests.AddComment)
	requests.Get("/:id/comments", rc.Requests.ListComments)

	admin := api.Group("/admin", rc.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/requests", rc.Admin.ListRequests)
	admin.Patch("/requests/:id/status", rc.Admin.UpdateStatus)
	admin.Get("/stats", rc.Admin.Stats)
}
