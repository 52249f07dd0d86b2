package routes

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/izlanproject/izlan-backend/internal/config"
	"github.com/izlanproject/izlan-backend/internal/handlers"
	"github.com/izlanproject/izlan-backend/internal/middleware"
	"github.com/izlanproject/izlan-backend/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	roles *services.RoleService,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	moderationHandler *handlers.ModerationHandler,
	resourceHandlers []*handlers.ResourceHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 120 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               120,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Credential endpoints get a stricter rate limit.
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	api.Post("/auth/logout", middleware.JWTProtected(cfg), authHandler.Logout)

	// Generic CRUD gateway: reads are public, writes require a token and
	// flow through the moderation engine.
	jwtRequired := middleware.JWTProtected(cfg)
	for _, h := range resourceHandlers {
		res := h.Resource()
		group := api.Group("/" + res.Path)
		group.Get("/", h.List)
		group.Get(idPath(res), h.GetByID)
		group.Post("/", jwtRequired, h.Create)
		group.Put(idPath(res), jwtRequired, h.Update)
		group.Delete(idPath(res), jwtRequired, h.Delete)
	}

	// Review surface, moderators and above.
	moderation := api.Group("/moderation", jwtRequired, middleware.RequireModerator(roles))
	moderation.Get("/requests", moderationHandler.ListRequests)
	moderation.Get("/requests/:id", moderationHandler.GetRequest)
	moderation.Post("/requests/:id/approve", moderationHandler.ApproveRequest)
	moderation.Post("/requests/:id/reject", moderationHandler.RejectRequest)
	moderation.Get("/history/:table/:id", moderationHandler.TargetHistory)
}

func idPath(res handlers.Resource) string {
	parts := make([]string, len(res.IDColumns))
	for i, col := range res.IDColumns {
		parts[i] = ":" + col
	}
	return "/" + strings.Join(parts, "/")
}
