package router

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"webhook-gateway/internal/config"
	"webhook-gateway/internal/delivery/http/handler"
	"webhook-gateway/internal/domain/entity"
)

type Router struct {
	app            *fiber.App
	config         *config.Config
	webhookHandler *handler.WebhookHandler
	adminHandler   *handler.AdminHandler
	eventsHandler  *handler.EventsHandler
	healthHandler  *handler.HealthHandler
}

func NewRouter(
	cfg *config.Config,
	webhookHandler *handler.WebhookHandler,
	adminHandler *handler.AdminHandler,
	eventsHandler *handler.EventsHandler,
	healthHandler *handler.HealthHandler,
) *Router {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: customErrorHandler,
	})

	return &Router{
		app:            app,
		config:         cfg,
		webhookHandler: webhookHandler,
		adminHandler:   adminHandler,
		eventsHandler:  eventsHandler,
		healthHandler:  healthHandler,
	}
}

func (r *Router) Setup() *fiber.App {
	// Middleware
	r.app.Use(recover.New())
	r.app.Use(requestid.New())
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Auth-Key",
	}))

	if r.config.IsDevelopment() {
		r.app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		}))
	}

	// Health check route
	r.app.Get("/health", r.healthHandler.Health)

	// Inbound webhook endpoint (shared-secret gate lives in the pipeline)
	r.app.Post("/webhook/v1/:action", r.webhookHandler.Handle)

	// Operator routes
	admin := r.app.Group("/admin/v1", r.requireOperator)
	{
		admin.Get("/logs", r.adminHandler.GetLogs)
		admin.Delete("/logs", r.adminHandler.ClearLogs)
		admin.Post("/auth-key/rotate", r.adminHandler.RotateAuthKey)
		admin.Post("/test-mode/start", r.adminHandler.StartTestMode)
		admin.Post("/test-mode/stop", r.adminHandler.StopTestMode)
		admin.Get("/test-mode", r.adminHandler.TestModeStatus)
		admin.Get("/triggers/:kind", r.adminHandler.GetTrigger)
		admin.Put("/triggers/:kind", r.adminHandler.UpdateTrigger)
	}

	// Domain event ingress from the host CMS
	events := r.app.Group("/internal/events", r.requireOperator)
	{
		events.Post("/post-created", r.eventsHandler.PostCreated)
		events.Post("/post-published", r.eventsHandler.PostPublished)
		events.Post("/comment-created", r.eventsHandler.CommentCreated)
	}

	return r.app
}

func (r *Router) GetApp() *fiber.App {
	return r.app
}

// requireOperator gates the admin and event routes behind the operator
// bearer token. This is host authentication, distinct from the inbound
// shared-secret gate.
func (r *Router) requireOperator(c *fiber.Ctx) error {
	token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(
			entity.NewErrorResponse(entity.ErrMissingAuth()),
		)
	}

	expected := r.config.Gateway.AdminToken
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(token)) != 1 {
		return c.Status(fiber.StatusForbidden).JSON(
			entity.NewErrorResponse(entity.ErrInvalidAuth()),
		)
	}
	return c.Next()
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"error": fiber.Map{
			"code":    code,
			"message": err.Error(),
		},
	})
}
