package handler

import (
	"github.com/gofiber/fiber/v2"

	"webhook-gateway/internal/config"
)

type HealthHandler struct {
	config *config.Config
}

func NewHealthHandler(cfg *config.Config) *HealthHandler {
	return &HealthHandler{config: cfg}
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"name":   h.config.App.Name,
		"env":    h.config.App.Env,
	})
}
