package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/usecase"
)

// AdminHandler serves the operator surface under /admin/v1. The router
// guards every route with the operator token middleware.
type AdminHandler struct {
	usecase usecase.AdminUsecase
	logger  *zap.Logger
}

func NewAdminHandler(adminUsecase usecase.AdminUsecase, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		usecase: adminUsecase,
		logger:  logger,
	}
}

// GetLogs returns one fixed-size page of log entries, newest first.
func (h *AdminHandler) GetLogs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)

	logs, err := h.usecase.RecentLogs(c.UserContext(), page)
	if err != nil {
		h.logger.Error("Failed to list logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse(entity.ErrInternal()),
		)
	}

	return c.JSON(&entity.APIResponse{
		Success: true,
		Data: fiber.Map{
			"logs":      logs,
			"page":      page,
			"page_size": usecase.LogPageSize,
		},
	})
}

func (h *AdminHandler) ClearLogs(c *fiber.Ctx) error {
	if err := h.usecase.ClearLogs(c.UserContext()); err != nil {
		h.logger.Error("Failed to clear logs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse(entity.ErrInternal()),
		)
	}
	return c.JSON(entity.NewSuccessResponse(nil, "Logs cleared"))
}

func (h *AdminHandler) RotateAuthKey(c *fiber.Ctx) error {
	key, err := h.usecase.RotateAuthKey(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to rotate auth key", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse(entity.ErrInternal()),
		)
	}
	return c.JSON(entity.NewSuccessResponse(fiber.Map{"auth_key": key}, "Auth key rotated"))
}

func (h *AdminHandler) StartTestMode(c *fiber.Ctx) error {
	if err := h.usecase.StartTestMode(c.UserContext()); err != nil {
		h.logger.Error("Failed to start test mode", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse(entity.ErrInternal()),
		)
	}
	return c.JSON(entity.NewSuccessResponse(fiber.Map{"test_active": true}, "Test mode activated"))
}

func (h *AdminHandler) StopTestMode(c *fiber.Ctx) error {
	if err := h.usecase.StopTestMode(c.UserContext()); err != nil {
		h.logger.Error("Failed to stop test mode", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse(entity.ErrInternal()),
		)
	}
	return c.JSON(entity.NewSuccessResponse(fiber.Map{"test_active": false}, "Test mode deactivated"))
}

func (h *AdminHandler) TestModeStatus(c *fiber.Ctx) error {
	status, err := h.usecase.TestModeStatus(c.UserContext())
	if err != nil {
		h.logger.Error("Failed to read test mode status", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse(entity.ErrInternal()),
		)
	}
	return c.JSON(entity.NewSuccessResponse(status, ""))
}

func (h *AdminHandler) GetTrigger(c *fiber.Ctx) error {
	cfg, err := h.usecase.Trigger(c.UserContext(), c.Params("kind"))
	if err != nil {
		return h.triggerError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(cfg, ""))
}

func (h *AdminHandler) UpdateTrigger(c *fiber.Ctx) error {
	var update entity.TriggerUpdateRequest
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrInvalidBody(err.Error())),
		)
	}

	cfg, err := h.usecase.UpdateTrigger(c.UserContext(), c.Params("kind"), &update)
	if err != nil {
		return h.triggerError(c, err)
	}
	return c.JSON(entity.NewSuccessResponse(cfg, "Trigger updated"))
}

func (h *AdminHandler) triggerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnknownTrigger):
		return c.Status(fiber.StatusNotFound).JSON(
			entity.NewErrorResponse(entity.ErrNotFound(err.Error())),
		)
	case errors.Is(err, usecase.ErrInvalidHeaderJSON):
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrInvalidBody(err.Error())),
		)
	default:
		h.logger.Error("Trigger operation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(
			entity.NewErrorResponse(entity.ErrInternal()),
		)
	}
}
