package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"webhook-gateway/internal/domain/entity"
	"webhook-gateway/internal/usecase"
)

// EventsHandler is the ingress for domain events raised at the Content Store
// boundary. Dispatch is synchronous: the response reports whether a webhook
// fired, and a delivery failure never errors the event source.
type EventsHandler struct {
	dispatcher usecase.TriggerDispatcher
	logger     *zap.Logger
}

func NewEventsHandler(dispatcher usecase.TriggerDispatcher, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (h *EventsHandler) PostCreated(c *fiber.Ctx) error {
	var event entity.PostCreatedEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrInvalidBody(err.Error())),
		)
	}

	fired := h.dispatcher.PostCreated(c.UserContext(), &event)
	return c.JSON(entity.NewSuccessResponse(fiber.Map{"fired": fired}, ""))
}

func (h *EventsHandler) PostPublished(c *fiber.Ctx) error {
	var event entity.PostPublishedEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrInvalidBody(err.Error())),
		)
	}

	fired := h.dispatcher.PostPublished(c.UserContext(), &event)
	return c.JSON(entity.NewSuccessResponse(fiber.Map{"fired": fired}, ""))
}

func (h *EventsHandler) CommentCreated(c *fiber.Ctx) error {
	var event entity.NewCommentEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(
			entity.NewErrorResponse(entity.ErrInvalidBody(err.Error())),
		)
	}

	fired := h.dispatcher.NewComment(c.UserContext(), &event)
	return c.JSON(entity.NewSuccessResponse(fiber.Map{"fired": fired}, ""))
}
