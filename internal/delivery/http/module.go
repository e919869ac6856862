package http

import (
	"go.uber.org/fx"

	"webhook-gateway/internal/delivery/http/handler"
	"webhook-gateway/internal/delivery/http/router"
)

var Module = fx.Module("http",
	fx.Provide(
		handler.NewWebhookHandler,
		handler.NewAdminHandler,
		handler.NewEventsHandler,
		handler.NewHealthHandler,
		router.NewRouter,
	),
)
