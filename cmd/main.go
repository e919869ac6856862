package main

import (
	"go.uber.org/fx"

	"webhook-gateway/internal/config"
	deliveryhttp "webhook-gateway/internal/delivery/http"
	"webhook-gateway/internal/infrastructure/contentstore"
	"webhook-gateway/internal/infrastructure/database"
	"webhook-gateway/internal/infrastructure/logger"
	"webhook-gateway/internal/infrastructure/ratelimit"
	"webhook-gateway/internal/infrastructure/redis"
	"webhook-gateway/internal/infrastructure/repository"
	"webhook-gateway/internal/infrastructure/session"
	"webhook-gateway/internal/infrastructure/webhook"
	"webhook-gateway/internal/server"
	"webhook-gateway/internal/usecase"
)

func main() {
	fx.New(
		// Configuration
		config.Module,

		// Infrastructure
		logger.Module,
		database.Module,
		redis.Module,
		repository.Module,
		ratelimit.Module,
		session.Module,
		webhook.Module,
		contentstore.Module,

		// Business Logic
		usecase.Module,

		// Delivery
		deliveryhttp.Module,

		// Server
		server.Module,
	).Run()
}
