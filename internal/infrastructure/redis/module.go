package redis

import (
	"go.uber.org/fx"

	"webhook-gateway/internal/infrastructure/kv"
)

var Module = fx.Module("redis",
	fx.Provide(
		fx.Annotate(
			NewRedisClient,
			fx.As(new(kv.Store)),
		),
	),
)
