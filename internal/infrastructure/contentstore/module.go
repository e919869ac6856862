package contentstore

import (
	"go.uber.org/fx"

	domain "webhook-gateway/internal/domain/contentstore"
)

var Module = fx.Module("contentstore",
	fx.Provide(
		fx.Annotate(
			NewClient,
			fx.As(new(domain.ContentStore)),
		),
	),
)
