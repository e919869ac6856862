package usecase

import "go.uber.org/fx"

var Module = fx.Module("usecase",
	fx.Provide(NewGatewayUsecase),
	fx.Provide(NewTriggerDispatcher),
	fx.Provide(NewAdminUsecase),
)
