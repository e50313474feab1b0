package broker

import (
	"go.uber.org/fx"

	"signal_bot/internal/modules/broker/service"
)

func Module() fx.Option {
	return fx.Module("broker",
		fx.Provide(
			service.New, // *service.Client
		),
	)
}
