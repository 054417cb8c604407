package binance_client

import (
	"signal_bot/internal/modules/binance_client/service"
	"signal_bot/internal/runner"

	"go.uber.org/fx"
)

// Module поднимает REST-клиент Binance futures и отдаёт его раннеру как Gateway.
func Module() fx.Option {
	return fx.Module("binance_client",
		fx.Provide(
			service.NewClient,
			func(c *service.Client) runner.Gateway {
				return c
			},
		),
	)
}
