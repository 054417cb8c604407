package binance_websocket

import (
	"signal_bot/internal/modules/binance_websocket/service"
	healthsvc "signal_bot/internal/modules/health/service"
	"signal_bot/internal/runner"

	"go.uber.org/fx"
)

// Module поднимает клиент kline-стримов Binance futures.
// Подписки открывает раннер: по одной на открытую позицию.
func Module() fx.Option {
	return fx.Module("binance_websocket",
		fx.Provide(
			func(s *healthsvc.State) service.StreamObserver {
				return s
			},
			service.NewClient,
			func(c *service.Client) runner.Streamer {
				return c
			},
		),
	)
}
