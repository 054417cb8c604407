package tracing

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"

	"go.uber.org/fx"
)

// Module ставит jaeger глобальным трейсером, если tracing.enabled.
// Выключен: span'ы раннера уходят в noop-трейсер opentracing.
func Module() fx.Option {
	return fx.Module("tracing",
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			if !cfg.Tracing.Enabled {
				return nil
			}

			_, closer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Tracing.Host,
				Port: cfg.Tracing.Port,
			})
			if err != nil {
				return err
			}
			logger.Info("[TRACING] jaeger agent %s:%d", cfg.Tracing.Host, cfg.Tracing.Port)

			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closer()
					return nil
				},
			})
			return nil
		}),
	)
}
