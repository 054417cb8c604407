package bootstrap

import (
	"context"
	"time"

	"signal_bot/internal/modules/binance_client/service"
	bootstrap "signal_bot/internal/modules/bootstrap/service"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

const preflightTimeout = 15 * time.Second

// Module на старте проверяет ключи и связь с Binance и пишет итог в лог и в нотифайер.
// Ошибка старт не валит: вебхук отдаст её на первом сигнале.
func Module() fx.Option {
	return fx.Module("bootstrap",
		fx.Provide(
			func(c *service.Client, cfg *config.Config) *bootstrap.Preflight {
				return bootstrap.NewPreflight(c, cfg.Trading.QuoteAsset)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, p *bootstrap.Preflight, n runner.Notifier) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						ctx, cancel := context.WithTimeout(context.Background(), preflightTimeout)
						defer cancel()

						rep, err := p.Run(ctx)
						if err != nil {
							logger.Warn("[BOOT] preflight failed: %v", err)
							n.Sendf("⚠️ Старт: проверка Binance не прошла: %v", err)
							return
						}
						logger.Info("[BOOT] %s balance=%s, tradable symbols=%d", rep.QuoteAsset, rep.QuoteBalance, rep.Symbols)
						n.Sendf("🚀 Бот запущен: %s=%s, leverage=%dx, закрытие по свече %s",
							rep.QuoteAsset, rep.QuoteBalance, cfg.Trading.Leverage, cfg.Trading.CloseInterval)
					}()
					return nil
				},
			})
		}),
	)
}
