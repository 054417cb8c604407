package telegram

import (
	"context"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/notify"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"

	"go.uber.org/fx"
)

// Module отдаёт раннеру нотифайер: Telegram, если заданы token и chat_id,
// иначе сообщения уходят в лог.
func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			func(r *runner.PositionRegistry) notify.PositionLister {
				return r
			},
			NewNotifier,
			func(n notify.Notifier) runner.Notifier {
				return n
			},
		),
	)
}

func NewNotifier(lc fx.Lifecycle, cfg *config.Config, positions notify.PositionLister) (notify.Notifier, error) {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		logger.Info("[TG] token or chat_id not set, notifications go to the log")
		return notify.NewStdout(), nil
	}

	t, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, positions)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return t.Start(ctx)
		},
		OnStop: func(context.Context) error {
			cancel()
			t.Stop()
			return nil
		},
	})
	return t, nil
}
