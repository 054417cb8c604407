package runner

import (
	"context"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			NewPositionRegistry, // *PositionRegistry
			NewManager,          // *Manager
		),
		fx.Invoke(func(lc fx.Lifecycle, m *Manager) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					return m.Stop(ctx)
				},
			})
		}),
	)
}
