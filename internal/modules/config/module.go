package config

import "go.uber.org/fx"

// Module кладёт уже прочитанный *Config в граф: конфиг нужен до fx, чтобы поднять логгер.
func Module(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
	)
}
