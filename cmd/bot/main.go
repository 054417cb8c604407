package main

import (
	"context"
	"log"

	"signal_bot/internal/modules/binance_client"
	"signal_bot/internal/modules/binance_websocket"
	"signal_bot/internal/modules/bootstrap"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	telegram "signal_bot/internal/modules/telegram_bot"
	"signal_bot/internal/modules/tracing"
	"signal_bot/internal/modules/webhook"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
	pkgtracing "signal_bot/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

const serviceName = "signal_bot"

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.SetServiceName(serviceName)
	pkgtracing.SetServiceName(serviceName)
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("effective config:\n%s", cfg.Redacted())

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Base()}
		}),
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(cfg),
		tracing.Module(),
		health.Module(),
		runner.Module(),
		binance_client.Module(),
		binance_websocket.Module(),
		bootstrap.Module(),
		telegram.Module(),
		webhook.Module(),
	)
	app.Run()
}
