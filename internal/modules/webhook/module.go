package webhook

import (
	"context"
	"net"
	"net/http"
	"time"

	"signal_bot/internal/modules/config"
	healthsvc "signal_bot/internal/modules/health/service"
	"signal_bot/internal/modules/webhook/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

type Config struct {
	Addr string
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: cfg.PublicAddr()}
}

func NewEngine(h *service.Handler) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	h.Register(r)
	return r
}

// RunHTTP поднимает публичный порт; после Listen сервис считается готовым.
func RunHTTP(lc fx.Lifecycle, cfg Config, h http.Handler, state *healthsvc.State) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			logger.Info("[WEBHOOK] listening on %s", cfg.Addr)
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("[WEBHOOK] serve: %v", err)
				}
			}()
			state.SetReady(true)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			state.SetReady(false)
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("webhook",
		fx.Provide(
			NewConfig,
			func(m *runner.Manager) service.SignalHandler {
				return m
			},
			service.NewHandler,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg Config, h *service.Handler, state *healthsvc.State) {
			RunHTTP(lc, cfg, NewEngine(h), state)
		}),
	)
}
