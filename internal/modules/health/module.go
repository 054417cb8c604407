package health

import (
	"context"
	"net"
	"net/http"
	"time"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

type Config struct {
	Addr string // например ":8080"
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: cfg.AdminAddr()}
}

// PositionCounter: сколько позиций сейчас в реестре.
type PositionCounter interface {
	Len() int
}

func NewHandler(state *service.State, positions PositionCounter) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/livez", func(c *gin.Context) {
		// liveness: процесс жив
		c.String(http.StatusOK, "ok")
	})

	r.GET("/readyz", func(c *gin.Context) {
		// readiness: вебхук слушает порт
		if !state.Ready() {
			c.String(http.StatusServiceUnavailable, "not ready")
			return
		}
		c.String(http.StatusOK, "ready")
	})

	r.GET("/healthz", func(c *gin.Context) {
		lastTick := int64(0)
		if t := state.LastTick(); !t.IsZero() {
			lastTick = t.Unix()
		}
		c.JSON(http.StatusOK, gin.H{
			"ready":         state.Ready(),
			"activeStreams": state.ActiveStreams(),
			"openPositions": positions.Len(),
			"uptimeSec":     int64(state.Uptime().Seconds()),
			"lastTickUnix":  lastTick,
		})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RunHTTP(lc fx.Lifecycle, cfg Config, h http.Handler) {
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
			logger.Info("[ADMIN] listening on %s", cfg.Addr)
			go func() { _ = srv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewConfig,
			func(r *runner.PositionRegistry) PositionCounter {
				return r
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg Config, state *service.State, positions PositionCounter) {
			RunHTTP(lc, cfg, NewHandler(state, positions))
		}),
	)
}
