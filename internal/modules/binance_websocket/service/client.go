package service

import (
	"strings"
	"sync/atomic"
	"time"

	"signal_bot/internal/modules/config"

	"github.com/gorilla/websocket"
)

// StreamObserver получает события жизненного цикла подписок (health).
type StreamObserver interface {
	StreamOpened(symbol string)
	StreamClosed(symbol string)
	TouchTick(t time.Time)
}

type Client struct {
	wsDialer *websocket.Dialer
	baseURL  string
	obs      StreamObserver

	pingInterval time.Duration
	readTimeout  time.Duration

	active atomic.Int64
	nextID atomic.Int64
}

func NewClient(cfg *config.Config, obs StreamObserver) *Client {
	return &Client{
		wsDialer: &websocket.Dialer{
			HandshakeTimeout: cfg.Stream.HandshakeTimeout,
		},
		baseURL:      strings.TrimRight(cfg.Binance.WSBaseURL, "/"),
		obs:          obs,
		pingInterval: cfg.Stream.PingInterval,
		readTimeout:  cfg.Stream.ReadTimeout,
	}
}

// Active: число живых подписок.
func (c *Client) Active() int64 { return c.active.Load() }
