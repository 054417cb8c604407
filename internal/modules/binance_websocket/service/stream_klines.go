package service

import (
	"context"
	"time"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/pkg/logger"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// StreamKlines: одна WS-подписка на kline символа.
// Канал закрывается вместе с соединением.
// Отмена ctx и есть отписка. Переподключения нет, упавший поток заканчивается событием StreamError.
func (c *Client) StreamKlines(ctx context.Context, symbol, interval string) <-chan models.StreamEvent {
	ch := make(chan models.StreamEvent, 4)

	go func() {
		defer close(ch)

		emit := func(ev models.StreamEvent) bool {
			select {
			case ch <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		stream := StreamName(symbol, interval)
		url := c.baseURL + "/ws"

		logger.Info("[WS] connect %s", stream)
		conn, _, err := c.wsDialer.DialContext(ctx, url, nil)
		if err != nil {
			logger.Error("[WS] dial error %s: %v", stream, err)
			emit(models.StreamEvent{Kind: models.StreamError, Err: errors.Wrapf(err, "dial %s", stream)})
			return
		}

		c.active.Add(1)
		metrics.StreamSubscriptions.Inc()
		if c.obs != nil {
			c.obs.StreamOpened(symbol)
		}
		defer func() {
			_ = conn.Close()
			c.active.Add(-1)
			metrics.StreamSubscriptions.Dec()
			if c.obs != nil {
				c.obs.StreamClosed(symbol)
			}
			logger.Info("[WS] closed %s", stream)
		}()

		sub, _ := sonic.Marshal(subscribeFrame{
			Method: "SUBSCRIBE",
			Params: []string{stream},
			ID:     c.nextID.Add(1),
		})
		if err := conn.WriteMessage(websocket.TextMessage, sub); err != nil {
			logger.Error("[WS] subscribe error %s: %v", stream, err)
			emit(models.StreamEvent{Kind: models.StreamError, Err: errors.Wrapf(err, "subscribe %s", stream)})
			return
		}

		if !emit(models.StreamEvent{Kind: models.StreamConnected}) {
			return
		}

		// отписка: закрываем соединение, чтобы разблокировать ReadMessage
		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(time.Second))
				_ = conn.Close()
			case <-done:
			}
		}()

		if c.pingInterval > 0 {
			go c.pingLoop(conn, stream, done)
		}

		for {
			if c.readTimeout > 0 {
				_ = conn.SetReadDeadline(time.Now().Add(c.readTimeout))
			}
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("[WS] read error %s: %v", stream, err)
				emit(models.StreamEvent{Kind: models.StreamError, Err: errors.Wrapf(err, "read %s", stream)})
				return
			}

			candle, ok, err := parseKline(msg)
			if err != nil {
				logger.Debug("[WS] bad frame %s: %v", stream, err)
				continue
			}
			if !ok {
				continue
			}
			if c.obs != nil {
				c.obs.TouchTick(time.Now())
			}
			if !emit(models.StreamEvent{Kind: models.StreamCandle, Candle: candle}) {
				return
			}
		}
	}()

	return ch
}

// pingLoop: keepalive. WriteControl можно звать параллельно с чтением.
func (c *Client) pingLoop(conn *websocket.Conn, stream string, done <-chan struct{}) {
	t := time.NewTicker(c.pingInterval)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				logger.Debug("[WS] ping error %s: %v", stream, err)
				return
			}
		}
	}
}
