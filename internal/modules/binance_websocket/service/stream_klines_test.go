package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	openKline   = `{"e":"kline","E":1700000030000,"s":"BTCUSDT","k":{"t":1700000000000,"T":1700000059999,"s":"BTCUSDT","i":"1m","f":1,"L":9,"o":"50000.0","c":"50010.5","h":"50020.0","l":"49990.0","v":"12.5","n":9,"x":false,"q":"1","V":"2","Q":"3","B":"0"}}`
	closedKline = `{"e":"kline","E":1700000060000,"s":"BTCUSDT","k":{"t":1700000000000,"T":1700000059999,"s":"BTCUSDT","i":"1m","f":1,"L":12,"o":"50000.0","c":"50030.0","h":"50040.0","l":"49990.0","v":"20","n":12,"x":true,"q":"1","V":"2","Q":"3","B":"0"}}`
)

type recordingObserver struct {
	mu     sync.Mutex
	opened []string
	closed []string
	ticks  int
}

func (o *recordingObserver) StreamOpened(symbol string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, symbol)
}

func (o *recordingObserver) StreamClosed(symbol string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = append(o.closed, symbol)
}

func (o *recordingObserver) TouchTick(time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ticks++
}

func (o *recordingObserver) closedCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.closed)
}

// createMockWSServer: тестовый WS-сервер, handler получает уже апгрейднутое соединение.
func createMockWSServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(server.Close)

	return server
}

func newTestClient(serverURL string, obs StreamObserver) *Client {
	cfg := &config.Config{}
	cfg.Binance.WSBaseURL = strings.Replace(serverURL, "http://", "ws://", 1)
	cfg.Stream.HandshakeTimeout = time.Second
	cfg.Stream.ReadTimeout = 2 * time.Second
	cfg.Stream.PingInterval = 50 * time.Millisecond
	return NewClient(cfg, obs)
}

func collect(t *testing.T, ch <-chan models.StreamEvent, timeout time.Duration) []models.StreamEvent {
	t.Helper()
	var out []models.StreamEvent
	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-deadline:
			t.Fatalf("stream did not close within %s, got %d events", timeout, len(out))
		}
	}
}

func TestStreamKlines_DeliversCandlesAndClosesWithServer(t *testing.T) {
	subscribed := make(chan string, 1)
	server := createMockWSServer(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		subscribed <- string(msg)
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"result":null,"id":1}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(openKline))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(closedKline))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
	})

	obs := &recordingObserver{}
	c := newTestClient(server.URL, obs)

	events := collect(t, c.StreamKlines(context.Background(), "BTCUSDT", "1m"), 2*time.Second)

	require.Len(t, events, 4)
	assert.Equal(t, models.StreamConnected, events[0].Kind)
	assert.Equal(t, models.StreamCandle, events[1].Kind)
	assert.False(t, events[1].Candle.Closed)
	assert.Equal(t, models.StreamCandle, events[2].Kind)
	assert.True(t, events[2].Candle.Closed)
	assert.Equal(t, "BTCUSDT", events[2].Candle.Symbol)
	assert.Equal(t, "1m", events[2].Candle.Interval)
	assert.Equal(t, 50030.0, events[2].Candle.Close)
	assert.Equal(t, time.UnixMilli(1700000059999), events[2].Candle.End)

	// закрытие сервером: это StreamError для подписчика
	assert.Equal(t, models.StreamError, events[3].Kind)

	sub := <-subscribed
	assert.Contains(t, sub, `"method":"SUBSCRIBE"`)
	assert.Contains(t, sub, `"btcusdt@kline_1m"`)

	assert.Equal(t, int64(0), c.Active())
	assert.Equal(t, []string{"BTCUSDT"}, obs.opened)
	assert.Equal(t, 1, obs.closedCount())
	assert.Equal(t, 2, obs.ticks)
}

func TestStreamKlines_CancelClosesSubscription(t *testing.T) {
	serverDone := make(chan struct{})
	server := createMockWSServer(t, func(conn *websocket.Conn) {
		defer close(serverDone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	obs := &recordingObserver{}
	c := newTestClient(server.URL, obs)

	ctx, cancel := context.WithCancel(context.Background())
	ch := c.StreamKlines(ctx, "ETHUSDT", "1m")

	ev := <-ch
	require.Equal(t, models.StreamConnected, ev.Kind)
	require.Eventually(t, func() bool { return c.Active() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	for range collect(t, ch, 2*time.Second) {
		t.Fatal("no events expected after cancel")
	}

	assert.Equal(t, int64(0), c.Active())
	assert.Equal(t, 1, obs.closedCount())

	select {
	case <-serverDone:
	case <-time.After(2 * time.Second):
		t.Fatal("server side connection was not closed")
	}
}

func TestStreamKlines_DialError(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", nil)

	events := collect(t, c.StreamKlines(context.Background(), "BTCUSDT", "1m"), 3*time.Second)
	require.Len(t, events, 1)
	assert.Equal(t, models.StreamError, events[0].Kind)
	assert.Error(t, events[0].Err)
	assert.Equal(t, int64(0), c.Active())
}

func TestParseKline_IgnoresNonKline(t *testing.T) {
	_, ok, err := parseKline([]byte(`{"result":null,"id":7}`))
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = parseKline([]byte(`{`))
	assert.Error(t, err)

	ct, ok, err := parseKline([]byte(closedKline))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 49990.0, ct.Low)
	assert.Equal(t, 20.0, ct.Volume)
}
