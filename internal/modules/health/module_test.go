package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"signal_bot/internal/modules/health/service"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticCounter int

func (c staticCounter) Len() int { return int(c) }

func init() {
	gin.SetMode(gin.TestMode)
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestReadyz(t *testing.T) {
	state := service.NewState()
	h := NewHandler(state, staticCounter(0))

	assert.Equal(t, http.StatusOK, get(t, h, "/livez").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/readyz").Code)

	state.SetReady(true)
	assert.Equal(t, http.StatusOK, get(t, h, "/readyz").Code)
}

func TestHealthz(t *testing.T) {
	state := service.NewState()
	state.SetReady(true)
	state.StreamOpened("BTCUSDT")
	state.StreamOpened("ETHUSDT")
	state.StreamClosed("ETHUSDT")
	state.TouchTick(time.Unix(1700000000, 0))

	w := get(t, NewHandler(state, staticCounter(1)), "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ready"])
	assert.Equal(t, float64(1), body["activeStreams"])
	assert.Equal(t, float64(1), body["openPositions"])
	assert.Equal(t, float64(1700000000), body["lastTickUnix"])
}

func TestMetricsEndpoint(t *testing.T) {
	w := get(t, NewHandler(service.NewState(), staticCounter(0)), "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
