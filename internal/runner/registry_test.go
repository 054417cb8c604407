package runner

import (
	"sync"
	"testing"

	"signal_bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionRegistry_Lifecycle(t *testing.T) {
	r := NewPositionRegistry()

	require.True(t, r.Reserve("BTCUSDT", models.SideBuy, "a"))
	require.False(t, r.Reserve("BTCUSDT", models.SideSell, "b"))

	got, ok := r.Get("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, models.StateEntryPending, got.State)

	// до Commit закрывать нечего
	_, ok = r.Claim("BTCUSDT")
	assert.False(t, ok)

	require.False(t, r.Commit(models.OpenPosition{Symbol: "BTCUSDT", ClientOrderID: "b"}))
	require.True(t, r.Commit(models.OpenPosition{
		Symbol: "BTCUSDT", EntrySide: models.SideBuy, Quantity: "0.060", ClientOrderID: "a",
	}))

	got, _ = r.Get("BTCUSDT")
	assert.Equal(t, models.StateStreaming, got.State)
	assert.Equal(t, "0.060", got.Quantity)

	claimed, ok := r.Claim("BTCUSDT")
	require.True(t, ok)
	assert.Equal(t, models.StateClosePending, claimed.State)

	_, ok = r.Claim("BTCUSDT")
	assert.False(t, ok)

	assert.False(t, r.Remove("BTCUSDT", "b"))
	assert.True(t, r.Remove("BTCUSDT", "a"))
	assert.False(t, r.Remove("BTCUSDT", "a"))
	assert.Equal(t, 0, r.Len())
}

func TestPositionRegistry_StaleRemoveKeepsNewOwner(t *testing.T) {
	r := NewPositionRegistry()

	require.True(t, r.Reserve("ETHUSDT", models.SideBuy, "old"))
	require.True(t, r.Remove("ETHUSDT", "old"))
	require.True(t, r.Reserve("ETHUSDT", models.SideSell, "new"))

	assert.False(t, r.Remove("ETHUSDT", "old"))
	got, ok := r.Get("ETHUSDT")
	require.True(t, ok)
	assert.Equal(t, "new", got.ClientOrderID)
}

func TestPositionRegistry_SnapshotSorted(t *testing.T) {
	r := NewPositionRegistry()
	r.Reserve("XRPUSDT", models.SideBuy, "1")
	r.Reserve("BTCUSDT", models.SideBuy, "2")
	r.Reserve("ETHUSDT", models.SideSell, "3")

	snap := r.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "BTCUSDT", snap[0].Symbol)
	assert.Equal(t, "ETHUSDT", snap[1].Symbol)
	assert.Equal(t, "XRPUSDT", snap[2].Symbol)
}

func TestPositionRegistry_ConcurrentReserve(t *testing.T) {
	r := NewPositionRegistry()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		won int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Reserve("BTCUSDT", models.SideBuy, "x") {
				mu.Lock()
				won++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won)
	assert.Equal(t, 1, r.Len())
}
