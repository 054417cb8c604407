package runner

import (
	"sort"
	"sync"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
)

// PositionRegistry: реестр открытых ботом позиций, ключ: символ.
// Запись удаляет только её владелец (ClientOrderID входного ордера): поздняя очистка
// старой подписки не снесёт новую позицию по тому же символу.
type PositionRegistry struct {
	mu        sync.Mutex
	positions map[string]*models.OpenPosition
}

func NewPositionRegistry() *PositionRegistry {
	return &PositionRegistry{
		positions: make(map[string]*models.OpenPosition),
	}
}

// Reserve занимает символ под входной ордер. false: по символу уже есть позиция.
func (r *PositionRegistry) Reserve(symbol string, side models.Side, clientOrderID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.positions[symbol]; ok {
		return false
	}
	r.positions[symbol] = &models.OpenPosition{
		Symbol:        symbol,
		EntrySide:     side,
		ClientOrderID: clientOrderID,
		State:         models.StateEntryPending,
	}
	r.updateGauge()
	return true
}

// Commit фиксирует позицию после успешного входного ордера.
func (r *PositionRegistry) Commit(pos models.OpenPosition) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.positions[pos.Symbol]
	if !ok || cur.ClientOrderID != pos.ClientOrderID || cur.State != models.StateEntryPending {
		return false
	}
	pos.State = models.StateStreaming
	r.positions[pos.Symbol] = &pos
	return true
}

// Claim забирает позицию под закрытие: STREAMING -> CLOSE_PENDING.
// Повторный вызов по тому же символу ничего не вернёт: второго закрывающего ордера не будет.
func (r *PositionRegistry) Claim(symbol string) (models.OpenPosition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.positions[symbol]
	if !ok || cur.State != models.StateStreaming {
		return models.OpenPosition{}, false
	}
	cur.State = models.StateClosePending
	return *cur, true
}

// Remove удаляет запись, если она всё ещё принадлежит clientOrderID.
func (r *PositionRegistry) Remove(symbol, clientOrderID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.positions[symbol]
	if !ok || cur.ClientOrderID != clientOrderID {
		return false
	}
	delete(r.positions, symbol)
	r.updateGauge()
	return true
}

func (r *PositionRegistry) Get(symbol string) (models.OpenPosition, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.positions[symbol]
	if !ok {
		return models.OpenPosition{}, false
	}
	return *cur, true
}

func (r *PositionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.positions)
}

// Snapshot: копия реестра, отсортированная по символу.
func (r *PositionRegistry) Snapshot() []models.OpenPosition {
	r.mu.Lock()
	out := make([]models.OpenPosition, 0, len(r.positions))
	for _, p := range r.positions {
		out = append(out, *p)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

// под r.mu
func (r *PositionRegistry) updateGauge() {
	metrics.OpenPositions.Set(float64(len(r.positions)))
}
