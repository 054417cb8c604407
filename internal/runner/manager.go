package runner

import (
	"context"
	"sync"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/modules/config"
	"signal_bot/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gateway: REST-биржа: баланс, метаданные символов, ордера.
type Gateway interface {
	GetBalances(ctx context.Context) ([]models.Balance, error)
	GetExchangeInfo(ctx context.Context) (*models.ExchangeInfo, error)
	SubmitOrder(ctx context.Context, req models.OrderRequest) (*models.OrderResult, error)
}

// Streamer: kline-подписка по символу. Отмена ctx закрывает подписку,
// закрытие канала означает, что соединение закрыто.
type Streamer interface {
	StreamKlines(ctx context.Context, symbol, interval string) <-chan models.StreamEvent
}

// Notifier: информационные сообщения о сделках (Telegram или лог).
type Notifier interface {
	Sendf(format string, args ...any)
}

type Settings struct {
	QuoteAsset     string
	Leverage       int
	BalanceReserve decimal.Decimal
	CloseInterval  string
	OrderTimeout   time.Duration
}

func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		QuoteAsset:     cfg.Trading.QuoteAsset,
		Leverage:       cfg.Trading.Leverage,
		BalanceReserve: decimal.NewFromFloat(cfg.Trading.BalanceReserve),
		CloseInterval:  cfg.Trading.CloseInterval,
		OrderTimeout:   cfg.Trading.OrderTimeout,
	}
}

// Manager ведёт жизненный цикл позиции: сигнал -> входной ордер -> подписка на свечу -> закрывающий ордер.
type Manager struct {
	gw       Gateway
	stream   Streamer
	n        Notifier
	reg      *PositionRegistry
	settings Settings
	newID    func() string

	// ctx живёт дольше HTTP-запроса: на нём висят подписки закрытия
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex // stopped + wg.Add
	stopped bool
	wg      sync.WaitGroup
}

func NewManager(
	ctx context.Context,
	cfg *config.Config,
	gw Gateway,
	stream Streamer,
	n Notifier,
	reg *PositionRegistry,
) *Manager {
	return newManager(ctx, SettingsFromConfig(cfg), gw, stream, n, reg)
}

func newManager(
	ctx context.Context,
	settings Settings,
	gw Gateway,
	stream Streamer,
	n Notifier,
	reg *PositionRegistry,
) *Manager {
	mctx, cancel := context.WithCancel(ctx)
	return &Manager{
		gw:       gw,
		stream:   stream,
		n:        n,
		reg:      reg,
		settings: settings,
		newID:    uuid.NewString,
		ctx:      mctx,
		cancel:   cancel,
	}
}

// Stop гасит все подписки и ждёт их очистки. Позиции на бирже остаются открытыми.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()

	if n := m.reg.Len(); n > 0 {
		logger.Warn("[RUNNER] stopping with %d tracked position(s), they stay open on the exchange", n)
	}
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startCloseTask запускает надзор за позицией. false: менеджер уже остановлен.
func (m *Manager) startCloseTask(pos models.OpenPosition) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return false
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.superviseClose(pos)
	}()
	return true
}

// notify не блокирует вызывающего: медленный Telegram не задерживает ответ вебхуку.
func (m *Manager) notify(format string, args ...any) {
	if m.n == nil {
		return
	}
	go m.n.Sendf(format, args...)
}
