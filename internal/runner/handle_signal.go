package runner

import (
	"context"
	"errors"
	"time"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"

	"github.com/shopspring/decimal"
)

// HandleSignal открывает позицию по сигналу и ставит её на закрытие по свече.
// Возвращается сразу после входного ордера, закрытия не ждёт.
// Ошибки до входного ордера: *models.TradeError без побочных эффектов.
func (m *Manager) HandleSignal(ctx context.Context, sig models.Signal) (res *models.OrderResult, err error) {
	span, ctx := tracing.StartSpan(ctx, "runner.HandleSignal", sig.Symbol)
	defer func() { tracing.Finish(span, err) }()

	if sig.Symbol == "" {
		return nil, m.reject(sig, models.ErrMissingFields)
	}
	if !sig.Side.Valid() {
		return nil, m.reject(sig, models.ErrInvalidSide)
	}
	if sig.Price <= 0 {
		return nil, m.reject(sig, models.ErrInvalidPrice)
	}

	clientOrderID := m.newID()
	if !m.reg.Reserve(sig.Symbol, sig.Side, clientOrderID) {
		return nil, m.reject(sig, models.ErrPositionExists.Withf(sig.Symbol))
	}
	committed := false
	defer func() {
		if !committed {
			m.reg.Remove(sig.Symbol, clientOrderID)
		}
	}()

	// обрыв вебхука не должен отменять уже ушедший на биржу ордер:
	// дальше работаем на своём таймауте, а не на контексте запроса
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.settings.OrderTimeout)
	defer cancel()

	qty, err := m.orderQuantity(ctx, sig)
	if err != nil {
		return nil, m.reject(sig, err)
	}

	order, err := m.gw.SubmitOrder(ctx, models.OrderRequest{
		Symbol:        sig.Symbol,
		Side:          sig.Side,
		Type:          models.OrderTypeMarket,
		Quantity:      qty,
		ClientOrderID: clientOrderID,
	})
	if err != nil {
		metrics.Orders.WithLabelValues(metrics.OrderEntry, metrics.ResultError).Inc()
		logger.Error("[ENTRY] %s %s qty=%s failed: %v", sig.Symbol, sig.Side, qty, err)
		return nil, models.ErrOrderPlacementFailed.With(err)
	}
	metrics.Orders.WithLabelValues(metrics.OrderEntry, metrics.ResultOK).Inc()

	pos := models.OpenPosition{
		Symbol:        sig.Symbol,
		EntrySide:     sig.Side,
		Quantity:      qty,
		EntryOrderID:  order.OrderID,
		ClientOrderID: clientOrderID,
		OpenedAt:      time.Now(),
	}
	m.reg.Commit(pos)
	committed = true

	logger.Info("[ENTRY] %s %s qty=%s @ ~%.8g orderId=%d", sig.Symbol, sig.Side, qty, sig.Price, order.OrderID)
	m.notify("✅ [%s] OPEN %s qty=%s @ ~%.8g (orderId=%d)", sig.Symbol, sig.Side, qty, sig.Price, order.OrderID)

	if !m.startCloseTask(pos) {
		// сервис останавливается: закрывать будет некому
		m.reg.Remove(pos.Symbol, pos.ClientOrderID)
		logger.Warn("[ENTRY] %s: shutting down, position left open on the exchange", sig.Symbol)
	}

	return order, nil
}

// orderQuantity: баланс -> exchangeInfo -> stepSize -> объём.
func (m *Manager) orderQuantity(ctx context.Context, sig models.Signal) (string, error) {
	balances, err := m.gw.GetBalances(ctx)
	if err != nil {
		return "", models.ErrBalanceFetchFailed.With(err)
	}
	balance, ok := quoteBalance(balances, m.settings.QuoteAsset)
	if !ok {
		return "", models.ErrBalanceUnavailable.Withf(m.settings.QuoteAsset)
	}

	info, err := m.gw.GetExchangeInfo(ctx)
	if err != nil {
		return "", models.ErrExchangeInfoFailed.With(err)
	}
	symbol, ok := info.Symbol(sig.Symbol)
	if !ok {
		return "", models.ErrSymbolNotFound.Withf(sig.Symbol)
	}
	stepSize, ok := symbol.StepSize()
	if !ok {
		return "", models.ErrFilterMissing
	}

	return CalcQuantity(
		balance,
		m.settings.BalanceReserve,
		m.settings.Leverage,
		decimal.NewFromFloat(sig.Price),
		stepSize,
	)
}

// quoteBalance: положительный баланс quote-актива.
func quoteBalance(balances []models.Balance, asset string) (decimal.Decimal, bool) {
	for _, b := range balances {
		if b.Asset != asset {
			continue
		}
		v, err := decimal.NewFromString(b.Balance)
		if err != nil || !v.IsPositive() {
			return decimal.Zero, false
		}
		return v, true
	}
	return decimal.Zero, false
}

func (m *Manager) reject(sig models.Signal, err error) error {
	code := "unknown"
	var te *models.TradeError
	if errors.As(err, &te) {
		code = te.Code
	}
	metrics.SignalRejections.WithLabelValues(code).Inc()
	logger.Warn("[SIGNAL] %s %s rejected: %v", sig.Symbol, sig.Side, err)
	return err
}
