package runner

import (
	"context"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

// superviseClose держит kline-подписку позиции до первой закрытой свечи.
// На любом выходе подписка закрыта и запись в реестре освобождена.
func (m *Manager) superviseClose(pos models.OpenPosition) {
	subCtx, cancel := context.WithCancel(m.ctx)
	events := m.stream.StreamKlines(subCtx, pos.Symbol, m.settings.CloseInterval)

	defer func() {
		cancel()
		for range events {
			// ждём, пока клиент закроет соединение
		}
		if m.reg.Remove(pos.Symbol, pos.ClientOrderID) {
			logger.Warn("[CLOSE] %s: subscription ended without close order, position left open on the exchange", pos.Symbol)
		}
	}()

	for ev := range events {
		switch ev.Kind {
		case models.StreamConnected:
			logger.Info("[CLOSE] %s: waiting for %s candle close", pos.Symbol, m.settings.CloseInterval)

		case models.StreamError:
			metrics.StreamErrors.Inc()
			logger.Error("[CLOSE] %v", models.ErrStreamFailed.Withf(pos.Symbol).With(ev.Err))

		case models.StreamCandle:
			ct := ev.Candle
			if !ct.Closed {
				continue
			}
			if ct.Symbol == "" {
				ct.Symbol = pos.Symbol
			}
			if ct.Symbol != pos.Symbol {
				continue
			}
			m.OnCandleClose(m.ctx, ct)
			return
		}
	}
}

// OnCandleClose закрывает позицию по символу свечи встречным рыночным ордером.
// Нет позиции или она уже закрывается: ничего не делаем. Ошибку закрытия
// только логируем: запись всё равно удаляется, повторов нет.
func (m *Manager) OnCandleClose(ctx context.Context, ct models.CandleTick) {
	if !ct.Closed {
		return
	}

	pos, ok := m.reg.Claim(ct.Symbol)
	if !ok {
		logger.Debug("[CLOSE] %s: no position awaiting close", ct.Symbol)
		return
	}
	defer m.reg.Remove(pos.Symbol, pos.ClientOrderID)

	var err error
	span, ctx := tracing.StartSpan(ctx, "runner.OnCandleClose", pos.Symbol)
	defer func() { tracing.Finish(span, err) }()

	// закрывающий ордер уходит даже при остановке сервиса
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.settings.OrderTimeout)
	defer cancel()

	side := pos.EntrySide.Opposite()
	res, err := m.gw.SubmitOrder(ctx, models.OrderRequest{
		Symbol:        pos.Symbol,
		Side:          side,
		Type:          models.OrderTypeMarket,
		Quantity:      pos.Quantity,
		ClientOrderID: m.newID(),
		ReduceOnly:    true,
	})
	if err != nil {
		metrics.Orders.WithLabelValues(metrics.OrderClose, metrics.ResultError).Inc()
		logger.Error("[CLOSE] %s %s qty=%s failed, position left open on the exchange: %v",
			pos.Symbol, side, pos.Quantity, err)
		return
	}
	metrics.Orders.WithLabelValues(metrics.OrderClose, metrics.ResultOK).Inc()

	logger.Info("[CLOSE] %s %s qty=%s on candle close %.8g orderId=%d (entry orderId=%d)",
		pos.Symbol, side, pos.Quantity, ct.Close, res.OrderID, pos.EntryOrderID)
	m.notify("🏁 [%s] CLOSE %s qty=%s on %s candle close @ ~%.8g (orderId=%d)",
		pos.Symbol, side, pos.Quantity, ct.Interval, ct.Close, res.OrderID)
}
