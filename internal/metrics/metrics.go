// Package metrics: Prometheus-метрики бота.
//
//   - bot_webhook_requests_total{status}    - ответы вебхука по HTTP-коду
//   - bot_orders_total{kind,result}         - ордера: kind=entry|close, result=ok|error
//   - bot_signal_rejections_total{code}     - сигналы, отклонённые до ордера
//   - bot_open_positions                    - записи в реестре позиций
//   - bot_stream_subscriptions              - живые kline-подписки
//   - bot_stream_errors_total               - обрывы kline-подписок
//
// Регистрируются в init() и отдаются на admin-порту по /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	WebhookRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_webhook_requests_total",
			Help: "Webhook responses by HTTP status",
		},
		[]string{"status"},
	)

	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_orders_total",
			Help: "Orders submitted to the exchange",
		},
		[]string{"kind", "result"},
	)

	SignalRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_signal_rejections_total",
			Help: "Signals rejected before an entry order was placed",
		},
		[]string{"code"},
	)

	OpenPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_open_positions",
			Help: "Positions tracked in the in-memory registry",
		},
	)

	StreamSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_stream_subscriptions",
			Help: "Live kline stream subscriptions",
		},
	)

	StreamErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_stream_errors_total",
			Help: "Kline subscriptions that ended with a transport error",
		},
	)
)

const (
	OrderEntry = "entry"
	OrderClose = "close"

	ResultOK    = "ok"
	ResultError = "error"
)

func init() {
	prometheus.MustRegister(
		WebhookRequests,
		Orders,
		SignalRejections,
		OpenPositions,
		StreamSubscriptions,
		StreamErrors,
	)
}
