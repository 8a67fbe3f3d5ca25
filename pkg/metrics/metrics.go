package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records simulated payment and order activity.
type PaymentMetrics struct {
	settleDuration *prometheus.HistogramVec
	payments       *prometheus.CounterVec
	orders         *prometheus.CounterVec
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	settleDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "payment_settle_duration_seconds",
		Help:    "Time from payment start to settlement.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_settled_total",
		Help: "Settled simulated payments.",
	}, []string{"method"})
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders appended to checkout pages.",
	}, []string{"method"})
	reg.MustRegister(settleDuration, payments, orders)
	return &PaymentMetrics{
		settleDuration: settleDuration,
		payments:       payments,
		orders:         orders,
	}
}

// ObserveSettle records the settle duration for a payment method.
func (m *PaymentMetrics) ObserveSettle(method string, duration time.Duration) {
	if m == nil || m.settleDuration == nil {
		return
	}
	m.settleDuration.WithLabelValues(normalizeLabel(method)).Observe(duration.Seconds())
}

// IncPayment increments the settled payment counter for a method.
func (m *PaymentMetrics) IncPayment(method string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncOrder increments the created order counter for a method.
func (m *PaymentMetrics) IncOrder(method string) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(method)).Inc()
}

func normalizeLabel(method string) string {
	if method == "" {
		return "unknown"
	}
	return method
}
