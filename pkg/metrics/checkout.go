package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records order and payment outcomes.
type CheckoutMetrics struct {
	orders    *prometheus.CounterVec
	discounts *prometheus.CounterVec
	savings   prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_total",
		Help: "Orders grouped by payment status transitions.",
	}, []string{"status"})
	discounts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "discounts_applied_total",
		Help: "Quotes that applied a discount rule, grouped by rule kind.",
	}, []string{"kind"})
	savings := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "discount_savings_ksh",
		Help:    "Savings per discounted quote in Kenyan shillings.",
		Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000},
	})
	reg.MustRegister(orders, discounts, savings)
	return &CheckoutMetrics{
		orders:    orders,
		discounts: discounts,
		savings:   savings,
	}
}

// IncOrder increments the order counter for the given payment status.
func (m *CheckoutMetrics) IncOrder(status string) {
	if m == nil || m.orders == nil {
		return
	}
	m.orders.WithLabelValues(normalizeLabel(status)).Inc()
}

// ObserveDiscount records an applied discount rule and its savings.
func (m *CheckoutMetrics) ObserveDiscount(kind string, savings int) {
	if m == nil || m.discounts == nil {
		return
	}
	m.discounts.WithLabelValues(normalizeLabel(kind)).Inc()
	if m.savings != nil {
		m.savings.Observe(float64(savings))
	}
}
