package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics records cart mutation outcomes and pricing behavior.
type CartMetrics struct {
	operations   *prometheus.CounterVec
	failures     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	tierFallback prometheus.Counter
}

// NewCartMetrics registers the cart metrics on the provided registerer.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart mutations applied, by operation.",
	}, []string{"op"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operation_failures_total",
		Help: "Cart mutations rejected, by operation.",
	}, []string{"op"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of cart mutations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	tierFallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_tier_fallback_total",
		Help: "Times tier resolution fell back to the first tier because no range matched.",
	})
	reg.MustRegister(operations, failures, duration, tierFallback)
	return &CartMetrics{
		operations:   operations,
		failures:     failures,
		duration:     duration,
		tierFallback: tierFallback,
	}
}

// IncOperation counts a successfully applied mutation.
func (c *CartMetrics) IncOperation(op string) {
	if c == nil || c.operations == nil {
		return
	}
	c.operations.WithLabelValues(normalizeLabel(op)).Inc()
}

// IncFailure counts a rejected mutation.
func (c *CartMetrics) IncFailure(op string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(op)).Inc()
}

// ObserveDuration records how long a mutation took.
func (c *CartMetrics) ObserveDuration(op string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(op)).Observe(duration.Seconds())
}

// IncTierFallback counts a first-tier fallback hit. The fallback masks
// callers pricing below the lowest tier minimum, so it is worth watching.
func (c *CartMetrics) IncTierFallback() {
	if c == nil || c.tierFallback == nil {
		return
	}
	c.tierFallback.Inc()
}

func normalizeLabel(op string) string {
	if op == "" {
		return "unknown"
	}
	return op
}
