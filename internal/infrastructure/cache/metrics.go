package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts cache outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookups     *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
}

// NewMetrics registers the cache counters on reg; a nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "journalfeed",
			Subsystem: "article_cache",
			Name:      "lookups_total",
			Help:      "Article cache lookups by result (hit, miss, shared).",
		}, []string{"result"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "journalfeed",
			Subsystem: "article_cache",
			Name:      "store_errors_total",
			Help:      "Backend failures by operation (get, set).",
		}, []string{"op"}),
	}
	if reg != nil {
		reg.MustRegister(m.lookups, m.storeErrors)
	}
	return m
}

func (m *Metrics) lookup(result string) {
	if m != nil {
		m.lookups.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) storeError(op string) {
	if m != nil {
		m.storeErrors.WithLabelValues(op).Inc()
	}
}
