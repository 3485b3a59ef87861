package ratelimit

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements the Metrics interface using Prometheus.
//
// All metrics use a caller-supplied registerer so the package never touches
// the global registry; tests register against an isolated one.
type PrometheusMetrics struct {
	// checksTotal counts rate limit checks by action and outcome.
	// Labels:
	//   - action: preset name ("login", "contact", ...)
	//   - status: "allowed" or "denied"
	checksTotal *prometheus.CounterVec

	// activeKeys tracks the current number of live window entries.
	activeKeys prometheus.Gauge

	// sweptTotal counts expired entries removed by periodic sweeps.
	sweptTotal prometheus.Counter
}

// NewPrometheusMetrics creates the rate limit metric set and registers it
// with the given registerer.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	checksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_checks_total",
			Help: "Total rate limit checks by action and outcome",
		},
		[]string{"action", "status"},
	)

	activeKeys := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_rate_limit_active_keys",
			Help: "Current number of live rate limit window entries",
		},
	)

	sweptTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limit_swept_entries_total",
			Help: "Total expired window entries removed by periodic sweeps",
		},
	)

	reg.MustRegister(checksTotal, activeKeys, sweptTotal)

	return &PrometheusMetrics{
		checksTotal: checksTotal,
		activeKeys:  activeKeys,
		sweptTotal:  sweptTotal,
	}
}

// RecordAllowed records a check that permitted the request.
func (m *PrometheusMetrics) RecordAllowed(action string) {
	m.checksTotal.WithLabelValues(action, "allowed").Inc()
}

// RecordDenied records a check that rejected the request.
func (m *PrometheusMetrics) RecordDenied(action string) {
	m.checksTotal.WithLabelValues(action, "denied").Inc()
}

// SetActiveKeys records the current number of live window entries.
func (m *PrometheusMetrics) SetActiveKeys(count int) {
	m.activeKeys.Set(float64(count))
}

// RecordSwept records the number of entries removed by a sweep.
func (m *PrometheusMetrics) RecordSwept(count int) {
	m.sweptTotal.Add(float64(count))
}
