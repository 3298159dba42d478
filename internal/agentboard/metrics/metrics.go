// Package metrics holds the Prometheus instruments for agentboard. All
// recording methods are safe on a nil *Metrics so tests can skip wiring.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "agentboard"

// Rotation outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeRateLimited = "rate_limited"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
)

type Metrics struct {
	rotations           *prometheus.CounterVec
	rotationDuration    prometheus.Histogram
	cursorErrors        *prometheus.CounterVec
	rateLimitRejections *prometheus.CounterVec
	housekeepingDeleted *prometheus.CounterVec
}

// New registers the instruments on reg. Pass prometheus.NewRegistry() in
// tests to keep runs independent.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		rotations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "key_rotations_total",
			Help:      "API key rotation attempts by reason and outcome.",
		}, []string{"reason", "outcome"}),

		rotationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "key_rotation_duration_seconds",
			Help:      "Time spent in the rotation transaction.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		cursorErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pagination_cursor_errors_total",
			Help:      "Rejected pagination cursors by kind.",
		}, []string{"kind"}),

		rateLimitRejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limit_rejections_total",
			Help:      "Requests rejected by the HTTP token-bucket limiter.",
		}, []string{"profile"}),

		housekeepingDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "housekeeping_deleted_total",
			Help:      "Rows removed by housekeeping.",
		}, []string{"table"}),
	}
}

func (m *Metrics) RecordRotation(reason, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.rotations.WithLabelValues(reason, outcome).Inc()
	m.rotationDuration.Observe(took.Seconds())
}

func (m *Metrics) RecordCursorError(kind string) {
	if m == nil {
		return
	}
	m.cursorErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordRateLimitRejection(profile string) {
	if m == nil {
		return
	}
	m.rateLimitRejections.WithLabelValues(profile).Inc()
}

func (m *Metrics) RecordHousekeeping(table string, deleted int) {
	if m == nil || deleted <= 0 {
		return
	}
	m.housekeepingDeleted.WithLabelValues(table).Add(float64(deleted))
}
