package observability

import (
	"context"
	"errors"

	"github.com/aretw0/sprig/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine lifecycle events.
type Metrics struct {
	answers    *prometheus.CounterVec
	rejections *prometheus.CounterVec
	cleared    prometheus.Histogram
	dropped    prometheus.Counter
}

// NewMetrics creates the collectors. Call Register to expose them.
func NewMetrics() *Metrics {
	return &Metrics{
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sprig_answers_total",
				Help: "Total number of accepted answers",
			},
			[]string{"node_id"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sprig_rejected_answers_total",
				Help: "Total number of rejected answers by reason",
			},
			[]string{"reason"},
		),
		cleared: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sprig_cascade_cleared_answers",
				Help:    "Number of descendant answers cleared per accepted answer",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
			},
		),
		dropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sprig_seed_dropped_answers_total",
				Help: "Total number of stale answers dropped while restoring sessions",
			},
		),
	}
}

// Register adds the collectors to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.answers, m.rejections, m.cleared, m.dropped} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnAnswer: func(_ context.Context, e *domain.AnswerEvent) {
			m.answers.WithLabelValues(e.NodeID).Inc()
			m.cleared.Observe(float64(len(e.Cleared)))
		},
		OnReject: func(_ context.Context, e *domain.RejectEvent) {
			m.rejections.WithLabelValues(RejectReason(e.Err)).Inc()
		},
		OnSeed: func(_ context.Context, e *domain.SeedEvent) {
			m.dropped.Add(float64(len(e.Dropped)))
		},
	}
}

// RejectReason maps an engine error to a low-cardinality label.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownNode):
		return "unknown_node"
	case errors.Is(err, domain.ErrInvalidOption):
		return "invalid_option"
	case errors.Is(err, domain.ErrHiddenNode):
		return "hidden_node"
	default:
		return "other"
	}
}
