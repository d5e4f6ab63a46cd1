package observability

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skosovsky/recipebook"
)

const namespace = "recipebook"

var _ recipebook.Recorder = (*Metrics)(nil)

// Metrics records registry and scorer operations in Prometheus.
//
//	recipebook_operations_total{op, status}   status: success|not_found|error
//	recipebook_operation_duration_seconds{op}
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Recipe and scoring operations by outcome.",
		}, []string{"op", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Latency of recipe and scoring operations.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"op"}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Operations, m.Duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// ObserveOperation implements recipebook.Recorder.
func (m *Metrics) ObserveOperation(op string, d time.Duration, err error) {
	m.Operations.WithLabelValues(op, status(err)).Inc()
	m.Duration.WithLabelValues(op).Observe(d.Seconds())
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, recipebook.ErrNotFound), errors.Is(err, recipebook.ErrObjectNotFound):
		return "not_found"
	default:
		return "error"
	}
}
