package tasktree

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exports run counters. A nil *Metrics records nothing.
type Metrics struct {
	admitted   prometheus.Counter
	rejected   prometheus.Counter
	failed     prometheus.Counter
	spawns     prometheus.Counter
	suppressed prometheus.Counter
	precision  prometheus.Histogram
}

// NewMetrics creates the run collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		admitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pitasks",
			Name:      "tasks_admitted_total",
			Help:      "Admitted tasks whose estimate was folded into a worker slot.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pitasks",
			Name:      "tasks_rejected_total",
			Help:      "Tasks rejected by the admission check.",
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pitasks",
			Name:      "tasks_failed_total",
			Help:      "Admitted tasks whose estimate could not be computed.",
		}),
		spawns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pitasks",
			Name:      "spawns_total",
			Help:      "Child tasks spawned.",
		}),
		suppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pitasks",
			Name:      "spawns_suppressed_total",
			Help:      "Candidate children not spawned because the budget looked exhausted.",
		}),
		precision: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pitasks",
			Name:      "task_precision",
			Help:      "Subinterval count drawn by admitted tasks.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 10),
		}),
	}
	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.admitted, m.rejected, m.failed, m.spawns, m.suppressed, m.precision} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *Metrics) taskAdmitted(precision uint64) {
	if m == nil {
		return
	}
	m.admitted.Inc()
	m.precision.Observe(float64(precision))
}

func (m *Metrics) taskRejected() {
	if m == nil {
		return
	}
	m.rejected.Inc()
}

func (m *Metrics) taskFailed() {
	if m == nil {
		return
	}
	m.failed.Inc()
}

func (m *Metrics) spawned() {
	if m == nil {
		return
	}
	m.spawns.Inc()
}

func (m *Metrics) spawnSuppressed() {
	if m == nil {
		return
	}
	m.suppressed.Inc()
}
