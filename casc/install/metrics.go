package install

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus counters/gauges exposed for a single Installation.
type Metrics struct {
	Opens   prometheus.Counter
	Closes  prometheus.Counter
	Repairs prometheus.Counter
	Reads   prometheus.Counter
	Writes  prometheus.Counter
}

// NewMetrics constructs a fresh, unregistered set of Installation metrics. Callers that want these exposed via an
// HTTP /metrics endpoint register them against their own prometheus.Registry.
func NewMetrics() *Metrics {
	return &Metrics{
		Opens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casc",
			Subsystem: "install",
			Name:      "opens_total",
			Help:      "Number of times this installation has been opened.",
		}),
		Closes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casc",
			Subsystem: "install",
			Name:      "closes_total",
			Help:      "Number of times this installation has been closed.",
		}),
		Repairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casc",
			Subsystem: "install",
			Name:      "needs_repair_total",
			Help:      "Number of times this installation has been marked needing repair.",
		}),
		Reads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casc",
			Subsystem: "install",
			Name:      "reads_total",
			Help:      "Number of keys read through this installation's dynamic container.",
		}),
		Writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "casc",
			Subsystem: "install",
			Name:      "writes_total",
			Help:      "Number of keys written through this installation's dynamic container.",
		}),
	}
}

// Collectors returns every metric in m, for bulk registration against a prometheus.Registerer.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.Opens, m.Closes, m.Repairs, m.Reads, m.Writes}
}
