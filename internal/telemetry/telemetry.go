// Package telemetry exports session ticks as Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"cyclario/internal/sims/cyclario"
)

// Collector observes session ticks and updates its metrics. It is safe to share
// between sessions registered against the same registry.
type Collector struct {
	ticks   prometheus.Counter
	latency prometheus.Histogram
	metric  *prometheus.GaugeVec
	active  prometheus.Gauge
}

// NewCollector registers the cyclario metrics with reg. A nil reg uses the
// default registerer.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Collector{
		ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "cyclario_ticks_total",
			Help: "Total number of committed lattice ticks",
		}),
		latency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "cyclario_tick_latency_seconds",
			Help:    "Wall time spent evolving and analysing one tick",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		metric: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "cyclario_metric",
			Help: "Latest value of each tick metric",
		}, []string{"name"}),
		active: f.NewGauge(prometheus.GaugeOpts{
			Name: "cyclario_active_cells",
			Help: "Active cells on the current layer",
		}),
	}
}

// ObserveTick implements cyclario.TickObserver.
func (c *Collector) ObserveTick(_ uint64, m cyclario.Metrics) {
	c.ticks.Inc()
	c.latency.Observe(m.Latency.Seconds())
	c.active.Set(float64(m.ActiveCells))
	for _, key := range cyclario.MetricKeys {
		if key == cyclario.MetricLatency {
			continue
		}
		v, _ := m.Value(key)
		c.metric.WithLabelValues(string(key)).Set(v)
	}
}
