// Package prom exports decomposition metrics to Prometheus.
//
// Collector implements attractor.MetricsCollector. It registers its metrics
// on the given registerer, so several runs can be observed side by side with
// separate registries:
//
//	reg := prometheus.NewRegistry()
//	c := prom.NewCollector(reg)
//	err := attractor.FindComponents(ctx, m, onComponent, attractor.WithMetricsCollector(c))
//	_ = prometheus.WriteToTextfile("attractor.prom", reg)
package prom

import (
	"time"

	"github.com/hupe1980/attractor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "attractor"

// Compile time check to ensure Collector satisfies the MetricsCollector interface.
var _ attractor.MetricsCollector = (*Collector)(nil)

// Collector records run metrics as Prometheus series.
type Collector struct {
	sinkSweepSeconds prometheus.Histogram
	sinks            prometheus.Counter
	reachSeconds     *prometheus.HistogramVec
	reachStates      *prometheus.CounterVec
	universes        prometheus.Counter
	pending          prometheus.Gauge
	components       prometheus.Counter
	componentStates  prometheus.Histogram
}

// NewCollector creates a Collector registered on reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		sinkSweepSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sink_sweep_duration_seconds",
			Help:      "Duration of the sink sweep",
			Buckets:   prometheus.DefBuckets,
		}),
		sinks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sinks_total",
			Help:      "States reported as sinks for some colors",
		}),
		reachSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reach_duration_seconds",
			Help:      "Duration of reachability fixpoints",
			Buckets:   prometheus.DefBuckets,
		}, []string{"direction"}),
		reachStates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reach_states_total",
			Help:      "States in the results of reachability fixpoints",
		}, []string{"direction"}),
		universes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "universes_total",
			Help:      "Worklist items decomposed",
		}),
		pending: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "worklist_pending",
			Help:      "Worklist items waiting behind the current one",
		}),
		components: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "components_total",
			Help:      "Terminal components reported",
		}),
		componentStates: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "component_states",
			Help:      "Number of states per reported component",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}
}

// RecordSinkSweep implements attractor.MetricsCollector.
func (c *Collector) RecordSinkSweep(_, sinks int, duration time.Duration) {
	c.sinkSweepSeconds.Observe(duration.Seconds())
	c.sinks.Add(float64(sinks))
}

// RecordReach implements attractor.MetricsCollector.
func (c *Collector) RecordReach(dir attractor.Direction, _, result int, duration time.Duration) {
	c.reachSeconds.WithLabelValues(dir.String()).Observe(duration.Seconds())
	c.reachStates.WithLabelValues(dir.String()).Add(float64(result))
}

// RecordUniverse implements attractor.MetricsCollector.
func (c *Collector) RecordUniverse(_, pending int) {
	c.universes.Inc()
	c.pending.Set(float64(pending))
}

// RecordComponent implements attractor.MetricsCollector.
func (c *Collector) RecordComponent(states int) {
	c.components.Inc()
	c.componentStates.Observe(float64(states))
}
