// Package metrics exposes world signals as Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collectors implements world.Observer. A nil *Collectors is a no-op.
type Collectors struct {
	reg *prometheus.Registry

	inserts      *prometheus.CounterVec
	refreshes    prometheus.Counter
	interactions *prometheus.GaugeVec
	step         prometheus.Histogram
}

func New() *Collectors {
	c := &Collectors{
		reg: prometheus.NewRegistry(),
		inserts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "voxelhouse_design_insert_total",
			Help: "Design insert attempts by result.",
		}, []string{"result"}),
		refreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "voxelhouse_design_refresh_total",
			Help: "House refresh signals issued by committed interactions.",
		}),
		interactions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "voxelhouse_sessions_active",
			Help: "Open operator interactions by kind.",
		}, []string{"kind"}),
		step: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxelhouse_tick_duration_seconds",
			Help:    "Wall time spent in one world step.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
	}
	c.reg.MustRegister(
		c.inserts,
		c.refreshes,
		c.interactions,
		c.step,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collectors) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.reg
}

func (c *Collectors) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

func (c *Collectors) ObserveInsert(result string) {
	if c == nil {
		return
	}
	c.inserts.WithLabelValues(result).Inc()
}

func (c *Collectors) ObserveRefresh() {
	if c == nil {
		return
	}
	c.refreshes.Inc()
}

func (c *Collectors) SetActiveInteractions(kind string, n int) {
	if c == nil {
		return
	}
	c.interactions.WithLabelValues(kind).Set(float64(n))
}

func (c *Collectors) ObserveStep(d time.Duration) {
	if c == nil {
		return
	}
	c.step.Observe(d.Seconds())
}
