package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the mind map collectors.
type Registry struct {
	// Layout
	TicksTotal  prometheus.Counter
	SettleTicks prometheus.Histogram
	Alpha       *prometheus.GaugeVec

	// Graph
	LoadsTotal *prometheus.CounterVec
	Nodes      *prometheus.GaugeVec
	Edges      prometheus.Gauge

	// Interaction
	SelectionsTotal prometheus.Counter
	DragsTotal      prometheus.Counter

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every collector registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	f := promauto.With(r.registry)

	r.TicksTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "synapse_layout_ticks_total",
		Help: "Simulation ticks executed",
	})
	r.SettleTicks = f.NewHistogram(prometheus.HistogramOpts{
		Name:    "synapse_layout_settle_ticks",
		Help:    "Ticks from start until the simulation settled",
		Buckets: []float64{10, 50, 100, 200, 300, 400, 600, 1000},
	})
	r.Alpha = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "synapse_layout_alpha",
		Help: "Current simulation alpha per mind map instance",
	}, []string{"instance"})

	r.LoadsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "synapse_graph_loads_total",
		Help: "Snapshot loads by result",
	}, []string{"result"})
	r.Nodes = f.NewGaugeVec(prometheus.GaugeOpts{
		Name: "synapse_graph_nodes",
		Help: "Nodes in the loaded graph by status",
	}, []string{"status"})
	r.Edges = f.NewGauge(prometheus.GaugeOpts{
		Name: "synapse_graph_edges",
		Help: "Edges in the loaded graph",
	})

	r.SelectionsTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "synapse_node_selections_total",
		Help: "Node clicks reported to the host",
	})
	r.DragsTotal = f.NewCounter(prometheus.CounterOpts{
		Name: "synapse_node_drags_total",
		Help: "Completed node drags",
	})
	return r
}

// Prometheus returns the underlying registry for exposition.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.registry
}

// RecordLoad counts a snapshot load and updates graph gauges on success.
func (r *Registry) RecordLoad(err error, solid, ghost, edges int) {
	if err != nil {
		r.LoadsTotal.WithLabelValues("error").Inc()
		return
	}
	r.LoadsTotal.WithLabelValues("ok").Inc()
	r.Nodes.WithLabelValues("solid").Set(float64(solid))
	r.Nodes.WithLabelValues("ghost").Set(float64(ghost))
	r.Edges.Set(float64(edges))
}

// RecordTick counts one tick and tracks alpha for instance.
func (r *Registry) RecordTick(instance string, alpha float64) {
	r.TicksTotal.Inc()
	r.Alpha.WithLabelValues(instance).Set(alpha)
}

// Forget drops per-instance series.
func (r *Registry) Forget(instance string) {
	r.Alpha.DeleteLabelValues(instance)
}
