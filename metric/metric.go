// Package metric provides Prometheus instrumentation for the component tree:
// structural mutations, lifecycle transitions and parameter writes. It plugs
// into the tree through the component.Observer interface.
package metric

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/nizvoo/jevois/component"
)

// Metrics contains all framework-level metrics (not component-specific)
type Metrics struct {
	ComponentsLive       prometheus.Gauge
	ComponentsAdded      prometheus.Counter
	ComponentsRemoved    prometheus.Counter
	LifecycleTransitions *prometheus.CounterVec
	ParamSets            *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all framework metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ComponentsLive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "jevois",
				Subsystem: "tree",
				Name:      "components_live",
				Help:      "Number of components currently attached to the tree",
			},
		),

		ComponentsAdded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "jevois",
				Subsystem: "tree",
				Name:      "components_added_total",
				Help:      "Total number of sub-components attached",
			},
		),

		ComponentsRemoved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "jevois",
				Subsystem: "tree",
				Name:      "components_removed_total",
				Help:      "Total number of sub-components detached",
			},
		),

		LifecycleTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jevois",
				Subsystem: "lifecycle",
				Name:      "transitions_total",
				Help:      "Total number of component lifecycle transitions",
			},
			[]string{"to"},
		),

		ParamSets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "jevois",
				Subsystem: "param",
				Name:      "sets_total",
				Help:      "Total number of successful parameter writes",
			},
			[]string{"path"},
		),
	}
}

// Registry manages the registration and lifecycle of framework metrics
type Registry struct {
	prometheusRegistry *prometheus.Registry
	Metrics            *Metrics
}

// NewRegistry creates a new metrics registry with core framework metrics and
// Go runtime collectors registered.
func NewRegistry() *Registry {
	prometheusRegistry := prometheus.NewRegistry()

	registry := &Registry{
		prometheusRegistry: prometheusRegistry,
		Metrics:            NewMetrics(),
	}

	prometheusRegistry.MustRegister(
		registry.Metrics.ComponentsLive,
		registry.Metrics.ComponentsAdded,
		registry.Metrics.ComponentsRemoved,
		registry.Metrics.LifecycleTransitions,
		registry.Metrics.ParamSets,
	)

	prometheusRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return registry
}

// PrometheusRegistry returns the underlying Prometheus registry for exposure
// through whatever scrape surface the embedding application provides.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.prometheusRegistry
}

// Observer returns a component.Observer feeding these metrics
func (r *Registry) Observer() component.Observer {
	return &treeObserver{metrics: r.Metrics}
}

// treeObserver adapts Metrics to the component.Observer interface
type treeObserver struct {
	metrics *Metrics
}

func (o *treeObserver) ComponentAdded(_ string) {
	o.metrics.ComponentsAdded.Inc()
	o.metrics.ComponentsLive.Inc()
}

func (o *treeObserver) ComponentRemoved(_ string) {
	o.metrics.ComponentsRemoved.Inc()
	o.metrics.ComponentsLive.Dec()
}

func (o *treeObserver) LifecycleTransition(_ string, to component.State) {
	o.metrics.LifecycleTransitions.WithLabelValues(to.String()).Inc()
}

func (o *treeObserver) ParamSet(path string) {
	o.metrics.ParamSets.WithLabelValues(path).Inc()
}
