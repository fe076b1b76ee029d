package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	FilterRequests prometheus.Counter
	Exports        prometheus.Counter
	ExportedRows   prometheus.Counter
	DateChecks     *prometheus.CounterVec
	TaskChanges    *prometheus.CounterVec
	EditMode       prometheus.Gauge
}

// New registers all collectors under namespace.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		FilterRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_requests_total",
			Help:      "Task list requests with at least one active filter.",
		}),
		Exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_exports_total",
			Help:      "CSV exports served.",
		}),
		ExportedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "csv_exported_rows_total",
			Help:      "Task rows written to CSV exports.",
		}),
		DateChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "date_checks_total",
			Help:      "Date mask checks by outcome.",
		}, []string{"validity"}),
		TaskChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_changes_total",
			Help:      "Task mutations by operation.",
		}, []string{"op"}),
		EditMode: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "edit_mode",
			Help:      "1 while the grid is in edit mode.",
		}),
	}

	reg.MustRegister(m.FilterRequests, m.Exports, m.ExportedRows, m.DateChecks, m.TaskChanges, m.EditMode)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
