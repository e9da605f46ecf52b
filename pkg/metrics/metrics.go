// Package metrics counts parse and export activity for one run and can dump
// it in the Prometheus textfile format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Export outcomes.
const (
	StatusSuccess        = "success"
	StatusError          = "error"
	StatusNotImplemented = "not_implemented"
)

// Recorder owns a private registry so runs never share counters.
type Recorder struct {
	registry *prometheus.Registry

	tasksParsed  *prometheus.CounterVec
	datesDropped prometheus.Counter
	exports      *prometheus.CounterVec
	exportBytes  *prometheus.GaugeVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		tasksParsed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mdtasks_tasks_parsed_total",
				Help: "Tasks extracted from source documents",
			},
			[]string{"source"},
		),
		datesDropped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mdtasks_due_dates_dropped_total",
				Help: "Due date tokens dropped because they named no valid calendar hour",
			},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mdtasks_exports_total",
				Help: "Export attempts by format and outcome",
			},
			[]string{"format", "status"},
		),
		exportBytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mdtasks_export_bytes",
				Help: "Size of the last export artifact",
			},
			[]string{"format"},
		),
	}
	r.registry.MustRegister(r.tasksParsed, r.datesDropped, r.exports, r.exportBytes)
	return r
}

func (r *Recorder) TasksParsed(source string, n int) {
	r.tasksParsed.WithLabelValues(source).Add(float64(n))
}

func (r *Recorder) DateDropped(string) {
	r.datesDropped.Inc()
}

// Export records one export attempt and, on success, the artifact size.
func (r *Recorder) Export(format, status string, bytes int) {
	r.exports.WithLabelValues(format, status).Inc()
	if status == StatusSuccess {
		r.exportBytes.WithLabelValues(format).Set(float64(bytes))
	}
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes all metrics to path for a node_exporter textfile
// collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
