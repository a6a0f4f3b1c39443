// Package metrics exposes task log statistics as Prometheus metrics.
//
// task is a short-lived command, so metrics are gathered into a private
// registry and written in the text exposition format, suitable for the
// node_exporter textfile collector.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/tasklog/tasklog/pkg/model"
)

// Registry holds task metrics.
type Registry struct {
	reg       *prometheus.Registry
	tasks     *prometheus.GaugeVec
	events    prometheus.Gauge
	malformed prometheus.Gauge
}

// NewRegistry creates a registry with all task metrics registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Registry{
		reg: reg,
		tasks: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tasklog_tasks",
			Help: "Number of tasks by project and current status.",
		}, []string{"project", "status"}),
		events: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tasklog_events_total",
			Help: "Number of events of the reported tasks.",
		}),
		malformed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tasklog_malformed_records",
			Help: "Number of task log lines that could not be decoded, across the whole log.",
		}),
	}
}

// Observe replaces the gauges with counts derived from tasks.
func (r *Registry) Observe(tasks []model.Task, events, malformed int) {
	r.tasks.Reset()
	for _, t := range tasks {
		r.tasks.WithLabelValues(t.Project, string(t.Status)).Inc()
	}
	r.events.Set(float64(events))
	r.malformed.Set(float64(malformed))
}

// WriteText writes all metrics in the Prometheus text format.
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// StatusCounts tallies tasks per status.
func StatusCounts(tasks []model.Task) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[string(t.Status)]++
	}
	return counts
}
