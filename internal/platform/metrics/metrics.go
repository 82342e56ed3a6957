// Package metrics collects per-run import metrics and pushes them to a
// Prometheus Pushgateway at the end of a run.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// RunStats is the summary of one run as seen by metrics.
type RunStats struct {
	Imported      int
	Failed        int
	Invalid       int
	TopicsCreated int
	// Batches counts batch files by outcome status.
	Batches  map[string]int
	Duration time.Duration
	Success  bool
}

// Metrics holds the collectors for one run on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	records       *prometheus.GaugeVec
	batches       *prometheus.GaugeVec
	invalid       prometheus.Gauge
	topicsCreated prometheus.Gauge
	duration      prometheus.Gauge
	lastSuccess   prometheus.Gauge
}

// New creates and registers the run collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		records: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "question_import_records",
				Help: "Records attempted in the last run, by outcome",
			},
			[]string{"outcome"},
		),
		batches: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "question_import_batches",
				Help: "Batch files processed in the last run, by status",
			},
			[]string{"status"},
		),
		invalid: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "question_import_invalid_files",
			Help: "Batch files skipped as invalid in the last run",
		}),
		topicsCreated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "question_import_topics_created",
			Help: "Topics created in the last run",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "question_import_duration_seconds",
			Help: "Wall time of the last run",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "question_import_last_success_timestamp_seconds",
			Help: "Unix time of the last run that completed without a fatal error",
		}),
	}

	m.registry.MustRegister(
		m.records,
		m.batches,
		m.invalid,
		m.topicsCreated,
		m.duration,
		m.lastSuccess,
	)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Observe sets every collector from s.
func (m *Metrics) Observe(s RunStats) {
	m.records.WithLabelValues("imported").Set(float64(s.Imported))
	m.records.WithLabelValues("failed").Set(float64(s.Failed))
	for status, n := range s.Batches {
		m.batches.WithLabelValues(status).Set(float64(n))
	}
	m.invalid.Set(float64(s.Invalid))
	m.topicsCreated.Set(float64(s.TopicsCreated))
	m.duration.Set(s.Duration.Seconds())
	if s.Success {
		m.lastSuccess.SetToCurrentTime()
	}
}

// Push replaces the job's metric group on the Pushgateway at url.
func (m *Metrics) Push(ctx context.Context, url, job string) error {
	if url == "" {
		return fmt.Errorf("pushgateway URL is empty")
	}
	if err := push.New(url, job).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}
	return nil
}
