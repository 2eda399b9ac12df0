package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/olusolaa/stack-drift-notifier/internal/core/domain"
	"github.com/olusolaa/stack-drift-notifier/internal/errors"
)

const namespace = "stack_drift"

// Metrics records pipeline counters on a private registry. It implements
// ports.MetricsRecorder.
type Metrics struct {
	registry *prometheus.Registry

	stacksEvaluated     *prometheus.CounterVec
	detectionsInitiated *prometheus.CounterVec
	detectionConflicts  *prometheus.CounterVec
	detectionOutcomes   *prometheus.CounterVec
	stacksDrifted       *prometheus.GaugeVec
	regionRuns          *prometheus.CounterVec
	lastRunTimestamp    prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stacksEvaluated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stacks_evaluated_total",
				Help:      "Active stacks evaluated for drift detection",
			},
			[]string{"region"},
		),
		detectionsInitiated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detections_initiated_total",
				Help:      "Drift detections started",
			},
			[]string{"region"},
		),
		detectionConflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detection_conflicts_total",
				Help:      "Detections skipped because one was already in progress",
			},
			[]string{"region"},
		),
		detectionOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "detection_outcomes_total",
				Help:      "Polled detections by outcome",
			},
			[]string{"region", "outcome"},
		),
		stacksDrifted: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stacks_drifted",
				Help:      "Stacks reported as DRIFTED in the last run",
			},
			[]string{"region"},
		),
		regionRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "region_runs_total",
				Help:      "Region pipeline runs by result",
			},
			[]string{"region", "result"},
		),
		lastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last region pipeline finished",
			},
		),
	}

	m.registry.MustRegister(
		m.stacksEvaluated,
		m.detectionsInitiated,
		m.detectionConflicts,
		m.detectionOutcomes,
		m.stacksDrifted,
		m.regionRuns,
		m.lastRunTimestamp,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) StacksEvaluated(region string, n int) {
	m.stacksEvaluated.WithLabelValues(region).Add(float64(n))
}

func (m *Metrics) DetectionInitiated(region string) {
	m.detectionsInitiated.WithLabelValues(region).Inc()
}

func (m *Metrics) DetectionConflict(region string) {
	m.detectionConflicts.WithLabelValues(region).Inc()
}

func (m *Metrics) DetectionOutcome(region string, outcome domain.PollOutcome) {
	m.detectionOutcomes.WithLabelValues(region, string(outcome)).Inc()
}

func (m *Metrics) StacksDrifted(region string, n int) {
	m.stacksDrifted.WithLabelValues(region).Set(float64(n))
}

func (m *Metrics) RegionCompleted(region string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	m.regionRuns.WithLabelValues(region, result).Inc()
	m.lastRunTimestamp.SetToCurrentTime()
}

// WriteTextfile writes the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrap(err, errors.CodeReportError, "failed to write metrics textfile "+path)
	}
	return nil
}
