package adapter

import (
	"fmt"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	m "faultline.dev/pkg/faultline/internal/model"
)

// trialMetrics is a per-run registry; runs never share collectors.
type trialMetrics struct {
	registry *prometheus.Registry
	trials   *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newTrialMetrics() *trialMetrics {
	metrics := &trialMetrics{
		registry: prometheus.NewRegistry(),
		trials: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "faultline",
				Name:      "trials_total",
				Help:      "Trials executed, by spec, fault kind and outcome.",
			},
			[]string{"spec", "kind", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "faultline",
				Name:      "trial_duration_seconds",
				Help:      "Wall time of a trial including injected delays.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"spec"},
		),
	}

	metrics.registry.MustRegister(metrics.trials, metrics.duration)

	return metrics
}

func (t *trialMetrics) observe(record m.TrialRecord) {
	t.trials.WithLabelValues(record.Spec, record.Kind, record.Outcome).Inc()
	t.duration.WithLabelValues(record.Spec).Observe(record.Duration.Seconds())
}

// SaveMetrics writes metrics.prom in the Prometheus text format.
func (s *reportStore) SaveMetrics(dir m.Path, records []m.TrialRecord) error {
	metrics := newTrialMetrics()
	for _, record := range records {
		metrics.observe(record)
	}

	path := filepath.Join(string(dir), MetricsFile)
	if err := prometheus.WriteToTextfile(path, metrics.registry); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}
