package measure

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const stageLabel = "stage"

// PrometheusMeasure keeps the in-memory metrics of DefaultMeasure and also observes every
// duration in the procgraph_stage_duration_seconds histogram.
type PrometheusMeasure struct {
	*DefaultMeasure
	durations *prometheus.HistogramVec
}

// NewPrometheusMeasure registers the stage duration histogram on reg.
func NewPrometheusMeasure(reg prometheus.Registerer) *PrometheusMeasure {
	return &PrometheusMeasure{
		DefaultMeasure: NewDefaultMeasure(),
		durations: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "procgraph",
			Name:      "stage_duration_seconds",
			Help:      "Time spent computing the output of a stage of a processor graph.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{stageLabel}),
	}
}

func (m *PrometheusMeasure) AddMetric(name string) Metric {
	return &prometheusMetric{
		Metric:   m.DefaultMeasure.AddMetric(name),
		observer: m.durations.WithLabelValues(name),
	}
}

func (m *PrometheusMeasure) GetMetric(name string) Metric {
	mt := m.DefaultMeasure.GetMetric(name)
	if mt == nil {
		return nil
	}

	return &prometheusMetric{
		Metric:   mt,
		observer: m.durations.WithLabelValues(name),
	}
}

type prometheusMetric struct {
	Metric
	observer prometheus.Observer
}

func (mt *prometheusMetric) AddDuration(elapsed time.Duration) {
	mt.Metric.AddDuration(elapsed)
	mt.observer.Observe(elapsed.Seconds())
}

var _ Measure = (*PrometheusMeasure)(nil)
