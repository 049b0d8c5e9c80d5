package metrics

import (
	"time"

	"github.com/andreyxaxa/Photo-Pipeline/internal/entity"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	events          *prometheus.CounterVec
	eventDuration   prometheus.Histogram
	fallbacks       *prometheus.CounterVec
	derivativeBytes *prometheus.HistogramVec
}

// New registers the pipeline collectors on reg. Pass prometheus.NewRegistry()
// in tests so collectors do not collide on the default registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		events: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photo_pipeline_events_total",
				Help: "Upload events handled by the pipeline",
			},
			[]string{"status"}, // processed/failed/skipped
		),
		eventDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "photo_pipeline_event_duration_seconds",
				Help:    "Time spent processing one upload event",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		fallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "photo_pipeline_metadata_fallback_total",
				Help: "Events whose key timestamp fell back to processing time",
			},
			[]string{"reason"},
		),
		derivativeBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "photo_pipeline_derivative_bytes",
				Help:    "Encoded size of written derivatives",
				Buckets: prometheus.ExponentialBuckets(4<<10, 4, 7),
			},
			[]string{"variant"},
		),
	}
}

func (m *Metrics) ObserveEvent(status entity.Status, d time.Duration) {
	m.events.WithLabelValues(string(status)).Inc()
	switch status {
	case entity.Skipped, entity.Rejected:
	default:
		m.eventDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) MetadataFallback(reason entity.FallbackReason) {
	m.fallbacks.WithLabelValues(string(reason)).Inc()
}

func (m *Metrics) ObserveDerivative(variant string, size int64) {
	m.derivativeBytes.WithLabelValues(variant).Observe(float64(size))
}
