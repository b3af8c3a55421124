package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PublisherMetrics records outcomes of the outbox publish loop.
type PublisherMetrics struct {
	duration  *prometheus.HistogramVec
	published *prometheus.CounterVec
	failed    *prometheus.CounterVec
}

// NewPublisherMetrics registers the publisher metrics on the provided registerer.
func NewPublisherMetrics(reg prometheus.Registerer) *PublisherMetrics {
	if reg == nil {
		return &PublisherMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_publish_duration_seconds",
		Help:    "Duration of individual outbox event publishes in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	published := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_published",
		Help: "Outbox events successfully handed to Pub/Sub.",
	}, []string{"event_type"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "outbox_events_failed",
		Help: "Outbox publish attempts that errored.",
	}, []string{"event_type"})
	reg.MustRegister(duration, published, failed)
	return &PublisherMetrics{
		duration:  duration,
		published: published,
		failed:    failed,
	}
}

// ObserveDuration records how long one publish took.
func (p *PublisherMetrics) ObserveDuration(eventType string, elapsed time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(eventType)).Observe(elapsed.Seconds())
}

// IncPublished increments the published counter for the event type.
func (p *PublisherMetrics) IncPublished(eventType string) {
	if p == nil || p.published == nil {
		return
	}
	p.published.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncFailed increments the failure counter for the event type.
func (p *PublisherMetrics) IncFailed(eventType string) {
	if p == nil || p.failed == nil {
		return
	}
	p.failed.WithLabelValues(normalizeLabel(eventType)).Inc()
}
