package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the collectors exposed on /metrics.
type Metrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec

	PostsCreated       prometheus.Counter
	RateLimited        prometheus.Counter
	ValidationRejects  prometheus.Counter
	EnrichmentFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PostsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "posts_created_total",
			Help: "Posts persisted.",
		}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "posts_rate_limited_total",
			Help: "Post creations rejected by the rate limiter.",
		}),
		ValidationRejects: f.NewCounter(prometheus.CounterOpts{
			Name: "posts_validation_rejected_total",
			Help: "Post creations rejected for invalid content.",
		}),
		EnrichmentFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "feed_enrichment_failures_total",
			Help: "Feed requests aborted because an author could not be resolved.",
		}),
	}
}
