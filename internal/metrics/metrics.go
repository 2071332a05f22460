package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "horrorforge_api_request_duration_seconds",
			Help:    "Remote model request duration in seconds by model",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s to ~100s
		},
		[]string{"model", "status"},
	)

	completionTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "horrorforge_completion_tokens",
			Help:    "Completion token counts reported by the provider",
			Buckets: prometheus.ExponentialBuckets(64, 2, 8), // 64 to 8192
		},
		[]string{"model"},
	)

	// Story metrics
	storiesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "horrorforge_stories_total",
			Help: "Story submissions by outcome",
		},
		[]string{"status"}, // success, validation_error, remote_error
	)

	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "horrorforge_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "horrorforge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Story outcome labels
const (
	StatusSuccess         = "success"
	StatusValidationError = "validation_error"
	StatusRemoteError     = "remote_error"
)

// Collector provides convenience methods for recording metrics
type Collector struct{}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{}
}

// RecordAPIRequest records a remote model request duration
func (c *Collector) RecordAPIRequest(model string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	apiRequestDuration.WithLabelValues(model, status).Observe(duration.Seconds())
}

// RecordCompletionTokens records the completion size of a successful request
func (c *Collector) RecordCompletionTokens(model string, tokens int) {
	if tokens > 0 {
		completionTokens.WithLabelValues(model).Observe(float64(tokens))
	}
}

// IncrementStory counts a story submission outcome
func (c *Collector) IncrementStory(status string) {
	storiesTotal.WithLabelValues(status).Inc()
}

// RecordHTTPRequest records one served HTTP request
func (c *Collector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}
