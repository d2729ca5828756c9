package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the STT bridge service
type Metrics struct {
	// Transcription metrics
	TranscribeRequests  prometheus.Counter
	TranscribeSuccesses prometheus.Counter
	TranscribeFailures  *prometheus.CounterVec
	TranscribeDuration  prometheus.Histogram
	AudioBytes          prometheus.Histogram

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics on the given
// registerer. Pass prometheus.DefaultRegisterer for the process-wide
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TranscribeRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "stt_transcribe_requests_total",
			Help: "Total number of transcription requests received",
		}),
		TranscribeSuccesses: factory.NewCounter(prometheus.CounterOpts{
			Name: "stt_transcribe_successes_total",
			Help: "Total number of successful transcriptions",
		}),
		TranscribeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stt_transcribe_failures_total",
			Help: "Total number of failed transcriptions by reason",
		}, []string{"reason"}),
		TranscribeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stt_transcribe_duration_seconds",
			Help:    "End-to-end transcription duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		AudioBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stt_audio_payload_bytes",
			Help:    "Size of buffered audio payloads in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stt_http_requests_total",
			Help: "Total number of HTTP API requests",
		}, []string{"method", "endpoint", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stt_http_request_duration_seconds",
			Help:    "HTTP API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
		HTTPErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stt_http_errors_total",
			Help: "Total number of HTTP API errors",
		}, []string{"method", "endpoint", "type"}),
	}
}

// RecordHTTPRequest records a completed HTTP API request
func (m *Metrics) RecordHTTPRequest(method, endpoint, status string, duration float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordHTTPError records an HTTP API error
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}

// RecordTranscribeFailure records a failed transcription with its reason
func (m *Metrics) RecordTranscribeFailure(reason string) {
	m.TranscribeFailures.WithLabelValues(reason).Inc()
}
