// Package metrics exposes Prometheus collectors for the extractor service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests, labeled by method and code.",
		},
		[]string{"method", "code"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, labeled by method and route.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 30, 60, 120},
		},
		[]string{"method", "route"},
	)

	extractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_extractions_total",
			Help: "Total number of extraction runs, labeled by crawl mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	emailsPerExtraction = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extractor_emails_per_extraction",
			Help:    "Number of unique emails returned per successful extraction.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"mode"},
	)

	upstreamRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "extractor_upstream_request_duration_seconds",
			Help:    "Latency of calls to external APIs, labeled by service, endpoint and outcome.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"service", "endpoint", "outcome"},
	)

	captchaVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_captcha_verifications_total",
			Help: "Captcha verifications, labeled by result.",
		},
		[]string{"result"},
	)

	rateLimitRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "extractor_rate_limit_rejected_total",
			Help: "Requests rejected by the per-client rate limiter.",
		},
	)

	historyWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "extractor_history_writes_total",
			Help: "Extraction history writes, labeled by outcome.",
		},
		[]string{"outcome"},
	)
)

// Handler returns the standard Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest records metrics for an inbound HTTP request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveExtraction records the outcome of one extraction and, on success,
// how many emails it produced.
func ObserveExtraction(mode, outcome string, emails int) {
	extractionsTotal.WithLabelValues(mode, outcome).Inc()
	if outcome == "success" {
		emailsPerExtraction.WithLabelValues(mode).Observe(float64(emails))
	}
}

// ObserveUpstream records the latency of a call to an external API.
func ObserveUpstream(service, endpoint string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	upstreamRequestDurationSeconds.WithLabelValues(service, endpoint, outcome).Observe(duration.Seconds())
}

// ObserveCaptcha counts a captcha verification result.
func ObserveCaptcha(result string) {
	captchaVerificationsTotal.WithLabelValues(result).Inc()
}

// ObserveRateLimitRejected counts a request turned away by the rate limiter.
func ObserveRateLimitRejected() {
	rateLimitRejectedTotal.Inc()
}

// ObserveHistoryWrite counts an extraction history write.
func ObserveHistoryWrite(err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	historyWritesTotal.WithLabelValues(outcome).Inc()
}
