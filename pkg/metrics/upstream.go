package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// UpstreamMetrics records the portal's traffic against the supply platform.
type UpstreamMetrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	refreshes *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream call metrics on the provided registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		return &UpstreamMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Requests issued to the supply platform by endpoint and status.",
	}, []string{"endpoint", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of supply platform requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})
	refreshes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_token_refreshes_total",
		Help: "Access token refresh attempts by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(requests, duration, refreshes)
	return &UpstreamMetrics{
		requests:  requests,
		duration:  duration,
		refreshes: refreshes,
	}
}

// ObserveRequest records one settled upstream call.
func (u *UpstreamMetrics) ObserveRequest(endpoint string, status int, elapsed time.Duration) {
	if u == nil || u.requests == nil {
		return
	}
	u.requests.WithLabelValues(normalizeLabel(endpoint), strconv.Itoa(status)).Inc()
	u.duration.WithLabelValues(normalizeLabel(endpoint)).Observe(elapsed.Seconds())
}

// ObserveRequestError records a call that failed before producing a status code.
func (u *UpstreamMetrics) ObserveRequestError(endpoint string, elapsed time.Duration) {
	u.ObserveRequest(endpoint, 0, elapsed)
}

// IncRefresh counts a token refresh attempt with the given outcome.
func (u *UpstreamMetrics) IncRefresh(outcome string) {
	if u == nil || u.refreshes == nil {
		return
	}
	u.refreshes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
