// Homeshelf - Home Screen Collection Sections for Jellyfin
// Copyright 2026 Kim V. (kverran)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kverran/homeshelf

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for:
// - HTTP endpoint latency and throughput
// - Section resolution outcomes and result sizes
// - Library cache efficiency
// - Upstream Jellyfin calls and circuit breaker state
// - Home-screen registration attempts

var (
	// HTTP API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeshelf_api_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homeshelf_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homeshelf_api_active_requests",
			Help: "Number of HTTP requests currently in flight",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeshelf_api_rate_limit_hits_total",
			Help: "Total number of rate limited requests",
		},
		[]string{"endpoint"},
	)

	// Section pipeline metrics
	SectionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeshelf_section_requests_total",
			Help: "Total number of section result requests",
		},
		[]string{"kind", "outcome"},
	)

	SectionResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homeshelf_section_resolve_duration_seconds",
			Help:    "Duration of section resolution in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	SectionItemsReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homeshelf_section_items_returned",
			Help:    "Number of items returned per section request",
			Buckets: []float64{0, 1, 5, 10, 20, 32, 50, 100},
		},
		[]string{"kind"},
	)

	WatchStateFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homeshelf_watch_state_failures_total",
			Help: "Per-item watch state lookups that failed open as unplayed",
		},
	)

	// Library cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeshelf_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeshelf_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "homeshelf_cache_size_entries",
			Help: "Current number of cache entries",
		},
		[]string{"cache"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeshelf_cache_evictions_total",
			Help: "Total number of expired cache entries removed",
		},
		[]string{"cache"},
	)

	WarmupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "homeshelf_warmup_duration_seconds",
			Help:    "Duration of the library cache warm-up pass in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	WarmupUsersCached = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homeshelf_warmup_users_cached",
			Help: "Number of users whose libraries were cached on the last warm-up",
		},
	)

	// Upstream Jellyfin metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeshelf_upstream_requests_total",
			Help: "Total number of Jellyfin API requests",
		},
		[]string{"operation", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homeshelf_upstream_request_duration_seconds",
			Help:    "Jellyfin API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "homeshelf_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeshelf_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeshelf_circuit_breaker_requests_total",
			Help: "Total number of requests seen by the circuit breaker",
		},
		[]string{"name", "result"},
	)

	// Registration metrics
	RegistrationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homeshelf_registration_attempts_total",
			Help: "Total number of section registration attempts",
		},
		[]string{"operation", "outcome"},
	)

	RegistrationReadinessProbes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homeshelf_registration_readiness_probes_total",
			Help: "Total number of home-screen readiness probes sent",
		},
	)

	SectionsRegistered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homeshelf_sections_registered",
			Help: "Number of sections currently registered with the home screen",
		},
	)

	// Application metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "homeshelf_app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homeshelf_app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records a completed HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSectionRequest records one section resolution with its outcome
// ("ok", "empty", "invalid_user", "error") and result size.
func RecordSectionRequest(kind, outcome string, duration time.Duration, itemCount int) {
	SectionRequestsTotal.WithLabelValues(kind, outcome).Inc()
	SectionResolveDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if outcome == "ok" || outcome == "empty" {
		SectionItemsReturned.WithLabelValues(kind).Observe(float64(itemCount))
	}
}

// RecordCacheHit records a hit on the named cache.
func RecordCacheHit(cache string) {
	CacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss records a miss on the named cache.
func RecordCacheMiss(cache string) {
	CacheMisses.WithLabelValues(cache).Inc()
}

// RecordUpstreamRequest records a Jellyfin API call.
func RecordUpstreamRequest(operation string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRegistration records one registration call ("register", "update",
// "unregister") and whether it succeeded.
func RecordRegistration(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	RegistrationAttempts.WithLabelValues(operation, outcome).Inc()
}
