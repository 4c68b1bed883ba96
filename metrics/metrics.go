// Package metrics provides Prometheus metrics for the shelfserve server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfserve_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	cacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfserve_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	archiveOpensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfserve_archive_opens_total",
			Help: "Total number of EPUB archive open attempts",
		},
		[]string{"status"},
	)

	authVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shelfserve_auth_verifications_total",
			Help: "Total number of credential verifications",
		},
		[]string{"method", "result"},
	)
)

// RecordCacheHit increments the hit counter for the named cache.
func RecordCacheHit(cache string) {
	cacheHitsTotal.WithLabelValues(cache).Inc()
}

// RecordCacheMiss increments the miss counter for the named cache.
func RecordCacheMiss(cache string) {
	cacheMissesTotal.WithLabelValues(cache).Inc()
}

// RecordArchiveOpen records an archive open attempt.
func RecordArchiveOpen(success bool) {
	status := "error"
	if success {
		status = "ok"
	}
	archiveOpensTotal.WithLabelValues(status).Inc()
}

// RecordAuthVerification records a credential check. method is "cached" when
// the verification was answered from the plaintext slot, "bcrypt" otherwise.
func RecordAuthVerification(method string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	authVerificationsTotal.WithLabelValues(method, result).Inc()
}

// Handler returns the HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
