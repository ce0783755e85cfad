package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for profile resolution.
// All methods are nil-safe so tests can pass a nil *Metrics.
type Metrics struct {
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	DirectoryErrors  prometheus.Counter
	PermissionDenied prometheus.Counter
}

// New creates a Metrics instance with all profile resolver metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certverify_profile_cache_hits_total",
			Help: "Total profile cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certverify_profile_cache_misses_total",
			Help: "Total profile cache misses",
		}),
		DirectoryErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certverify_profile_directory_errors_total",
			Help: "Total transient identity directory failures",
		}),
		PermissionDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certverify_profile_permission_denied_total",
			Help: "Total permission denials from the identity directory",
		}),
	}
}

// IncrementCacheHit records a profile served from cache.
func (m *Metrics) IncrementCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// IncrementCacheMiss records a profile cache miss.
func (m *Metrics) IncrementCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// IncrementDirectoryError records a transient directory failure.
func (m *Metrics) IncrementDirectoryError() {
	if m == nil {
		return
	}
	m.DirectoryErrors.Inc()
}

// IncrementPermissionDenied records a directory permission denial.
func (m *Metrics) IncrementPermissionDenied() {
	if m == nil {
		return
	}
	m.PermissionDenied.Inc()
}
