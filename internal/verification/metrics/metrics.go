package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification path.
// All methods are nil-safe so tests can pass a nil *Metrics.
type Metrics struct {
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	StaleShapes     prometheus.Counter
	DegradedProfile prometheus.Counter
	NotFound        prometheus.Counter
	StoreRetries    prometheus.Counter
	VerifyDuration  prometheus.Histogram
}

// New creates a Metrics instance with all verification metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certverify_verification_cache_hits_total",
			Help: "Total verifications served from cache",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certverify_verification_cache_misses_total",
			Help: "Total verification cache misses",
		}),
		StaleShapes: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certverify_verification_stale_shape_total",
			Help: "Total cached payloads discarded by the schema guard",
		}),
		DegradedProfile: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certverify_verification_degraded_profile_total",
			Help: "Total verifications served with placeholder profile data",
		}),
		NotFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certverify_verification_not_found_total",
			Help: "Total verifications for unknown codes",
		}),
		StoreRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "certverify_verification_store_retries_total",
			Help: "Total retried relational store reads",
		}),
		VerifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "certverify_verification_duration_seconds",
			Help:    "Duration of Verify operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementCacheHit records a verification served from cache.
func (m *Metrics) IncrementCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// IncrementCacheMiss records a verification cache miss.
func (m *Metrics) IncrementCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// IncrementStaleShape records a cached payload rejected by the schema guard.
func (m *Metrics) IncrementStaleShape() {
	if m == nil {
		return
	}
	m.StaleShapes.Inc()
}

// IncrementDegradedProfile records a verification that substituted
// placeholder profile data.
func (m *Metrics) IncrementDegradedProfile() {
	if m == nil {
		return
	}
	m.DegradedProfile.Inc()
}

// IncrementNotFound records a verification for an unknown code.
func (m *Metrics) IncrementNotFound() {
	if m == nil {
		return
	}
	m.NotFound.Inc()
}

// IncrementStoreRetry records a retried relational store read.
func (m *Metrics) IncrementStoreRetry() {
	if m == nil {
		return
	}
	m.StoreRetries.Inc()
}

// ObserveVerify records the duration of a Verify operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveVerify(start time.Time) {
	if m == nil {
		return
	}
	m.VerifyDuration.Observe(time.Since(start).Seconds())
}
