package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/schedule-bot/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for the ops API.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	updateDuration  *prometheus.HistogramVec
	updateTotal     *prometheus.CounterVec
	remoteDuration  *prometheus.HistogramVec
	remoteTotal     *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheHitRatio   prometheus.Gauge
	requestDuration *prometheus.HistogramVec

	updateCount         uint64
	updateFailures      uint64
	remoteCount         uint64
	remoteFailures      uint64
	remoteDurationTotal uint64
	cacheHitCount       uint64
	cacheMissCount      uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	updateDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bot_update_duration_seconds",
		Help:    "Time spent handling a Telegram update",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	updateTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bot_updates_total",
		Help: "Total number of Telegram updates handled",
	}, []string{"kind", "outcome"})

	remoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_request_duration_seconds",
		Help:    "Duration of schedule catalog API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	remoteTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Total number of schedule catalog API requests",
	}, []string{"method", "route", "status"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Reference cache lookups by cache and result",
	}, []string{"cache", "result"})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ops_http_request_duration_seconds",
		Help:    "Duration of ops HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(updateDuration, updateTotal, remoteDuration, remoteTotal, cacheLookups, cacheHitRatio, requestDuration, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		updateDuration:  updateDuration,
		updateTotal:     updateTotal,
		remoteDuration:  remoteDuration,
		remoteTotal:     remoteTotal,
		cacheLookups:    cacheLookups,
		cacheHitRatio:   cacheHitRatio,
		requestDuration: requestDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveUpdate records the outcome of one Telegram update.
func (m *MetricsService) ObserveUpdate(kind string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
		atomic.AddUint64(&m.updateFailures, 1)
	}
	m.updateDuration.WithLabelValues(kind).Observe(duration.Seconds())
	m.updateTotal.WithLabelValues(kind, outcome).Inc()
	atomic.AddUint64(&m.updateCount, 1)
}

// ObserveRemoteCall records a catalog API request. It satisfies apiclient.Observer.
func (m *MetricsService) ObserveRemoteCall(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.remoteDuration.WithLabelValues(method, route, labelStatus).Observe(duration.Seconds())
	m.remoteTotal.WithLabelValues(method, route, labelStatus).Inc()
	atomic.AddUint64(&m.remoteCount, 1)
	atomic.AddUint64(&m.remoteDurationTotal, uint64(duration.Nanoseconds()))
	if status >= http.StatusInternalServerError {
		atomic.AddUint64(&m.remoteFailures, 1)
	}
}

// RecordCacheLookup records cache hit/miss metrics and updates hit ratio. It satisfies cache.Recorder.
func (m *MetricsService) RecordCacheLookup(cache string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues(cache, "hit").Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheLookups.WithLabelValues(cache, "miss").Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveHTTPRequest records ops server request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, path, fmt.Sprintf("%d", status)).Observe(duration.Seconds())
}

// Snapshot returns aggregated metrics suitable for the stats endpoint.
func (m *MetricsService) Snapshot() models.MetricsSnapshot {
	if m == nil {
		return models.MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	remote := atomic.LoadUint64(&m.remoteCount)
	remoteDuration := atomic.LoadUint64(&m.remoteDurationTotal)

	var ratio float64
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}

	var avgRemoteMs float64
	if remote > 0 {
		avgRemoteMs = float64(remoteDuration) / float64(remote) / float64(time.Millisecond)
	}

	return models.MetricsSnapshot{
		UpdatesHandled:          atomic.LoadUint64(&m.updateCount),
		UpdatesFailed:           atomic.LoadUint64(&m.updateFailures),
		RemoteCalls:             remote,
		RemoteFailures:          atomic.LoadUint64(&m.remoteFailures),
		AverageRemoteDurationMs: avgRemoteMs,
		CacheHits:               hits,
		CacheMisses:             misses,
		CacheHitRatio:           ratio,
		Goroutines:              runtime.NumGoroutine(),
		GeneratedAt:             time.Now().UTC(),
	}
}
