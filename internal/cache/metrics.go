package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	hits            *prometheus.CounterVec
	misses          *prometheus.CounterVec
	invalidations   *prometheus.CounterVec
	broadcastErrors *prometheus.CounterVec
}

var (
	metricsInstance *metrics
	metricsOnce     sync.Once
	defaultRegistry = prometheus.DefaultRegisterer
)

// newMetrics registers the cache collectors once per process.
func newMetrics() *metrics {
	metricsOnce.Do(func() {
		metricsInstance = &metrics{
			hits: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "board_cache_hits_total",
				Help: "Reads served from a fresh cache entry",
			}, []string{"tag"}),
			misses: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "board_cache_misses_total",
				Help: "Reads that had to call the fetcher",
			}, []string{"tag"}),
			invalidations: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "board_cache_invalidations_total",
				Help: "Tags marked stale, by origin of the signal",
			}, []string{"tag", "source"}),
			broadcastErrors: promauto.With(defaultRegistry).NewCounterVec(prometheus.CounterOpts{
				Name: "board_cache_broadcast_errors_total",
				Help: "Failures publishing or decoding invalidation signals",
			}, []string{"operation"}),
		}
	})
	return metricsInstance
}
