// Package metrics exposes Prometheus instrumentation for the weather
// cache and the notification dispatcher.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type collector struct {
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	notifierRuns *prometheus.CounterVec
	emailsSent   *prometheus.CounterVec
	emailsFailed *prometheus.CounterVec
}

var (
	globalCollector *collector
	collectorOnce   sync.Once
)

func getCollector() *collector {
	collectorOnce.Do(func() {
		globalCollector = &collector{
			cacheHits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "weather_cache_hits_total",
					Help: "The total number of weather cache hits",
				},
				[]string{"cache_type"},
			),
			cacheMisses: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "weather_cache_misses_total",
					Help: "The total number of weather cache misses",
				},
				[]string{"cache_type"},
			),
			notifierRuns: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notifier_runs_total",
					Help: "The total number of dispatch runs",
				},
				[]string{"frequency"},
			),
			emailsSent: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notifier_emails_sent_total",
					Help: "The total number of weather update emails sent",
				},
				[]string{"frequency"},
			),
			emailsFailed: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "notifier_emails_failed_total",
					Help: "The total number of weather update emails that failed",
				},
				[]string{"frequency"},
			),
		}
	})
	return globalCollector
}

// CacheMetrics tracks hit/miss counts for one cache backend
type CacheMetrics struct {
	cacheType string
	mu        sync.RWMutex
	hits      int64
	misses    int64
}

// NewCacheMetrics creates metrics labeled with the cache backend type
func NewCacheMetrics(cacheType string) *CacheMetrics {
	return &CacheMetrics{cacheType: cacheType}
}

func (m *CacheMetrics) RecordHit() {
	m.mu.Lock()
	m.hits++
	m.mu.Unlock()
	getCollector().cacheHits.WithLabelValues(m.cacheType).Inc()
}

func (m *CacheMetrics) RecordMiss() {
	m.mu.Lock()
	m.misses++
	m.mu.Unlock()
	getCollector().cacheMisses.WithLabelValues(m.cacheType).Inc()
}

// Stats returns the in-process hit/miss counters
func (m *CacheMetrics) Stats() (hits, misses int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hits, m.misses
}

// NotifierMetrics tracks dispatch run outcomes per cadence
type NotifierMetrics struct{}

// NewNotifierMetrics creates dispatcher metrics
func NewNotifierMetrics() *NotifierMetrics {
	return &NotifierMetrics{}
}

func (m *NotifierMetrics) RecordRun(frequency string) {
	getCollector().notifierRuns.WithLabelValues(frequency).Inc()
}

func (m *NotifierMetrics) RecordSent(frequency string, count int) {
	getCollector().emailsSent.WithLabelValues(frequency).Add(float64(count))
}

func (m *NotifierMetrics) RecordFailed(frequency string, count int) {
	getCollector().emailsFailed.WithLabelValues(frequency).Add(float64(count))
}
