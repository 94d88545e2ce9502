package cache

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the extraction cache.
type Metrics struct {
	HitsTotal   prometheus.Counter
	MissesTotal prometheus.Counter
	Size        prometheus.Gauge
}

// NewMetrics registers the cache metrics once per process.
//
// Metrics:
//   - payplan_cache_hits_total
//   - payplan_cache_misses_total
//   - payplan_cache_size
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			HitsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "payplan_cache_hits_total",
				Help: "Total number of extraction cache hits",
			}),
			MissesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "payplan_cache_misses_total",
				Help: "Total number of extraction cache misses, including expired entries",
			}),
			Size: promauto.NewGauge(prometheus.GaugeOpts{
				Name: "payplan_cache_size",
				Help: "Current number of entries in the extraction cache",
			}),
		}
	})
	return globalMetrics
}

// RecordHit increments the hit counter.
func (m *Metrics) RecordHit() {
	m.HitsTotal.Inc()
}

// RecordMiss increments the miss counter.
func (m *Metrics) RecordMiss() {
	m.MissesTotal.Inc()
}

// SetSize sets the size gauge.
func (m *Metrics) SetSize(n int) {
	m.Size.Set(float64(n))
}
