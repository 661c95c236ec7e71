package service

import (
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/timetable-planner/internal/models"
)

// MetricsSnapshot is a point-in-time summary of planner activity.
type MetricsSnapshot struct {
	Runs          uint64    `json:"runs"`
	CacheHits     uint64    `json:"cacheHits"`
	CacheMisses   uint64    `json:"cacheMisses"`
	CacheHitRatio float64   `json:"cacheHitRatio"`
	AverageRunMs  float64   `json:"averageRunMs"`
	Goroutines    int       `json:"goroutines"`
	GeneratedAt   time.Time `json:"generatedAt"`
}

// MetricsService encapsulates Prometheus instrumentation for planner runs and catalog caching.
type MetricsService struct {
	registry        *prometheus.Registry
	runsTotal       *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	searchNodes     prometheus.Histogram
	schedulesFound  prometheus.Histogram
	skippedSubjects prometheus.Counter
	hardConflicts   prometheus.Counter
	truncatedRuns   prometheus.Counter
	catalogSlots    prometheus.Gauge
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	runCount         uint64
	runDurationTotal uint64
	cacheHitCount    uint64
	cacheMissCount   uint64
}

// NewMetricsService registers the planner collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	runsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "planner_runs_total",
		Help: "Planner runs by operation and outcome",
	}, []string{"operation", "outcome"})

	runDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "planner_run_duration_seconds",
		Help:    "Wall time of planner runs",
		Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
	}, []string{"operation"})

	searchNodes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_search_nodes",
		Help:    "Partial assignments explored per search",
		Buckets: prometheus.ExponentialBuckets(1, 8, 8),
	})

	schedulesFound := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_schedules_found",
		Help:    "Distinct valid schedules found per search",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})

	skippedSubjects := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_skipped_subjects_total",
		Help: "Selected subjects with no slot in the chosen week pair",
	})

	hardConflicts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_hard_conflicts_total",
		Help: "Subject pairs reported as never coexisting",
	})

	truncatedRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_truncated_searches_total",
		Help: "Searches stopped by the node budget",
	})

	catalogSlots := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planner_catalog_slots",
		Help: "Slots in the loaded catalog",
	})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_catalog_cache_read_seconds",
		Help:    "Catalog cache lookup latency",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "planner_catalog_cache_write_seconds",
		Help:    "Catalog cache write latency",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "planner_catalog_cache_hit_ratio",
		Help: "Share of catalog lookups served from cache",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_catalog_cache_hits_total",
		Help: "Catalog lookups served from cache",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "planner_catalog_cache_misses_total",
		Help: "Catalog lookups that fell through to the source",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "planner_goroutines",
		Help: "Goroutines alive when metrics were gathered",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(runsTotal, runDuration, searchNodes, schedulesFound, skippedSubjects, hardConflicts,
		truncatedRuns, catalogSlots, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		runsTotal:       runsTotal,
		runDuration:     runDuration,
		searchNodes:     searchNodes,
		schedulesFound:  schedulesFound,
		skippedSubjects: skippedSubjects,
		hardConflicts:   hardConflicts,
		truncatedRuns:   truncatedRuns,
		catalogSlots:    catalogSlots,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Registry exposes the underlying registry for gathering.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveRun records one planner run. Outcome is "found" or "empty".
func (m *MetricsService) ObserveRun(operation string, result models.GenerationResult, conflicts int, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "found"
	if result.TotalFound == 0 {
		outcome = "empty"
	}
	m.runsTotal.WithLabelValues(operation, outcome).Inc()
	m.runDuration.WithLabelValues(operation).Observe(duration.Seconds())
	m.searchNodes.Observe(float64(result.NodesVisited))
	m.schedulesFound.Observe(float64(result.TotalFound))
	m.skippedSubjects.Add(float64(len(result.Skipped)))
	m.hardConflicts.Add(float64(conflicts))
	if result.Truncated {
		m.truncatedRuns.Inc()
	}
	atomic.AddUint64(&m.runCount, 1)
	atomic.AddUint64(&m.runDurationTotal, uint64(duration.Nanoseconds()))
}

// SetCatalogSize records how many slots the active catalog holds.
func (m *MetricsService) SetCatalogSize(slots int) {
	if m == nil {
		return
	}
	m.catalogSlots.Set(float64(slots))
}

// RecordCacheOperation counts a catalog cache lookup and refreshes the hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	m.cacheHitRatio.Set(float64(hits) / float64(hits+misses))
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (m *MetricsService) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

// Snapshot returns aggregated counters for logging at the end of a command.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	runs := atomic.LoadUint64(&m.runCount)
	runDuration := atomic.LoadUint64(&m.runDurationTotal)

	var ratio float64
	if hits+misses > 0 {
		ratio = float64(hits) / float64(hits+misses)
	}
	var avgRunMs float64
	if runs > 0 {
		avgRunMs = float64(runDuration) / float64(runs) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		Runs:          runs,
		CacheHits:     hits,
		CacheMisses:   misses,
		CacheHitRatio: ratio,
		AverageRunMs:  avgRunMs,
		Goroutines:    runtime.NumGoroutine(),
		GeneratedAt:   time.Now().UTC(),
	}
}
