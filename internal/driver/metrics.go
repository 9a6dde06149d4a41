package driver

import (
	"fmt"
	"sync/atomic"
)

// runMetrics tracks counters of one run; updated from worker goroutines.
type runMetrics struct {
	// Worker pool
	workersActive    atomic.Int32
	workersCompleted atomic.Int64
	workersErrors    atomic.Int64

	// Cache
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
	cacheWrites atomic.Int64

	// Documents
	skippedGenerated atomic.Int64
	panics           atomic.Int64
}

// Metrics is a snapshot of run counters.
type Metrics struct {
	Completed        int64
	Errors           int64
	CacheHits        int64
	CacheMisses      int64
	CacheWrites      int64
	SkippedGenerated int64
	Panics           int64
}

func (m *runMetrics) snapshot() Metrics {
	return Metrics{
		Completed:        m.workersCompleted.Load(),
		Errors:           m.workersErrors.Load(),
		CacheHits:        m.cacheHits.Load(),
		CacheMisses:      m.cacheMisses.Load(),
		CacheWrites:      m.cacheWrites.Load(),
		SkippedGenerated: m.skippedGenerated.Load(),
		Panics:           m.panics.Load(),
	}
}

// String renders the counters on one line.
func (m Metrics) String() string {
	lookups := m.CacheHits + m.CacheMisses
	hitRate := 0.0
	if lookups > 0 {
		hitRate = float64(m.CacheHits) / float64(lookups) * 100
	}
	return fmt.Sprintf(
		"workers: %d completed, %d errors, %d panics | cache: %d/%d (%.1f%%), %d written | generated skipped: %d",
		m.Completed, m.Errors, m.Panics,
		m.CacheHits, lookups, hitRate, m.CacheWrites,
		m.SkippedGenerated,
	)
}
