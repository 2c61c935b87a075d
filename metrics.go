package kikgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordCompare is called after each metric invocation.
	// lazy reports whether a deferred result was returned,
	// err is nil if successful.
	RecordCompare(metric string, lazy bool, duration time.Duration, err error)

	// RecordMatch is called after each pattern matching run.
	// patterns is the number of experimental patterns matched.
	RecordMatch(metric string, patterns int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCompare(string, bool, time.Duration, error) {}
func (NoopMetricsCollector) RecordMatch(string, int, time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	CompareCount      atomic.Int64
	CompareLazy       atomic.Int64
	CompareErrors     atomic.Int64
	CompareTotalNanos atomic.Int64
	MatchCount        atomic.Int64
	MatchPatterns     atomic.Int64
	MatchErrors       atomic.Int64
	MatchTotalNanos   atomic.Int64
}

// RecordCompare implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCompare(_ string, lazy bool, duration time.Duration, err error) {
	b.CompareCount.Add(1)
	b.CompareTotalNanos.Add(duration.Nanoseconds())
	if lazy {
		b.CompareLazy.Add(1)
	}
	if err != nil {
		b.CompareErrors.Add(1)
	}
}

// RecordMatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMatch(_ string, patterns int, duration time.Duration, err error) {
	b.MatchCount.Add(1)
	b.MatchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MatchErrors.Add(1)
		return
	}
	b.MatchPatterns.Add(int64(patterns))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		CompareCount:    b.CompareCount.Load(),
		CompareLazy:     b.CompareLazy.Load(),
		CompareErrors:   b.CompareErrors.Load(),
		CompareAvgNanos: avg(b.CompareTotalNanos.Load(), b.CompareCount.Load()),
		MatchCount:      b.MatchCount.Load(),
		MatchPatterns:   b.MatchPatterns.Load(),
		MatchErrors:     b.MatchErrors.Load(),
		MatchAvgNanos:   avg(b.MatchTotalNanos.Load(), b.MatchCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	CompareCount    int64
	CompareLazy     int64
	CompareErrors   int64
	CompareAvgNanos int64
	MatchCount      int64
	MatchPatterns   int64
	MatchErrors     int64
	MatchAvgNanos   int64
}
