package tabgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    loadCounter    prometheus.Counter
//	    queryHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordLoad(rows, cols int, duration time.Duration, err error) {
//	    p.loadCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordLoad is called after each load operation.
	// rows and cols describe the loaded table, duration is the total time
	// taken, err is nil if successful.
	RecordLoad(rows, cols int, duration time.Duration, err error)

	// RecordQuery is called after each scan query.
	// query names the operation, duration is the time taken.
	RecordQuery(query string, duration time.Duration)

	// RecordUpdate is called after each predicated update.
	// updated is the number of rows changed.
	RecordUpdate(updated int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordQuery(string, time.Duration)         {}
func (NoopMetricsCollector) RecordUpdate(int, time.Duration)           {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount        atomic.Int64
	LoadErrors       atomic.Int64
	RowsLoaded       atomic.Int64
	QueryCount       atomic.Int64
	QueryTotalNanos  atomic.Int64
	UpdateCount      atomic.Int64
	UpdateTotalNanos atomic.Int64
	RowsUpdated      atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(rows, cols int, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.RowsLoaded.Add(int64(rows))
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(query string, duration time.Duration) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
}

// RecordUpdate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordUpdate(updated int, duration time.Duration) {
	b.UpdateCount.Add(1)
	b.UpdateTotalNanos.Add(duration.Nanoseconds())
	b.RowsUpdated.Add(int64(updated))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:      b.LoadCount.Load(),
		LoadErrors:     b.LoadErrors.Load(),
		RowsLoaded:     b.RowsLoaded.Load(),
		QueryCount:     b.QueryCount.Load(),
		QueryAvgNanos:  b.getAvgQueryNanos(),
		UpdateCount:    b.UpdateCount.Load(),
		UpdateAvgNanos: b.getAvgUpdateNanos(),
		RowsUpdated:    b.RowsUpdated.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgQueryNanos() int64 {
	count := b.QueryCount.Load()
	if count == 0 {
		return 0
	}
	return b.QueryTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgUpdateNanos() int64 {
	count := b.UpdateCount.Load()
	if count == 0 {
		return 0
	}
	return b.UpdateTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount      int64
	LoadErrors     int64
	RowsLoaded     int64
	QueryCount     int64
	QueryAvgNanos  int64
	UpdateCount    int64
	UpdateAvgNanos int64
	RowsUpdated    int64
}
