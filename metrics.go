package dnaclass

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the metric
// package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordLoad is called after each dataset load.
	// records and dropped count usable and discarded rows.
	RecordLoad(records, dropped int, duration time.Duration, err error)

	// RecordTrain is called after each training run.
	RecordTrain(classes, features int, duration time.Duration, err error)

	// RecordPredict is called after each prediction.
	// label is empty if err is non-nil.
	RecordPredict(label string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLoad(int, int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordTrain(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordPredict(string, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	LoadCount         atomic.Int64
	LoadErrors        atomic.Int64
	RecordsLoaded     atomic.Int64
	RecordsDropped    atomic.Int64
	TrainCount        atomic.Int64
	TrainErrors       atomic.Int64
	TrainTotalNanos   atomic.Int64
	PredictCount      atomic.Int64
	PredictErrors     atomic.Int64
	PredictTotalNanos atomic.Int64
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(records, dropped int, _ time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.RecordsLoaded.Add(int64(records))
	b.RecordsDropped.Add(int64(dropped))
}

// RecordTrain implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrain(_, _ int, duration time.Duration, err error) {
	b.TrainCount.Add(1)
	b.TrainTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TrainErrors.Add(1)
	}
}

// RecordPredict implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPredict(_ string, duration time.Duration, err error) {
	b.PredictCount.Add(1)
	b.PredictTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.PredictErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LoadCount:       b.LoadCount.Load(),
		LoadErrors:      b.LoadErrors.Load(),
		RecordsLoaded:   b.RecordsLoaded.Load(),
		RecordsDropped:  b.RecordsDropped.Load(),
		TrainCount:      b.TrainCount.Load(),
		TrainErrors:     b.TrainErrors.Load(),
		PredictCount:    b.PredictCount.Load(),
		PredictErrors:   b.PredictErrors.Load(),
		PredictAvgNanos: b.getAvgPredictNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgPredictNanos() int64 {
	count := b.PredictCount.Load()
	if count == 0 {
		return 0
	}
	return b.PredictTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LoadCount       int64
	LoadErrors      int64
	RecordsLoaded   int64
	RecordsDropped  int64
	TrainCount      int64
	TrainErrors     int64
	PredictCount    int64
	PredictErrors   int64
	PredictAvgNanos int64
}
