// Package perf tracks how long student listings take to serve from the cache
// versus the relational store, backing the performance dashboard.
package perf

import (
	"context"
	"math"
)

// Source tags a latency sample with where the listing was served from.
type Source string

const (
	// SourceCache marks samples measured around a cache lookup.
	SourceCache Source = "cache"
	// SourceDatabase marks samples measured around a store query.
	SourceDatabase Source = "database"
)

// Sources lists every tracked source in snapshot order.
var Sources = []Source{SourceCache, SourceDatabase}

const (
	// historyLimit bounds the retained samples per source.
	historyLimit = 100
	// displayLimit bounds how many recent samples a snapshot exposes.
	displayLimit = 20
)

// SourceStats aggregates the retained samples of one source.
type SourceStats struct {
	// Times holds the most recent samples, newest first.
	Times []float64 `json:"times"`
	// Average is the mean over the full retained window, not just Times.
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Snapshot maps each tracked source to its aggregated statistics.
type Snapshot map[Source]SourceStats

// Recorder accumulates latency samples per source. Recording is best-effort
// telemetry: callers ignore errors beyond logging them.
type Recorder interface {
	Record(ctx context.Context, source Source, latencyMs float64) error
	Snapshot(ctx context.Context) (Snapshot, error)
}

// emptyStats is what a snapshot reports for a source with no samples yet.
func emptyStats() SourceStats {
	return SourceStats{Times: []float64{}, Average: 0, Count: 0}
}

// summarize builds the snapshot entry for a full (newest first) sample window.
func summarize(samples []float64) SourceStats {
	if len(samples) == 0 {
		return emptyStats()
	}

	var sum float64
	for _, sample := range samples {
		sum += sample
	}
	average := math.Round(sum/float64(len(samples))*100) / 100

	recent := samples
	if len(recent) > displayLimit {
		recent = recent[:displayLimit]
	}

	times := make([]float64, len(recent))
	copy(times, recent)

	return SourceStats{
		Times:   times,
		Average: average,
		Count:   len(samples),
	}
}
