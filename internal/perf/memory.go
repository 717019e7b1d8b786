package perf

import (
	"context"
	"sync"
)

// MemoryRecorder is the in-process fallback used when no Redis backend is
// configured. History is local to the process.
type MemoryRecorder struct {
	mu      sync.Mutex
	samples map[Source][]float64
}

// NewMemoryRecorder constructs an empty in-process recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{samples: make(map[Source][]float64)}
}

// Record prepends the sample and truncates the history to the retained window.
func (r *MemoryRecorder) Record(ctx context.Context, source Source, latencyMs float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := append([]float64{latencyMs}, r.samples[source]...)
	if len(history) > historyLimit {
		history = history[:historyLimit]
	}
	r.samples[source] = history
	return nil
}

// Snapshot aggregates the retained samples of every tracked source.
func (r *MemoryRecorder) Snapshot(ctx context.Context) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(Snapshot, len(Sources))
	for _, source := range Sources {
		snapshot[source] = summarize(r.samples[source])
	}
	return snapshot, nil
}
