package cache

import (
	"context"
	"time"
)

// Store represents the read-through cache shared across the application.
//
// Get reports a miss with ok == false and a nil error; a non-nil error means
// the backend is unavailable. Callers fall back to the database either way,
// but unavailability stays observable for diagnostics.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// DeletePrefix removes every key starting with prefix and returns the
	// number of entries removed.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
	// Stats exposes backend operational counters. Backends without native
	// counters return a zero value.
	Stats(ctx context.Context) (BackendStats, error)
}

// BackendStats mirrors the cache backend's own operational counters.
type BackendStats struct {
	TotalConnections int64  `json:"total_connections"`
	TotalCommands    int64  `json:"total_commands"`
	KeyspaceHits     int64  `json:"keyspace_hits"`
	KeyspaceMisses   int64  `json:"keyspace_misses"`
	UsedMemoryHuman  string `json:"used_memory_human"`
}
