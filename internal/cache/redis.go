package cache

import (
	"bufio"
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "gradeboard"

// scanBatchSize bounds how many keys a single SCAN iteration may return.
const scanBatchSize = 100

// RedisClient captures the subset of redis.Client used by the store.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Info(ctx context.Context, section ...string) *redis.StringCmd
}

// RedisStore implements Store on top of a Redis connection.
type RedisStore struct {
	client RedisClient
	prefix string
}

// NewRedisStore wraps a Redis client in the Store contract. An empty prefix
// falls back to the application default so unrelated keyspaces are never
// touched by DeletePrefix.
func NewRedisStore(client RedisClient, prefix string) (*RedisStore, error) {
	if client == nil {
		return nil, errors.New("cache: redis client is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// Get retrieves the value associated with a key. Missing keys are reported as
// a miss, not an error.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.cacheKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return value, true, nil
}

// Set stores a value with PX expiry semantics, replacing any existing entry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, s.cacheKey(key), value, ttl).Err()
}

// DeletePrefix removes every key below prefix and returns the deleted count.
// SCAN keeps each DEL batch small so concurrent readers only ever race against
// per-key deletions.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	var (
		cursor  uint64
		deleted int64
	)

	pattern := s.cacheKey(prefix) + "*"
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return deleted, err
		}

		if len(keys) > 0 {
			removed, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += removed
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// Stats passes through the backend's INFO counters.
func (s *RedisStore) Stats(ctx context.Context) (BackendStats, error) {
	statsInfo, err := s.client.Info(ctx, "stats").Result()
	if err != nil {
		return BackendStats{}, err
	}

	stats := BackendStats{
		TotalConnections: parseInfoInt(statsInfo, "total_connections_received"),
		TotalCommands:    parseInfoInt(statsInfo, "total_commands_processed"),
		KeyspaceHits:     parseInfoInt(statsInfo, "keyspace_hits"),
		KeyspaceMisses:   parseInfoInt(statsInfo, "keyspace_misses"),
	}

	memoryInfo, err := s.client.Info(ctx, "memory").Result()
	if err != nil {
		return stats, err
	}
	stats.UsedMemoryHuman = parseInfoField(memoryInfo, "used_memory_human")

	return stats, nil
}

func (s *RedisStore) cacheKey(key string) string {
	return s.prefix + ":" + key
}

// parseInfoField extracts a single "field:value" line from an INFO section.
func parseInfoField(info, field string) string {
	scanner := bufio.NewScanner(strings.NewReader(info))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if value, ok := strings.CutPrefix(line, field+":"); ok {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func parseInfoInt(info, field string) int64 {
	value, err := strconv.ParseInt(parseInfoField(info, field), 10, 64)
	if err != nil {
		return 0
	}
	return value
}
