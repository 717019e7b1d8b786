package perf

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const metricKeyPrefix = "gradeboard:metrics:"

// RedisClient captures the subset of redis.Client used by the recorder.
type RedisClient interface {
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisRecorder keeps per-source sample lists in Redis so every process sees
// the same history.
type RedisRecorder struct {
	client RedisClient
}

// NewRedisRecorder wraps a Redis client in the Recorder contract.
func NewRedisRecorder(client RedisClient) (*RedisRecorder, error) {
	if client == nil {
		return nil, errors.New("perf: redis client is required")
	}
	return &RedisRecorder{client: client}, nil
}

// Record pushes the sample to the front of the source's list and trims the
// list back to the retained window.
func (r *RedisRecorder) Record(ctx context.Context, source Source, latencyMs float64) error {
	key := metricKey(source)
	if err := r.client.LPush(ctx, key, strconv.FormatFloat(latencyMs, 'f', -1, 64)).Err(); err != nil {
		return err
	}
	return r.client.LTrim(ctx, key, 0, historyLimit-1).Err()
}

// Snapshot aggregates the retained samples of every tracked source.
func (r *RedisRecorder) Snapshot(ctx context.Context) (Snapshot, error) {
	snapshot := make(Snapshot, len(Sources))
	for _, source := range Sources {
		raw, err := r.client.LRange(ctx, metricKey(source), 0, -1).Result()
		if err != nil {
			return nil, err
		}

		samples := make([]float64, 0, len(raw))
		for _, value := range raw {
			sample, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				continue
			}
			samples = append(samples, sample)
		}
		snapshot[source] = summarize(samples)
	}
	return snapshot, nil
}

func metricKey(source Source) string {
	return metricKeyPrefix + string(source)
}
