package perf

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// stubListClient is an in-memory RedisClient used for unit tests.
type stubListClient struct {
	lists map[string][]string

	pushErr  error
	trimErr  error
	rangeErr error
}

func newStubListClient() *stubListClient {
	return &stubListClient{lists: make(map[string][]string)}
}

func (c *stubListClient) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if c.pushErr != nil {
		cmd.SetErr(c.pushErr)
		return cmd
	}
	list := c.lists[key]
	for _, value := range values {
		list = append([]string{fmt.Sprint(value)}, list...)
	}
	c.lists[key] = list
	cmd.SetVal(int64(len(list)))
	return cmd
}

func (c *stubListClient) LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if c.trimErr != nil {
		cmd.SetErr(c.trimErr)
		return cmd
	}
	list := c.lists[key]
	if start < 0 {
		start = 0
	}
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start > stop {
		c.lists[key] = nil
	} else {
		c.lists[key] = list[start : stop+1]
	}
	cmd.SetVal("OK")
	return cmd
}

func (c *stubListClient) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	cmd := redis.NewStringSliceCmd(ctx)
	if c.rangeErr != nil {
		cmd.SetErr(c.rangeErr)
		return cmd
	}
	list := c.lists[key]
	if stop < 0 {
		stop = int64(len(list)) + stop
	}
	if stop >= int64(len(list)) {
		stop = int64(len(list)) - 1
	}
	if start < 0 {
		start = 0
	}
	if start > stop {
		cmd.SetVal([]string{})
		return cmd
	}
	out := make([]string, stop-start+1)
	copy(out, list[start:stop+1])
	cmd.SetVal(out)
	return cmd
}
