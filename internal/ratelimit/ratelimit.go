package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// slidingWindow keeps one sorted-set member per accepted call, scored by its
// time in milliseconds. Rejected calls are never added, so they do not extend
// the block.
var slidingWindow = redis.NewScript(`
local key    = KEYS[1]
local now    = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit  = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count < limit then
	redis.call('ZADD', key, now, ARGV[4])
	redis.call('PEXPIRE', key, window)
	return 1
end
return 0
`)

// Limiter allows at most Limit calls per key within any trailing Window.
type Limiter struct {
	R      redis.Scripter
	Prefix string
	Limit  int
	Window time.Duration

	now func() time.Time
}

func New(r redis.Scripter, limit int, window time.Duration) *Limiter {
	return &Limiter{
		R:      r,
		Prefix: "rl:post.create",
		Limit:  limit,
		Window: window,
		now:    time.Now,
	}
}

// Allow records the call and reports true while the key is under its limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	now := l.now().UnixMilli()
	res, err := slidingWindow.Run(ctx, l.R,
		[]string{l.Prefix + ":" + key},
		now, l.Window.Milliseconds(), l.Limit, fmt.Sprintf("%d-%s", now, uuid.NewString()),
	).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit %q: %w", key, err)
	}
	return res == 1, nil
}
