// Package ratelimit throttles request volume per client key.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key. A bucket holds requests
// tokens and refills completely over window, so it approximates a rolling
// window: a drained client regains one request every window/requests.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewMemoryLimiter(requests int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// Sweep drops keys idle for longer than idle and reports how many went.
func (l *MemoryLimiter) Sweep(idle time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-idle)
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RedisLimiter keeps a sliding-window log per key in a sorted set shared by
// every API instance: a request is allowed when fewer than requests others
// were accepted during the preceding window.
type RedisLimiter struct {
	client   redis.Cmdable
	requests int64
	window   time.Duration
	prefix   string
	now      func() time.Time
}

func NewRedisLimiter(client redis.Cmdable, requests int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		requests: int64(requests),
		window:   window,
		prefix:   "ratelimit:",
		now:      time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	setKey := l.prefix + key
	now := l.now().UnixMicro()
	windowStart := now - l.window.Microseconds()
	member := strconv.FormatInt(now, 10) + "-" + uuid.NewString()

	var card *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, setKey, "-inf", "("+strconv.FormatInt(windowStart, 10))
		pipe.ZAdd(ctx, setKey, redis.Z{Score: float64(now), Member: member})
		card = pipe.ZCard(ctx, setKey)
		pipe.PExpire(ctx, setKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("rate limit log: %w", err)
	}

	if card.Val() <= l.requests {
		return true, nil
	}

	// Rejected requests do not occupy the window.
	if err := l.client.ZRem(ctx, setKey, member).Err(); err != nil {
		return false, fmt.Errorf("rate limit log: %w", err)
	}
	return false, nil
}
