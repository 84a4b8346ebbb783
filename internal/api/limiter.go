package api

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenLimiter answers whether a token may make another request right now.
// Implementations must be atomic under concurrent requests for the same
// token.
type TokenLimiter interface {
	// Allow consumes one request slot for the token in the given scope.
	// When denied, retryAfter says how long the caller should wait.
	Allow(ctx context.Context, token, scope string, limit int) (allowed bool, retryAfter time.Duration, err error)
}

// Lua script for atomic check-and-increment. Checking and incrementing in
// separate round trips would let concurrent requests slip past the limit.
const tokenLimitLuaScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])

local current = tonumber(redis.call("GET", key) or "0")

if current + 1 > limit then
    return {0, current}
end

local newVal = redis.call("INCR", key)
if newVal == 1 then
    redis.call("EXPIRE", key, ttl)
end

return {1, newVal}
`

// RedisLimiter enforces per-token request limits over minute buckets in
// Redis. Keys are bucketed on the wall-clock minute, so a token's budget
// resets at each minute boundary.
type RedisLimiter struct {
	redis  *redis.Client
	script *redis.Script
	now    func() time.Time
}

// NewRedisLimiter creates a limiter with a pre-compiled Lua script.
func NewRedisLimiter(redisClient *redis.Client) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		script: redis.NewScript(tokenLimitLuaScript),
		now:    time.Now,
	}
}

// Allow consumes one slot from the token's minute bucket for the scope.
// Redis errors deny the request; failing open would let an outage disable
// rate limiting entirely on the bulk endpoint.
func (l *RedisLimiter) Allow(ctx context.Context, token, scope string, limit int) (bool, time.Duration, error) {
	now := l.now()
	key := fmt.Sprintf("ratelimit:%s:%s:%d", scope, token, now.Unix()/60)

	result, err := l.script.Run(ctx, l.redis,
		[]string{key},
		limit,
		120, // bucket TTL, two minutes so straggling requests still see it
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check: %w", err)
	}

	if result[0].(int64) == 0 {
		retryAfter := time.Duration(60-now.Second()) * time.Second
		return false, retryAfter, nil
	}
	return true, 0, nil
}
