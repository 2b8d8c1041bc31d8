package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"go-qr-platform/internal/logger"
)

// checkIncrScript verifies all three window counters are under cap before
// incrementing any of them, so the check-and-increment appears atomic to
// concurrent callers. Returns {0, blockedIndex, observedCount} on rejection
// and {1, c1, c2, c3} on admission.
var checkIncrScript = redis.NewScript(`
for i = 1, 3 do
  local current = tonumber(redis.call("GET", KEYS[i]) or "0")
  if current >= tonumber(ARGV[i]) then
    return {0, i, current}
  end
end
local counts = {}
for i = 1, 3 do
  local current = redis.call("INCR", KEYS[i])
  if current == 1 then
    redis.call("EXPIRE", KEYS[i], ARGV[i + 3])
  end
  counts[i] = current
end
return {1, counts[1], counts[2], counts[3]}
`)

// RedisStore implements CounterStore on a shared Redis instance, safe for
// deployments running multiple worker processes.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig carries connection settings for the counter store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisStore builds the store and probes reachability. An unreachable
// Redis at boot is logged but not fatal: the limiter fails open per request,
// and the store recovers as soon as Redis comes back.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithComponent("redis_store").WithError(err).WithField("addr", cfg.Addr).
			Warn("Redis unreachable at startup, rate limiting will fail open until it recovers")
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) CheckAndIncrement(ctx context.Context, keys [3]string, limits [3]int64, ttls [3]time.Duration) (Verdict, error) {
	args := []interface{}{
		limits[0], limits[1], limits[2],
		int64(ttls[0] / time.Second), int64(ttls[1] / time.Second), int64(ttls[2] / time.Second),
	}

	raw, err := checkIncrScript.Run(ctx, s.client, keys[:], args...).Result()
	if err != nil {
		return Verdict{}, err
	}

	values, ok := raw.([]interface{})
	if !ok || len(values) < 3 {
		return Verdict{}, fmt.Errorf("rate limit script: unexpected response %v", raw)
	}

	if asInt64(values[0]) == 0 {
		blocked := int(asInt64(values[1])) - 1 // lua is 1-indexed
		verdict := Verdict{Allowed: false, BlockedWindow: blocked}
		verdict.Counts[blocked] = asInt64(values[2])
		return verdict, nil
	}

	return Verdict{
		Allowed: true,
		Counts:  [3]int64{asInt64(values[1]), asInt64(values[2]), asInt64(values[3])},
	}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (int64, error) {
	value, err := s.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return value, err
}

func (s *RedisStore) DeleteByPrefix(ctx context.Context, prefix string) (int, error) {
	var deleted int
	iter := s.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, iter.Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func asInt64(v interface{}) int64 {
	switch value := v.(type) {
	case int64:
		return value
	case int:
		return int64(value)
	case uint64:
		return int64(value)
	default:
		return 0
	}
}
