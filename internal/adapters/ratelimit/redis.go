package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v9"
)

const keyPrefix = "login-attempts:"

// Redis comparte los contadores entre réplicas. La ventana arranca con el primer fallo.
type Redis struct {
	rdb    *redis.Client
	max    int
	window time.Duration
}

func NewRedis(rdb *redis.Client, maxAttempts int, win time.Duration) *Redis {
	return &Redis{rdb: rdb, max: maxAttempts, window: win}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Get(ctx, redisKey(key)).Int()
	if err != nil {
		if err == redis.Nil {
			return true, nil
		}
		return false, fmt.Errorf("get attempts for %s: %w", key, err)
	}
	return n < r.max, nil
}

// Fail crea el contador con TTL (SET NX EX) e incrementa en la misma transacción,
// así nunca queda una clave sin vencimiento.
func (r *Redis) Fail(ctx context.Context, key string) error {
	k := redisKey(key)
	var incr *redis.IntCmd
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetArgs(ctx, k, 0, redis.SetArgs{Mode: "NX", TTL: r.window})
		incr = pipe.Incr(ctx, k)
		return nil
	})
	// SET NX responde nil si el contador ya existía
	if err != nil && err != redis.Nil {
		return fmt.Errorf("record failed attempt for %s: %w", key, err)
	}
	if err := incr.Err(); err != nil {
		return fmt.Errorf("record failed attempt for %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Reset(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("reset attempts for %s: %w", key, err)
	}
	return nil
}

func redisKey(key string) string {
	return keyPrefix + normalizeKey(key)
}
