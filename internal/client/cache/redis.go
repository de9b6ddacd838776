package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the cache with a redis instance so repeated CLI invocations
// share warm entries.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(addr string, db int) *Redis {
	return &Redis{rdb: redis.NewClient(&redis.Options{Addr: addr, DB: db})}
}

func (r *Redis) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch FetchFunc) ([]byte, error) {
	data, err := r.rdb.Get(ctx, key).Bytes()
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("cache get %q: %w", key, err)
	}

	data, err = fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return nil, fmt.Errorf("cache set %q: %w", key, err)
	}
	return data, nil
}

func (r *Redis) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache del %v: %w", keys, err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.rdb.Close()
}
