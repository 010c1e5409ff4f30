package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a JSON read-through cache. Concurrent misses on one key share a
// single loader call.
type Cache struct {
	rdb *redis.Client
	sf  singleflight.Group
	ttl time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Minute
	}

	return &Cache{rdb: client, ttl: ttl}
}

func (c *Cache) TTL() time.Duration { return c.ttl }

func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return c.rdb.Del(ctx, keys...).Err()
}

// InvalidateUser drops the cached reservation list of a user.
func (c *Cache) InvalidateUser(ctx context.Context, userID string) error {
	return c.Del(ctx, KeyUserReservations(userID))
}

func getJSON[T any](ctx context.Context, c *Cache, key string) (T, bool, error) {
	var zero T

	s, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, err
	}

	var out T
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		// Corrupt entries are treated as a miss and overwritten.
		return zero, false, nil
	}

	return out, true, nil
}

func setJSON(ctx context.Context, c *Cache, key string, val any) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

// GetOrLoad returns the cached value for key, calling loader on a miss and
// storing its result. A Redis read error falls through to the loader; the
// loader's error is returned as is and nothing is cached.
func GetOrLoad[T any](
	ctx context.Context,
	c *Cache,
	key string,
	loader func(ctx context.Context) (T, error),
) (T, error) {
	const op = "redis.GetOrLoad"

	if v, ok, err := getJSON[T](ctx, c, key); err == nil && ok {
		return v, nil
	}

	vAny, err, _ := c.sf.Do(key, func() (any, error) {
		if v, ok, err := getJSON[T](ctx, c, key); err == nil && ok {
			return v, nil
		}

		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}

		_ = setJSON(ctx, c, key, v)

		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	v, ok := vAny.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%s: unexpected cached type %T", op, vAny)
	}

	return v, nil
}
