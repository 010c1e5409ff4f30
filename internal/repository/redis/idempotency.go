package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	idemLock   = "LOCK"
	idemResult = "RES:"
)

type IdemState int

const (
	// IdemAcquired means the caller owns the key and must Save or Release it.
	IdemAcquired IdemState = iota
	// IdemInProgress means another request holds the key.
	IdemInProgress
	// IdemDone means a stored response is available.
	IdemDone
)

// IdempotencyStore remembers the response of a request under a client
// supplied key for ttl.
type IdempotencyStore struct {
	rdb     *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

func NewIdempotencyStore(rdb *redis.Client, ttl, lockTTL time.Duration) *IdempotencyStore {
	if lockTTL <= 0 {
		lockTTL = time.Minute
	}

	return &IdempotencyStore{rdb: rdb, ttl: ttl, lockTTL: lockTTL}
}

// Begin tries to take key. When a response was already saved it is returned
// with IdemDone.
func (s *IdempotencyStore) Begin(ctx context.Context, key string) (IdemState, string, error) {
	ok, err := s.rdb.SetNX(ctx, key, idemLock, s.lockTTL).Result()
	if err != nil {
		return 0, "", err
	}
	if ok {
		return IdemAcquired, "", nil
	}

	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// Lock expired between the two calls; let the client retry.
		return IdemInProgress, "", nil
	}
	if err != nil {
		return 0, "", err
	}

	if payload, ok := strings.CutPrefix(v, idemResult); ok {
		return IdemDone, payload, nil
	}

	return IdemInProgress, "", nil
}

func (s *IdempotencyStore) Save(ctx context.Context, key, payload string) error {
	return s.rdb.Set(ctx, key, idemResult+payload, s.ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
