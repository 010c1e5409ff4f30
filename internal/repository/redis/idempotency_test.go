package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyLifecycle(t *testing.T) {
	mr, rdb := newTestClient(t)
	ctx := context.Background()

	store := NewIdempotencyStore(rdb, time.Hour, time.Minute)
	key := KeyIdemComplete("s1", "k1")

	state, _, err := store.Begin(ctx, key)
	if err != nil || state != IdemAcquired {
		t.Fatalf("first Begin = %v, %v; want IdemAcquired", state, err)
	}

	state, _, err = store.Begin(ctx, key)
	if err != nil || state != IdemInProgress {
		t.Fatalf("second Begin = %v, %v; want IdemInProgress", state, err)
	}

	if err := store.Save(ctx, key, `{"id":"BK-123456"}`); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Fatalf("result ttl = %v, want 1h", ttl)
	}

	state, payload, err := store.Begin(ctx, key)
	if err != nil || state != IdemDone || payload != `{"id":"BK-123456"}` {
		t.Fatalf("Begin after Save = %v, %q, %v", state, payload, err)
	}

	if err := store.Release(ctx, key); err != nil {
		t.Fatalf("Release: %v", err)
	}

	state, _, err = store.Begin(ctx, key)
	if err != nil || state != IdemAcquired {
		t.Fatalf("Begin after Release = %v, %v; want IdemAcquired", state, err)
	}
}

func TestIdempotencyLockExpires(t *testing.T) {
	mr, rdb := newTestClient(t)
	ctx := context.Background()

	store := NewIdempotencyStore(rdb, time.Hour, 30*time.Second)
	key := KeyIdemComplete("s1", "k1")

	if state, _, err := store.Begin(ctx, key); err != nil || state != IdemAcquired {
		t.Fatalf("Begin = %v, %v", state, err)
	}

	mr.FastForward(31 * time.Second)

	if state, _, err := store.Begin(ctx, key); err != nil || state != IdemAcquired {
		t.Fatalf("Begin after lock expiry = %v, %v; want IdemAcquired", state, err)
	}
}

func TestIdempotencyDefaultLockTTL(t *testing.T) {
	mr, rdb := newTestClient(t)

	store := NewIdempotencyStore(rdb, time.Hour, 0)
	key := KeyIdemComplete("s1", "k1")

	if _, _, err := store.Begin(context.Background(), key); err != nil {
		t.Fatal(err)
	}
	if ttl := mr.TTL(key); ttl != time.Minute {
		t.Fatalf("lock ttl = %v, want 1m", ttl)
	}
}
