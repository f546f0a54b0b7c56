package redis

import (
	"context"
	"testing"
	"time"
)

func TestIdempotencyStore_CheckAndSetExisting(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := client.Set(ctx, store.prefix+"key", "cached", time.Minute).Err(); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "key", nil, time.Minute)
	if err != nil {
		t.Fatalf("CheckAndSet failed: %v", err)
	}

	if !exists || string(resp) != "cached" {
		t.Fatalf("expected existing cached response, got exists=%v resp=%s", exists, resp)
	}
}

func TestIdempotencyStore_CheckAndSetLocksNewKey(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	exists, resp, err := store.CheckAndSet(ctx, "pending", nil, time.Minute)
	if err != nil || exists || resp != nil {
		t.Fatalf("unexpected result: exists=%v resp=%v err=%v", exists, resp, err)
	}

	val, err := client.Get(ctx, store.prefix+"pending").Result()
	if err != nil || val != ProcessingMarker {
		t.Fatalf("expected placeholder lock, got val=%s err=%v", val, err)
	}
}

func TestIdempotencyStore_Update(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if err := store.Update(ctx, "complete", []byte("done"), time.Minute); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	val, err := client.Get(ctx, store.prefix+"complete").Result()
	if err != nil || val != "done" {
		t.Fatalf("expected stored response, got val=%s err=%v", val, err)
	}
}

func TestIdempotencyStore_SecondClaimSeesMarker(t *testing.T) {
	client, mr := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if exists, _, err := store.CheckAndSet(ctx, "pay-1", nil, time.Minute); err != nil || exists {
		t.Fatalf("first claim: exists=%v err=%v", exists, err)
	}

	exists, resp, err := store.CheckAndSet(ctx, "pay-1", nil, time.Minute)
	if err != nil || !exists || string(resp) != ProcessingMarker {
		t.Fatalf("second claim: exists=%v resp=%s err=%v", exists, resp, err)
	}

	if ttl := mr.TTL(store.prefix + "pay-1"); ttl != time.Minute {
		t.Fatalf("expected ttl of one minute, got %v", ttl)
	}
}

func TestIdempotencyStore_Release(t *testing.T) {
	client, _ := newTestRedisClient(t)

	store := NewIdempotencyStore(client)
	ctx := context.Background()

	if _, _, err := store.CheckAndSet(ctx, "pay-2", nil, time.Minute); err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if err := store.Release(ctx, "pay-2"); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	exists, _, err := store.CheckAndSet(ctx, "pay-2", nil, time.Minute)
	if err != nil || exists {
		t.Fatalf("expected key to be claimable after release, exists=%v err=%v", exists, err)
	}
}
