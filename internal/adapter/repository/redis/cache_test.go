package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/goloan/internal/usecase"
)

func TestCacheSetAndGet(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "preview:amortization:abc", []byte(`{"Payment":"888.49"}`), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "preview:amortization:abc")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if string(val) != `{"Payment":"888.49"}` {
		t.Fatalf("unexpected value %s", val)
	}

	if !mr.Exists("cache:preview:amortization:abc") {
		t.Fatalf("expected key to be stored under the cache prefix")
	}
}

func TestCacheMissAndExpiry(t *testing.T) {
	client, mr := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if _, err := cache.Get(ctx, "absent"); !errors.Is(err, usecase.ErrCacheMiss) {
		t.Fatalf("expected cache miss, got %v", err)
	}

	if err := cache.Set(ctx, "short", []byte("v"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := cache.Get(ctx, "short"); !errors.Is(err, usecase.ErrCacheMiss) {
		t.Fatalf("expected expired key to miss, got %v", err)
	}
}

func TestCacheDelete(t *testing.T) {
	client, _ := newTestRedisClient(t)

	cache := NewCache(client)
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", []byte("bar"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "foo"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := cache.Get(ctx, "foo"); !errors.Is(err, usecase.ErrCacheMiss) {
		t.Fatalf("expected cache miss after delete, got %v", err)
	}
}

func TestCacheReportsConnectionErrors(t *testing.T) {
	client, mr := newTestRedisClient(t)

	mr.Close()

	_, err := NewCache(client).Get(context.Background(), "foo")
	if err == nil || errors.Is(err, usecase.ErrCacheMiss) {
		t.Fatalf("expected connection error, got %v", err)
	}
}
