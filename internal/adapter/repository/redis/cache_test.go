package redis

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	cache := NewCache(newTestRedisClient(t))
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", []byte("bar"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	val, err := cache.Get(ctx, "foo")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if !bytes.Equal(val, []byte("bar")) {
		t.Fatalf("expected bar, got %s", val)
	}
}

func TestCacheGetMiss(t *testing.T) {
	cache := NewCache(newTestRedisClient(t))

	val, err := cache.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected no error on miss, got %v", err)
	}

	if val != nil {
		t.Fatalf("expected nil data on miss, got %s", val)
	}
}

func TestCacheDelete(t *testing.T) {
	cache := NewCache(newTestRedisClient(t))
	ctx := context.Background()

	if err := cache.Set(ctx, "foo", []byte("bar"), time.Minute); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if err := cache.Delete(ctx, "foo"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	val, err := cache.Get(ctx, "foo")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}

	if val != nil {
		t.Fatalf("expected deleted key to read as a miss, got %s", val)
	}
}
