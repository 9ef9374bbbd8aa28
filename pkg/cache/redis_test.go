package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	s := miniredis.RunT(t)
	c, err := NewRedisCache(context.Background(), RedisOptions{Addr: s.Addr(), Prefix: "test:"})
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c, s
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, s := newTestRedisCache(t)

	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Fatalf("Get(missing) = hit %v, err %v", hit, err)
	}
	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !s.Exists("test:k") {
		t.Fatal("key should be stored under the prefix")
	}
	if data, hit, err := c.Get(ctx, "k"); err != nil || !hit || string(data) != "v" {
		t.Fatalf("Get(k) = %q, %v, %v", data, hit, err)
	}

	s.FastForward(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("entry should expire with its ttl")
	}

	if err := c.Set(ctx, "p", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	if s.TTL("test:p") != 0 {
		t.Error("zero ttl should store without expiry")
	}
	if err := c.Delete(ctx, "p"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Exists("test:p") {
		t.Error("key should be deleted")
	}
}

func TestRedisCacheClearKeepsOtherPrefixes(t *testing.T) {
	ctx := context.Background()
	c, s := newTestRedisCache(t)
	if err := s.Set("other:x", "1"); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}

	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear removed %d keys, want 2", n)
	}
	if !s.Exists("other:x") {
		t.Error("Clear removed a key outside its prefix")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	_, err := NewRedisCache(context.Background(), RedisOptions{Addr: addr})
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("NewRedisCache on a closed server = %v, want ErrNetwork", err)
	}
}
