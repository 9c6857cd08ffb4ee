package cache

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestLRUCacheEvictsOldest(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache[int](2, time.Minute)
	c.Set(ctx, "a", 1)
	c.Set(ctx, "b", 2)
	if _, ok := c.Get(ctx, "a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Set(ctx, "c", 3) // evicts b, the least recently used
	if _, ok := c.Get(ctx, "b"); ok {
		t.Fatal("b should have been evicted")
	}
	if v, ok := c.Get(ctx, "a"); !ok || v != 1 {
		t.Fatalf("a = %d, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", "v")
	c.Set(ctx, "k2", "v2")
	now = now.Add(2 * time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatal("entry should have expired")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("cleaned %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestLRUCacheDeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewLRUCache[int](10, time.Minute)
	c.Set(ctx, "u:1:history:4", 1)
	c.Set(ctx, "u:1:summary:x", 2)
	c.Set(ctx, "u:12:history:4", 3)

	c.DeletePrefix(ctx, "u:1:")
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}
	if _, ok := c.Get(ctx, "u:12:history:4"); !ok {
		t.Fatal("other user's entry must survive")
	}
}

func TestManagerStop(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[int](1, time.Millisecond))
	m.StartCleanup(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	m.Stop()
	m.Stop()
}

func TestRedisCache(t *testing.T) {
	url := os.Getenv("PENNYWISE_TEST_REDIS_URL")
	if url == "" {
		t.Skip("PENNYWISE_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer client.Close()

	type view struct{ Total int64 }
	c := NewRedisCache[view](client, "pennywise-test", time.Minute)
	c.Set(ctx, "u:1:a", view{Total: 42})
	c.Set(ctx, "u:2:a", view{Total: 7})

	if v, ok := c.Get(ctx, "u:1:a"); !ok || v.Total != 42 {
		t.Fatalf("got %+v %v", v, ok)
	}
	c.DeletePrefix(ctx, "u:1:")
	if _, ok := c.Get(ctx, "u:1:a"); ok {
		t.Fatal("prefix delete failed")
	}
	if _, ok := c.Get(ctx, "u:2:a"); !ok {
		t.Fatal("other key removed")
	}
	c.Delete(ctx, "u:2:a")
}
