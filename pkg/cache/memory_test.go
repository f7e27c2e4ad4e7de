package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type payload struct {
	Symbol string  `json:"symbol"`
	Score  int     `json:"score"`
	Ratio  float64 `json:"ratio"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	in := payload{Symbol: "600519", Score: 85, Ratio: 2.4}
	if err := c.Set(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	if err := c.Get(ctx, "k", &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if out != in {
		t.Fatalf("round trip: got %+v, want %+v", out, in)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()

	var out payload
	err := c.Get(context.Background(), "absent", &out)
	if !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("got %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", payload{Symbol: "x"}, time.Nanosecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	var out payload
	if err := c.Get(ctx, "k", &out); !errors.Is(err, ErrCacheMiss) {
		t.Fatalf("expired key: got %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheDeleteAndExists(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", payload{Symbol: "x"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err := c.Exists(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("exists: %v %v", ok, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, err = c.Exists(ctx, "k")
	if err != nil || ok {
		t.Fatalf("exists after delete: %v %v", ok, err)
	}
}

func TestMemoryCacheLRUEviction(t *testing.T) {
	c := NewMemoryCache(WithMemoryMaxSize(2))
	ctx := context.Background()

	if err := c.Set(ctx, "a", 1, time.Minute); err != nil {
		t.Fatalf("set a: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if err := c.Set(ctx, "b", 2, time.Minute); err != nil {
		t.Fatalf("set b: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	// Touch "a" so "b" becomes the LRU entry.
	var v int
	if err := c.Get(ctx, "a", &v); err != nil {
		t.Fatalf("get a: %v", err)
	}
	time.Sleep(2 * time.Millisecond)

	if err := c.Set(ctx, "c", 3, time.Minute); err != nil {
		t.Fatalf("set c: %v", err)
	}

	if ok, _ := c.Exists(ctx, "b"); ok {
		t.Fatalf("LRU entry must be evicted")
	}
	if ok, _ := c.Exists(ctx, "a"); !ok {
		t.Fatalf("recently used entry must survive")
	}
}
