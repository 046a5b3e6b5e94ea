package mem

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	ptime "liverkpi/internal/platform/time"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

var _ ptime.Clock = (*stepClock)(nil)

func TestCache_GetSetExpiry(t *testing.T) {
	clk := &stepClock{now: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	c := New(Config{Clock: clk, DefaultTTL: time.Minute})
	ctx := context.Background()

	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatalf("empty cache should miss")
	}
	_ = c.Set(ctx, "a", []byte("one"), 0)
	_ = c.Set(ctx, "b", []byte("two"), 10*time.Minute)

	clk.Advance(59 * time.Second)
	if v, ok, _ := c.Get(ctx, "a"); !ok || string(v) != "one" {
		t.Fatalf("a before expiry = %q,%v", v, ok)
	}
	clk.Advance(time.Second)
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Fatalf("a should expire at exactly its ttl")
	}
	if _, ok, _ := c.Get(ctx, "b"); !ok {
		t.Fatalf("b should still be live")
	}
	if c.Len() != 1 {
		t.Fatalf("expired entry should be dropped on read, len=%d", c.Len())
	}
}

func TestCache_CopiesValues(t *testing.T) {
	c := New(Config{})
	ctx := context.Background()

	in := []byte("abc")
	_ = c.Set(ctx, "k", in, 0)
	in[0] = 'X'

	out, _, _ := c.Get(ctx, "k")
	if string(out) != "abc" {
		t.Fatalf("stored value aliased caller slice: %q", out)
	}
	out[1] = 'Y'
	again, _, _ := c.Get(ctx, "k")
	if string(again) != "abc" {
		t.Fatalf("returned value aliased store: %q", again)
	}
}

func TestCache_EvictsSoonestExpiry(t *testing.T) {
	clk := &stepClock{now: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	c := New(Config{Clock: clk, MaxEntries: 2})
	ctx := context.Background()

	_ = c.Set(ctx, "long", []byte("1"), time.Hour)
	_ = c.Set(ctx, "short", []byte("2"), time.Minute)
	_ = c.Set(ctx, "new", []byte("3"), time.Hour)

	if c.Len() != 2 {
		t.Fatalf("len = %d, want 2", c.Len())
	}
	if _, ok, _ := c.Get(ctx, "short"); ok {
		t.Fatalf("entry closest to expiry should be evicted")
	}
	if _, ok, _ := c.Get(ctx, "long"); !ok {
		t.Fatalf("long-lived entry should survive")
	}

	// overwriting an existing key never evicts
	_ = c.Set(ctx, "long", []byte("1b"), time.Hour)
	if c.Len() != 2 {
		t.Fatalf("overwrite changed len to %d", c.Len())
	}
}

func TestCache_EvictsExpiredFirst(t *testing.T) {
	clk := &stepClock{now: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)}
	c := New(Config{Clock: clk, MaxEntries: 3})
	ctx := context.Background()

	_ = c.Set(ctx, "a", nil, time.Second)
	_ = c.Set(ctx, "b", nil, time.Second)
	_ = c.Set(ctx, "c", nil, time.Hour)
	clk.Advance(2 * time.Second)
	_ = c.Set(ctx, "d", nil, time.Hour)

	if c.Len() != 2 {
		t.Fatalf("expired entries should be swept, len=%d", c.Len())
	}
}

func TestCache_Concurrent(t *testing.T) {
	c := New(Config{MaxEntries: 16})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 100 {
				k := fmt.Sprintf("k%d", (i*j)%32)
				_ = c.Set(ctx, k, []byte(k), time.Minute)
				_, _, _ = c.Get(ctx, k)
			}
		}(i)
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Fatalf("cap exceeded: %d", c.Len())
	}
}
