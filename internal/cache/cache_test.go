package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestCache(size int, ttl time.Duration) (*LRUCache[int64, string], *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int64, string](size, ttl)
	c.now = clock.now
	return c, clock
}

func TestLRUCache_Expiry(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set(1, "alice")

	if v, ok := c.Get(1); !ok || v != "alice" {
		t.Fatalf("Get(1) = %q, %v", v, ok)
	}

	clock.t = clock.t.Add(time.Minute + time.Second)
	if _, ok := c.Get(1); ok {
		t.Error("entry should have expired")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0", c.Size())
	}
}

func TestLRUCache_EvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Minute)
	c.Set(1, "a")
	c.Set(2, "b")
	c.Get(1)
	c.Set(3, "c")

	if _, ok := c.Get(2); ok {
		t.Error("key 2 should have been evicted")
	}
	for _, k := range []int64{1, 3} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("key %d should be cached", k)
		}
	}
}

func TestLRUCache_SetRefreshesAndDelete(t *testing.T) {
	c, clock := newTestCache(2, time.Minute)
	c.Set(1, "a")
	clock.t = clock.t.Add(50 * time.Second)
	c.Set(1, "b")
	clock.t = clock.t.Add(50 * time.Second)

	if v, ok := c.Get(1); !ok || v != "b" {
		t.Errorf("Get(1) = %q, %v, want refreshed value", v, ok)
	}
	c.Delete(1)
	if _, ok := c.Get(1); ok {
		t.Error("Delete should remove the key")
	}
}

func TestManager_CleanNow(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)
	c.Set(1, "a")
	c.Set(2, "b")
	clock.t = clock.t.Add(2 * time.Minute)
	c.Set(3, "c")

	m := NewManager()
	m.Register(c)
	if n := m.CleanNow(); n != 2 {
		t.Errorf("CleanNow() = %d, want 2", n)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}

	m.StartCleanup(time.Hour)
	m.Stop()
	m.Stop()
}

func TestManager_StopWithoutStart(t *testing.T) {
	m := NewManager()
	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked without a running cleanup")
	}
}
