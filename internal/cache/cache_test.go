// DCS Dashboard - Industrial Tag Monitoring Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dcsdash

package cache

import (
	"sync"
	"testing"
	"time"
)

// fakeNow is a controllable clock.
type fakeNow struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeNow) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeNow) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *fakeNow) {
	t.Helper()
	clock := &fakeNow{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := New("test", ttl)
	c.now = clock.Now
	t.Cleanup(c.Close)
	return c, clock
}

func TestCache_SetGet(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, time.Minute)
	c.Set("k", 42)

	v, ok := c.Get("k")
	if !ok || v.(int) != 42 {
		t.Fatalf("Get = %v,%v, want 42,true", v, ok)
	}
	if _, ok := c.Get("missing"); ok {
		t.Error("missing key reported present")
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.TotalKeys != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestCache_Expiry(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(t, time.Minute)
	c.Set("k", "v")

	clock.Advance(59 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry expired early")
	}

	clock.Advance(2 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("entry survived its TTL")
	}
	if st := c.Stats(); st.Evictions != 1 || st.TotalKeys != 0 {
		t.Errorf("stats = %+v", st)
	}
}

func TestCache_GetEntryStoredAt(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(t, time.Hour)
	stored := clock.Now()
	c.Set("k", "v")
	clock.Advance(time.Minute)

	e, ok := c.GetEntry("k")
	if !ok || !e.StoredAt.Equal(stored) {
		t.Errorf("GetEntry = %+v,%v, want StoredAt %v", e, ok, stored)
	}
}

func TestCache_CleanupRemovesExpired(t *testing.T) {
	t.Parallel()

	c, clock := newTestCache(t, time.Minute)
	c.Set("short", 1)
	c.SetWithTTL("long", 2, time.Hour)

	clock.Advance(2 * time.Minute)
	c.cleanup()

	if _, ok := c.Get("long"); !ok {
		t.Error("long-lived entry was swept")
	}
	st := c.Stats()
	if st.Evictions != 1 || st.TotalKeys != 1 {
		t.Errorf("stats = %+v", st)
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Delete left the entry")
	}
	c.Clear()
	if _, ok := c.Get("b"); ok {
		t.Error("Clear left the entry")
	}
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set("k", i)
				c.Get("k")
			}
		}(i)
	}
	wg.Wait()
	c.Close()
	c.Close()
}
