package main

import (
	"testing"
	"time"
)

// fixedClock returns a now func pinned to *at so tests advance time by
// reassigning the pointee instead of sleeping.
func fixedClock(at *time.Time) func() time.Time {
	return func() time.Time { return *at }
}

// TestFreshnessCache_FreshHit verifies a payload younger than the TTL is
// served.
func TestFreshnessCache_FreshHit(t *testing.T) {
	now := day(2026, time.March, 10)
	c := newFreshnessCache[string](5 * time.Minute)
	c.now = fixedClock(&now)

	c.Set("k", "v1")
	now = now.Add(4 * time.Minute)

	got, ok := c.Get("k")
	if !ok || got != "v1" {
		t.Errorf("Get = %q, %v; want fresh hit v1", got, ok)
	}
}

// TestFreshnessCache_ExpiresAtTTL verifies an entry exactly at the TTL is
// already a miss, while GetStale still serves it.
func TestFreshnessCache_ExpiresAtTTL(t *testing.T) {
	now := day(2026, time.March, 10)
	c := newFreshnessCache[string](5 * time.Minute)
	c.now = fixedClock(&now)

	c.Set("k", "v1")
	now = now.Add(5 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Error("Get returned a hit at TTL boundary, want miss")
	}
	if got, ok := c.GetStale("k"); !ok || got != "v1" {
		t.Errorf("GetStale = %q, %v; want stale v1", got, ok)
	}
}

// TestFreshnessCache_SetRefreshesAge verifies a rewrite restarts the clock.
func TestFreshnessCache_SetRefreshesAge(t *testing.T) {
	now := day(2026, time.March, 10)
	c := newFreshnessCache[int](5 * time.Minute)
	c.now = fixedClock(&now)

	c.Set("k", 1)
	now = now.Add(4 * time.Minute)
	c.Set("k", 2)
	now = now.Add(4 * time.Minute)

	got, ok := c.Get("k")
	if !ok || got != 2 {
		t.Errorf("Get = %d, %v; want refreshed hit 2", got, ok)
	}
}

// TestFreshnessCache_Invalidate verifies a dropped entry misses both Get and
// GetStale.
func TestFreshnessCache_Invalidate(t *testing.T) {
	c := newFreshnessCache[string](5 * time.Minute)
	c.Set("k", "v1")
	c.Invalidate("k")

	if _, ok := c.Get("k"); ok {
		t.Error("Get hit after Invalidate")
	}
	if _, ok := c.GetStale("k"); ok {
		t.Error("GetStale hit after Invalidate")
	}
}

// TestFreshnessCache_DefaultTTL verifies a non-positive TTL falls back to the
// 5-minute default.
func TestFreshnessCache_DefaultTTL(t *testing.T) {
	c := newFreshnessCache[string](0)
	if c.ttl != defaultCacheTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, defaultCacheTTL)
	}
}

// TestFreshnessCache_MissOnUnknownKey verifies both read paths on an empty
// cache.
func TestFreshnessCache_MissOnUnknownKey(t *testing.T) {
	c := newFreshnessCache[[]featureRequest](time.Minute)
	if _, ok := c.Get("nope"); ok {
		t.Error("Get hit on unknown key")
	}
	if _, ok := c.GetStale("nope"); ok {
		t.Error("GetStale hit on unknown key")
	}
}
