package main

import (
	"testing"
	"time"
)

/* ─── nextLocalMidnight tests ────────────────────────────────────────── */

// TestNextLocalMidnight verifies the returned instant is the following
// midnight in the same location, across month and year boundaries.
func TestNextLocalMidnight(t *testing.T) {
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"mid-afternoon",
			time.Date(2026, time.March, 10, 15, 30, 0, 0, time.Local),
			time.Date(2026, time.March, 11, 0, 0, 0, 0, time.Local)},
		{"one second before midnight",
			time.Date(2026, time.March, 10, 23, 59, 59, 0, time.Local),
			time.Date(2026, time.March, 11, 0, 0, 0, 0, time.Local)},
		{"exactly midnight rolls to next day",
			time.Date(2026, time.March, 10, 0, 0, 0, 0, time.Local),
			time.Date(2026, time.March, 11, 0, 0, 0, 0, time.Local)},
		{"year boundary",
			time.Date(2025, time.December, 31, 18, 0, 0, 0, time.Local),
			time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := nextLocalMidnight(tc.now)
			if !got.Equal(tc.want) {
				t.Errorf("nextLocalMidnight = %v, want %v", got, tc.want)
			}
			if got.Location() != tc.now.Location() {
				t.Errorf("location = %v, want %v", got.Location(), tc.now.Location())
			}
		})
	}
}

/* ─── Scheduler lifecycle tests ──────────────────────────────────────── */

// almostMidnight returns a clock stuck a few milliseconds before midnight so
// scheduler tests fire quickly without waiting a day.
func almostMidnight() time.Time {
	return time.Date(2026, time.March, 10, 23, 59, 59, int(999*time.Millisecond), time.Local)
}

// TestMidnightScheduler_FiresAndRearms verifies the callback fires at the
// (simulated) midnight and the scheduler arms itself again afterwards.
func TestMidnightScheduler_FiresAndRearms(t *testing.T) {
	fired := make(chan struct{}, 2)
	m := newMidnightScheduler(func() { fired <- struct{}{} })
	m.now = almostMidnight
	m.Start()
	defer m.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback did not fire")
	}

	// The fake clock is still just before midnight, so the re-armed timer
	// fires again almost immediately.
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not re-arm after firing")
	}
}

// TestMidnightScheduler_StopCancels verifies Stop prevents the pending firing
// so callbacks never run against a torn-down owner.
func TestMidnightScheduler_StopCancels(t *testing.T) {
	fired := make(chan struct{}, 1)
	m := newMidnightScheduler(func() { fired <- struct{}{} })
	m.now = almostMidnight
	m.Start()
	m.Stop()

	select {
	case <-fired:
		t.Fatal("callback fired after Stop")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestMidnightScheduler_StopIdempotent verifies double-Stop and Stop-before-
// Start don't panic.
func TestMidnightScheduler_StopIdempotent(t *testing.T) {
	m := newMidnightScheduler(func() {})
	m.Stop()
	m.Start()
	m.Stop()
	m.Stop()
}
