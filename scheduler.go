package main

import (
	"sync"
	"time"
)

// nextLocalMidnight returns the first midnight after now, in now's location.
// time.Date normalizes day+1 across month/year boundaries and DST changes.
func nextLocalMidnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}

// midnightScheduler fires a callback once per local midnight and re-arms
// itself for the following one. Stop is idempotent and cancels the pending
// timer so callbacks never fire against a torn-down owner.
//
// The callback only decides *when* things happen; the date logic it triggers
// (streak checks, day rollover notifications) lives elsewhere and stays
// timer-agnostic.
type midnightScheduler struct {
	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	fn      func()
	now     func() time.Time // injectable for tests
}

func newMidnightScheduler(fn func()) *midnightScheduler {
	return &midnightScheduler{fn: fn, now: time.Now}
}

// Start arms the timer for the next local midnight. Calling Start on an
// already-started scheduler re-arms it.
func (m *midnightScheduler) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = false
	m.armLocked()
}

// armLocked schedules the next firing. Caller must hold m.mu.
func (m *midnightScheduler) armLocked() {
	if m.timer != nil {
		m.timer.Stop()
	}
	now := m.now()
	m.timer = time.AfterFunc(nextLocalMidnight(now).Sub(now), m.fire)
}

// fire runs the callback and re-arms unless stopped in the meantime.
func (m *midnightScheduler) fire() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	m.fn()

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.stopped {
		m.armLocked()
	}
}

// Stop cancels the pending timer. Safe to call multiple times and safe to
// call concurrently with a firing callback.
func (m *midnightScheduler) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
