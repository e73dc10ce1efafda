package main

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// probeTimeout bounds availability checks. A probe that hangs is a failure,
// not indefinite pending.
const probeTimeout = 5 * time.Second

// refreshGuard prevents overlapping runs of a refresh operation that can be
// triggered both by a user action and an automatic trigger (focus, timer).
// The redundant concurrent invocation is skipped, not queued — two racing
// writes to the same state are worse than one slightly stale read.
type refreshGuard struct {
	inFlight atomic.Bool
}

// Do runs fn unless another run is already in flight. Returns whether fn ran.
func (g *refreshGuard) Do(fn func()) bool {
	if !g.inFlight.CompareAndSwap(false, true) {
		return false
	}
	defer g.inFlight.Store(false)
	fn()
	return true
}

// probeDatabase reports whether the database answers within probeTimeout.
// Used at startup and by the health endpoint; a timeout counts as down.
func probeDatabase(ctx context.Context, pool *pgxpool.Pool) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	return pool.Ping(ctx) == nil
}
