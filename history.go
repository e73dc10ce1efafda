package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// errMissingUser marks operations invoked without a user identity. These
// refuse to run rather than operating on an undefined subject.
var errMissingUser = errors.New("missing user id")

// historyStore is the remote source of truth for a {date, value} series.
// The reconciler is generic over it — weight and step history share one
// implementation pointed at different tables, and tests substitute fakes.
type historyStore interface {
	List(ctx context.Context, userID int) ([]historyPoint, error)
	Upsert(ctx context.Context, userID int, p historyPoint) error
	ClearExceptEndpoints(ctx context.Context, userID int) error
}

/* ─── Postgres store ─────────────────────────────────────────────────── */

// pgHistoryStore implements historyStore over one history table. The table
// name is fixed at construction (weight_log or step_log), never user input.
type pgHistoryStore struct {
	db    *pgxpool.Pool
	table string
}

func (s *pgHistoryStore) List(ctx context.Context, userID int) ([]historyPoint, error) {
	rows, err := s.db.Query(ctx,
		fmt.Sprintf("SELECT date, value FROM %s WHERE user_id = $1 ORDER BY date ASC", s.table),
		userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[historyPoint])
}

// Upsert writes one point; the UNIQUE(user_id, date) constraint makes a
// same-day write replace in place, matching the reconciler's merge rule.
func (s *pgHistoryStore) Upsert(ctx context.Context, userID int, p historyPoint) error {
	_, err := s.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (user_id, date, value)
		 VALUES (@userID, @date, @value)
		 ON CONFLICT (user_id, date) DO UPDATE SET value = EXCLUDED.value`, s.table),
		pgx.NamedArgs{
			"userID": userID,
			"date":   p.Date.Time.Format("2006-01-02"),
			"value":  p.Value,
		})
	return err
}

// ClearExceptEndpoints deletes every point strictly between the user's first
// and most recent entries.
func (s *pgHistoryStore) ClearExceptEndpoints(ctx context.Context, userID int) error {
	_, err := s.db.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s
		 WHERE user_id = @userID
		   AND date > (SELECT MIN(date) FROM %s WHERE user_id = @userID)
		   AND date < (SELECT MAX(date) FROM %s WHERE user_id = @userID)`,
			s.table, s.table, s.table),
		pgx.NamedArgs{"userID": userID})
	return err
}

/* ─── Reconciler ─────────────────────────────────────────────────────── */

// historyReconciler merges a locally held series with the remote store.
// Local writes are optimistic: the in-memory series reflects an addEntry
// immediately, and a failed remote write keeps the local point while the
// error propagates so the caller can warn the user.
//
// The series map is mutated only by the reconciler itself; callers get
// snapshot copies and every mutation goes through AddEntry/Clear.
type historyReconciler struct {
	mu     sync.Mutex
	store  historyStore
	log    *zap.SugaredLogger
	series map[int][]historyPoint
}

func newHistoryReconciler(store historyStore, log *zap.SugaredLogger) *historyReconciler {
	return &historyReconciler{
		store:  store,
		log:    log,
		series: make(map[int][]historyPoint),
	}
}

// Load refreshes the series from the store and returns a snapshot. Read
// failures degrade: the last-known local series is served if one exists,
// otherwise an empty series — this is a display feature, not a critical path.
//
// When the store has no entry for today but currentValue is known (from the
// profile), a synthetic point dated today is appended, flagged IsTemporary.
// It is display-only, never written to the store, and vanishes on the next
// Load once a real entry for today exists.
func (r *historyReconciler) Load(ctx context.Context, userID int, currentValue *float64, today time.Time) ([]historyPoint, error) {
	if userID <= 0 {
		return nil, errMissingUser
	}

	pts, err := r.store.List(ctx, userID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if err != nil {
		r.log.Warnw("history load failed, serving last known series",
			"user_id", userID, "err", err)
		pts = r.series[userID]
	}

	sortPoints(pts)
	if currentValue != nil && !hasPointOn(pts, today) {
		pts = append(pts, historyPoint{
			Date:        DateOnly{dateOf(today)},
			Value:       *currentValue,
			IsTemporary: true,
		})
	}

	r.series[userID] = pts
	return snapshotPoints(pts), nil
}

// AddEntry records a value for the given day. The in-memory series is updated
// first (replace if a point for that day exists, append otherwise) so callers
// see the change with zero latency; the store write follows. A store failure
// keeps the optimistic local point and returns both the snapshot and the
// error — the caller decides how to surface "may not have synced".
func (r *historyReconciler) AddEntry(ctx context.Context, userID int, value float64, day time.Time) ([]historyPoint, error) {
	if userID <= 0 {
		return nil, errMissingUser
	}

	p := historyPoint{Date: DateOnly{dateOf(day)}, Value: value}

	r.mu.Lock()
	r.series[userID] = replaceOrAppend(r.series[userID], p)
	snap := snapshotPoints(r.series[userID])
	r.mu.Unlock()

	if err := r.store.Upsert(ctx, userID, p); err != nil {
		return snap, fmt.Errorf("history entry not synced: %w", err)
	}
	return snap, nil
}

// Clear removes all points except the first (starting) and most recent
// (current), locally and in the store. Destructive — callers confirm before
// invoking. Store failures propagate.
func (r *historyReconciler) Clear(ctx context.Context, userID int) ([]historyPoint, error) {
	if userID <= 0 {
		return nil, errMissingUser
	}

	r.mu.Lock()
	r.series[userID] = endpointsOnly(r.series[userID])
	snap := snapshotPoints(r.series[userID])
	r.mu.Unlock()

	if err := r.store.ClearExceptEndpoints(ctx, userID); err != nil {
		return snap, err
	}
	return snap, nil
}

// Snapshot returns a copy of the current in-memory series without touching
// the store.
func (r *historyReconciler) Snapshot(userID int) []historyPoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshotPoints(r.series[userID])
}

/* ─── Series helpers ─────────────────────────────────────────────────── */

func sortPoints(pts []historyPoint) {
	sort.Slice(pts, func(i, j int) bool {
		return pts[i].Date.Time.Before(pts[j].Date.Time)
	})
}

func hasPointOn(pts []historyPoint, day time.Time) bool {
	for _, p := range pts {
		if calendarDaysBetween(p.Date.Time, day) == 0 {
			return true
		}
	}
	return false
}

// replaceOrAppend merges p into the series, keeping at most one point per
// calendar day (last write wins) and chronological order.
func replaceOrAppend(pts []historyPoint, p historyPoint) []historyPoint {
	for i := range pts {
		if calendarDaysBetween(pts[i].Date.Time, p.Date.Time) == 0 {
			pts[i] = p
			return pts
		}
	}
	pts = append(pts, p)
	sortPoints(pts)
	return pts
}

// endpointsOnly keeps the first and last points of a sorted series.
func endpointsOnly(pts []historyPoint) []historyPoint {
	if len(pts) <= 2 {
		return pts
	}
	return []historyPoint{pts[0], pts[len(pts)-1]}
}

func snapshotPoints(pts []historyPoint) []historyPoint {
	out := make([]historyPoint, len(pts))
	copy(out, pts)
	return out
}

// deltaSinceStart computes the "amount lost/gained since start" figure:
// initial minus current, one decimal place. Initial prefers the explicit
// starting value and falls back to the series' first point; nil when neither
// exists.
func deltaSinceStart(series []historyPoint, startingValue *float64, currentValue float64) *float64 {
	var initial float64
	switch {
	case startingValue != nil:
		initial = *startingValue
	case len(series) > 0:
		initial = series[0].Value
	default:
		return nil
	}
	d := math.Round((initial-currentValue)*10) / 10
	return &d
}
