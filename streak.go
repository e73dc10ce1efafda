package main

import (
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// streakOutcome classifies what checkAndUpdateStreak did with a date.
type streakOutcome int

const (
	streakStarted         streakOutcome = iota // first ever credit
	streakAlreadyCredited                      // same day again, no change
	streakExtended                             // consecutive day, count += 1
	streakReset                                // gap > 1 day, back to 1
	streakAnomalous                            // today before last credit, no change
)

// dateOf truncates t to its calendar date in t's own location. Streak logic
// compares dates, not instants — "day" boundaries are the user's local
// midnight, not elapsed 24-hour windows.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// calendarDaysBetween returns the whole-day gap from a to b. Rounding absorbs
// the one-hour skew a DST transition introduces between local midnights.
func calendarDaysBetween(a, b time.Time) int {
	return int(math.Round(dateOf(b).Sub(dateOf(a)).Hours() / 24))
}

// checkAndUpdateStreak applies today's date to the streak state machine and
// returns the next state. Pure date bookkeeping: whether today has qualifying
// activity is the caller's job (hasActivityForToday), evaluated before this
// runs.
//
// gap 0: already credited, idempotent no-op. gap 1: streak continues. gap > 1:
// streak broken, restart at 1. gap < 0 (clock skew, backdated data): no-op —
// the streak never moves backward.
func checkAndUpdateStreak(s streakState, today time.Time) (streakState, streakOutcome) {
	if s.LastCreditedDate == nil || s.LastCreditedDate.Time.IsZero() {
		return streakState{Count: 1, LastCreditedDate: &DateOnly{dateOf(today)}}, streakStarted
	}

	gap := calendarDaysBetween(s.LastCreditedDate.Time, today)
	switch {
	case gap == 0:
		return s, streakAlreadyCredited
	case gap == 1:
		return streakState{Count: s.Count + 1, LastCreditedDate: &DateOnly{dateOf(today)}}, streakExtended
	case gap > 1:
		return streakState{Count: 1, LastCreditedDate: &DateOnly{dateOf(today)}}, streakReset
	default:
		return s, streakAnomalous
	}
}

/* ─── Persistence + handlers ─────────────────────────────────────────── */

// loadStreak reads the user's streak row. A missing row is the Idle state,
// not an error — returns a zero streakState.
func loadStreak(h *Handler, c *gin.Context, userID int) (streakState, error) {
	s, err := queryOne[streakState](h.db, c,
		"SELECT count, last_credited_date FROM activity_streaks WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return streakState{}, nil
		}
		return streakState{}, err
	}
	return s, nil
}

// hasActivityForToday reports whether the user logged anything today.
// Read-only — the streak transition itself never inspects activity.
func (h *Handler) hasActivityForToday(c *gin.Context, userID int, today time.Time) (bool, error) {
	var n int
	err := h.db.QueryRow(c,
		"SELECT COUNT(*) FROM food_log_items WHERE user_id = $1 AND date = $2",
		userID, dateOf(today).Format("2006-01-02")).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// getStreak returns the current streak state.
// GET /api/streak. A user with no streak row gets count 0.
func (h *Handler) getStreak(c *gin.Context) {
	userID := c.GetInt("user_id")

	s, err := loadStreak(h, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch streak")
		return
	}

	credited := s.LastCreditedDate != nil &&
		calendarDaysBetween(s.LastCreditedDate.Time, time.Now()) == 0
	c.JSON(http.StatusOK, streakResponse{
		Count:            s.Count,
		LastCreditedDate: s.LastCreditedDate,
		CreditedToday:    credited,
	})
}

// checkStreak evaluates today's activity and advances the streak if due.
// POST /api/streak/check. Safe to call any number of times per day — the
// transition is idempotent. Called by clients on screen focus and after the
// midnight rollover notification.
func (h *Handler) checkStreak(c *gin.Context) {
	userID := c.GetInt("user_id")
	today := time.Now()

	active, err := h.hasActivityForToday(c, userID, today)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to check activity")
		return
	}

	s, err := loadStreak(h, c, userID)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch streak")
		return
	}

	if !active {
		// No qualifying activity yet — report state without touching it.
		c.JSON(http.StatusOK, streakResponse{Count: s.Count, LastCreditedDate: s.LastCreditedDate})
		return
	}

	next, outcome := checkAndUpdateStreak(s, today)
	switch outcome {
	case streakAnomalous:
		// Backdated credit date (multi-device clock drift). Expected edge
		// case, not a failure — log it and leave the state alone.
		h.log.Warnw("streak date anomaly, ignoring",
			"user_id", userID,
			"last_credited", s.LastCreditedDate.Time.Format("2006-01-02"))
	case streakAlreadyCredited:
		// Nothing to persist.
	default:
		_, err := h.db.Exec(c,
			`INSERT INTO activity_streaks (user_id, count, last_credited_date)
			 VALUES (@userID, @count, @lastCredited)
			 ON CONFLICT (user_id) DO UPDATE
			 SET count = EXCLUDED.count, last_credited_date = EXCLUDED.last_credited_date`,
			pgx.NamedArgs{
				"userID":       userID,
				"count":        next.Count,
				"lastCredited": next.LastCreditedDate.Time.Format("2006-01-02"),
			})
		if err != nil {
			apiError(c, http.StatusInternalServerError, "failed to save streak")
			return
		}
		h.events.Broadcast("streak")
	}

	c.JSON(http.StatusOK, streakResponse{
		Count:            next.Count,
		LastCreditedDate: next.LastCreditedDate,
		CreditedToday:    outcome != streakAnomalous,
	})
}
