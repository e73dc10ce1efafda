package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// xpAwards maps a logged action to the XP it earns. Unknown actions earn
// nothing.
var xpAwards = map[string]int{
	"food_log":     10,
	"exercise_log": 15,
	"weight_log":   5,
}

// levelThresholds holds the cumulative XP needed to reach each level; index i
// is level i+1. Level and rank are derived from total XP on every read, never
// stored — only the XP total persists.
var levelThresholds = []int{
	0, 100, 250, 450, 700, 1000, 1350, 1750,
	2200, 2700, 3250, 3850, 4500, 5200, 6000,
}

// rankNames parallels levelThresholds: index i is the rank title of level i+1.
var rankNames = []string{
	"Beginner", "Novice", "Amateur", "Intermediate", "Advanced",
	"Expert", "Master", "Elite", "Champion", "Legend",
	"Mythic", "Immortal", "Divine", "Transcendent", "Omnipotent",
}

// levelForXP returns the highest level whose threshold the XP total meets.
// Never below 1, never above the last defined level.
func levelForXP(xp int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if xp >= threshold {
			level = i + 1
		}
	}
	return level
}

// rankForLevel returns the rank title for a level, clamped to the defined range.
func rankForLevel(level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(rankNames) {
		level = len(rankNames)
	}
	return rankNames[level-1]
}

// xpToNextLevel returns how much XP remains until the next level, 0 at the
// top level.
func xpToNextLevel(xp int) int {
	level := levelForXP(xp)
	if level >= len(levelThresholds) {
		return 0
	}
	return levelThresholds[level] - xp
}

/* ─── Persistence + handlers ─────────────────────────────────────────── */

// progressResponse is the response for GET /api/progress.
type progressResponse struct {
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	Rank          string `json:"rank"`
	XPToNextLevel int    `json:"xp_to_next_level"`
}

// awardXP credits the XP for an action to the user's running total.
// Best-effort: progress is a reward layer on top of logging, so a failed
// award is logged and swallowed rather than failing the log write it rode on.
func (h *Handler) awardXP(c *gin.Context, userID int, action string) {
	amount := xpAwards[action]
	if amount <= 0 {
		return
	}

	var before, after int
	err := h.db.QueryRow(c,
		`INSERT INTO user_progress (user_id, xp) VALUES (@userID, @amount)
		 ON CONFLICT (user_id) DO UPDATE SET xp = user_progress.xp + @amount
		 RETURNING xp - @amount, xp`,
		pgx.NamedArgs{"userID": userID, "amount": amount}).Scan(&before, &after)
	if err != nil {
		h.log.Warnw("xp award failed", "user_id", userID, "action", action, "err", err)
		return
	}

	if levelForXP(after) > levelForXP(before) {
		h.log.Infow("level up", "user_id", userID, "level", levelForXP(after), "xp", after)
	}
	h.events.Broadcast("progress")
}

// getProgress returns the user's XP total with its derived level and rank.
// A user who has never earned XP gets the level-1 baseline, not a 404.
// GET /api/progress.
func (h *Handler) getProgress(c *gin.Context) {
	userID := c.GetInt("user_id")

	var xp int
	err := h.db.QueryRow(c,
		"SELECT xp FROM user_progress WHERE user_id = $1", userID).Scan(&xp)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusInternalServerError, "failed to fetch progress")
		return
	}

	level := levelForXP(xp)
	c.JSON(http.StatusOK, progressResponse{
		XP:            xp,
		Level:         level,
		Rank:          rankForLevel(level),
		XPToNextLevel: xpToNextLevel(xp),
	})
}
