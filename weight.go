package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// weightChangeSinceStart derives the change-since-start figure for a weight
// series response. Every weight endpoint builds its response through this so
// a write and the read that follows can never disagree on the figure.
func weightChangeSinceStart(points []historyPoint, startingWeight *float64) *float64 {
	if len(points) == 0 {
		return nil
	}
	return deltaSinceStart(points, startingWeight, points[len(points)-1].Value)
}

// lookupWeightProfile fetches the profile fields the weight endpoints care
// about. Best-effort: a missing or unreadable profile just means no synthetic
// today point and no explicit starting weight.
func (h *Handler) lookupWeightProfile(c *gin.Context, userID int) (currentWeight, startingWeight *float64) {
	profile, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			h.log.Warnw("profile lookup failed for weight history", "user_id", userID, "err", err)
		}
		return nil, nil
	}
	return profile.WeightKG, profile.StartingWeightKG
}

// getWeightHistory returns the user's weight series, reconciled against the
// store. When today has no real entry but the profile knows a current weight,
// the series ends with a temporary synthetic point for today.
// GET /api/weight-history.
func (h *Handler) getWeightHistory(c *gin.Context) {
	userID := c.GetInt("user_id")

	currentWeight, startingWeight := h.lookupWeightProfile(c, userID)

	points, err := h.weights.Load(c.Request.Context(), userID, currentWeight, time.Now())
	if err != nil {
		if errors.Is(err, errMissingUser) {
			apiError(c, http.StatusBadRequest, "missing user id")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to load weight history")
		return
	}

	c.JSON(http.StatusOK, historyResponse{
		Points:           points,
		Synced:           true,
		ChangeSinceStart: weightChangeSinceStart(points, startingWeight),
	})
}

// addWeightEntry records a weight for a day (default today). The local series
// updates optimistically before the store write; if the write fails the entry
// is kept locally and the response says so instead of pretending it synced.
// POST /api/weight-history. Body: { "value": 81.4, "date"?: "YYYY-MM-DD" }.
func (h *Handler) addWeightEntry(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body addHistoryEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Value == nil {
		apiError(c, http.StatusBadRequest, "value is required")
		return
	}
	if *body.Value <= 0 || *body.Value > 700 {
		apiError(c, http.StatusBadRequest, "value must be between 0 and 700")
		return
	}

	day := time.Now()
	if body.Date != nil {
		t, err := time.Parse("2006-01-02", *body.Date)
		if err != nil {
			apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		day = t
	}

	points, err := h.weights.AddEntry(c.Request.Context(), userID, *body.Value, day)
	if err != nil && errors.Is(err, errMissingUser) {
		apiError(c, http.StatusBadRequest, "missing user id")
		return
	}

	_, startingWeight := h.lookupWeightProfile(c, userID)
	resp := historyResponse{
		Points:           points,
		Synced:           err == nil,
		ChangeSinceStart: weightChangeSinceStart(points, startingWeight),
	}

	if err != nil {
		// The optimistic local entry is kept; the caller must be told the
		// remote write may not have landed.
		h.log.Warnw("weight entry not synced", "user_id", userID, "err", err)
		resp.Warning = "entry saved locally but not synced"
		c.JSON(http.StatusAccepted, resp)
		return
	}

	h.awardXP(c, userID, "weight_log")
	h.events.Broadcast("weight")
	c.JSON(http.StatusCreated, resp)
}

// clearWeightHistory removes all weight points except the starting and most
// recent entries. Destructive — the client confirms before calling.
// DELETE /api/weight-history.
func (h *Handler) clearWeightHistory(c *gin.Context) {
	userID := c.GetInt("user_id")

	points, err := h.weights.Clear(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errMissingUser) {
			apiError(c, http.StatusBadRequest, "missing user id")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to clear weight history")
		return
	}

	h.events.Broadcast("weight")
	c.JSON(http.StatusOK, historyResponse{Points: points, Synced: true})
}
