package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// getStepHistory returns the user's daily step series. Steps have no
// profile-derived "current value", so no synthetic today point is added —
// the series is exactly what has been logged.
// GET /api/step-history.
func (h *Handler) getStepHistory(c *gin.Context) {
	userID := c.GetInt("user_id")

	points, err := h.steps.Load(c.Request.Context(), userID, nil, time.Now())
	if err != nil {
		if errors.Is(err, errMissingUser) {
			apiError(c, http.StatusBadRequest, "missing user id")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to load step history")
		return
	}

	c.JSON(http.StatusOK, historyResponse{Points: points, Synced: true})
}

// addStepEntry records a step count for a day (default today), replacing any
// existing entry for that day.
// POST /api/step-history. Body: { "value": 10432, "date"?: "YYYY-MM-DD" }.
func (h *Handler) addStepEntry(c *gin.Context) {
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
	if *body.Value < 0 || *body.Value != float64(int(*body.Value)) {
		apiError(c, http.StatusBadRequest, "value must be a non-negative whole number")
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

	points, err := h.steps.AddEntry(c.Request.Context(), userID, *body.Value, day)
	if err != nil {
		if errors.Is(err, errMissingUser) {
			apiError(c, http.StatusBadRequest, "missing user id")
			return
		}
		h.log.Warnw("step entry not synced", "user_id", userID, "err", err)
		c.JSON(http.StatusAccepted, historyResponse{
			Points:  points,
			Synced:  false,
			Warning: "entry saved locally but not synced",
		})
		return
	}

	h.events.Broadcast("steps")
	c.JSON(http.StatusCreated, historyResponse{Points: points, Synced: true})
}

// clearStepHistory removes all step points except the first and most recent.
// DELETE /api/step-history.
func (h *Handler) clearStepHistory(c *gin.Context) {
	userID := c.GetInt("user_id")

	points, err := h.steps.Clear(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, errMissingUser) {
			apiError(c, http.StatusBadRequest, "missing user id")
			return
		}
		apiError(c, http.StatusInternalServerError, "failed to clear step history")
		return
	}

	h.events.Broadcast("steps")
	c.JSON(http.StatusOK, historyResponse{Points: points, Synced: true})
}
