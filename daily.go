package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validItemTypes is the set of allowed values for the food log item type.
// Reject unknown values with 400 rather than letting the DB return a cryptic 500.
var validItemTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
	"exercise":  true,
}

// getDailySummary returns the day's items, consumed totals, current goals,
// and the computed aggregate view.
// GET /api/daily?date=YYYY-MM-DD (defaults to today).
//
// The three aggregator inputs (goals, totals, exercise) update independently
// upstream; this endpoint recomputes the view from whatever is currently
// known on every call rather than persisting any of it.
func (h *Handler) getDailySummary(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))

	// Validate date format before querying — an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	items, err := queryMany[foodLogItem](h.db, c,
		`SELECT * FROM food_log_items
		 WHERE user_id = @userID AND date = @date
		 ORDER BY created_at`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch items")
		return
	}
	// Ensure items is an empty array (not null) in JSON
	if items == nil {
		items = []foodLogItem{}
	}

	// A user without a profile row still gets a summary: computeGoals on an
	// empty profile yields the default target set.
	profile, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		apiError(c, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	goals := computeGoals(&profile)

	// Sum consumed totals and exercise calories. Exercise items are stored
	// with positive calories; the type field is the source of truth for
	// direction (food consumes the budget, exercise raises it).
	var totals dailyTotals
	var exerciseCalories int
	for _, item := range items {
		if item.Type == "exercise" {
			exerciseCalories += item.Calories
			continue
		}
		totals.Calories += item.Calories
		if item.ProteinG != nil {
			totals.ProteinG += *item.ProteinG
		}
		if item.CarbsG != nil {
			totals.CarbsG += *item.CarbsG
		}
		if item.FatG != nil {
			totals.FatG += *item.FatG
		}
	}

	c.JSON(http.StatusOK, dailySummary{
		Date:             date,
		Goals:            goals,
		Totals:           totals,
		ExerciseCalories: exerciseCalories,
		View:             aggregateDay(goals, totals, exerciseCalories),
		Items:            items,
	})
}

// createFoodLogItem inserts a new food log entry.
// POST /api/food-log. Defaults date to today if omitted.
func (h *Handler) createFoodLogItem(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body createFoodLogItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.ItemName == "" {
		apiError(c, http.StatusBadRequest, "item_name is required")
		return
	}
	if !validItemTypes[body.Type] {
		apiError(c, http.StatusBadRequest, "type must be one of: breakfast, lunch, dinner, snack, exercise")
		return
	}
	if body.Calories < 0 {
		apiError(c, http.StatusBadRequest, "calories must not be negative")
		return
	}
	if body.Date == "" {
		body.Date = time.Now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", body.Date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	item, err := queryOne[foodLogItem](h.db, c,
		`INSERT INTO food_log_items (user_id, date, item_name, type, calories, protein_g, carbs_g, fat_g)
		 VALUES (@userID, @date, @itemName, @type, @calories, @proteinG, @carbsG, @fatG)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "date": body.Date, "itemName": body.ItemName,
			"type": body.Type, "calories": body.Calories,
			"proteinG": body.ProteinG, "carbsG": body.CarbsG, "fatG": body.FatG,
		})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to create item")
		return
	}

	action := "food_log"
	if body.Type == "exercise" {
		action = "exercise_log"
	}
	h.awardXP(c, userID, action)

	h.events.Broadcast("food-log")
	c.JSON(http.StatusCreated, item)
}

// deleteFoodLogItem removes a food log entry. Returns 204 on success.
// DELETE /api/food-log/:id. Ownership is enforced by matching both id and user_id.
func (h *Handler) deleteFoodLogItem(c *gin.Context) {
	userID := c.GetInt("user_id")
	id := c.Param("id")

	result, err := h.db.Exec(c,
		"DELETE FROM food_log_items WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "item not found")
		return
	}

	h.events.Broadcast("food-log")
	c.Status(http.StatusNoContent)
}
