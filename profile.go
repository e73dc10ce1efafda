package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// validGenders gates the gender column. The value picks the BMR constant and
// the calorie floor, so an unknown value would silently skew every target.
var validGenders = map[string]bool{
	"male":   true,
	"female": true,
}

// validWeightGoals is the set of accepted weight_goal values: the six named
// adjustment tiers plus maintain.
var validWeightGoals = map[string]bool{
	"lose_light":      true,
	"lose_moderate":   true,
	"lose_aggressive": true,
	"maintain":        true,
	"gain_light":      true,
	"gain_moderate":   true,
	"gain_aggressive": true,
}

// getProfile returns the authenticated user's profile with freshly computed
// nutrition goals. Goals are derived on every read, never stored — a stale
// persisted copy could disagree with the profile it came from.
// GET /api/profile.
func (h *Handler) getProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	p, err := queryOne[userProfile](h.db, c,
		"SELECT * FROM user_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "profile not found")
		return
	}

	populateComputedGoals(&p)
	c.JSON(http.StatusOK, p)
}

// patchProfile updates only the provided profile fields. Pointer fields in
// the request body distinguish "not provided" from zero — only non-nil fields
// get written. Validation happens before any write: malformed values are
// user-correctable errors, never silently coerced.
// PATCH /api/profile.
func (h *Handler) patchProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body patchProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Gender != nil && !validGenders[*body.Gender] {
		apiError(c, http.StatusBadRequest, "gender must be one of: male, female")
		return
	}
	if body.ActivityLevel != nil {
		if _, ok := activityMultipliers[*body.ActivityLevel]; !ok {
			apiError(c, http.StatusBadRequest, "activity_level must be one of: sedentary, light, moderate, active, extreme")
			return
		}
	}
	if body.WeightGoal != nil && !validWeightGoals[*body.WeightGoal] {
		apiError(c, http.StatusBadRequest, "unrecognized weight_goal")
		return
	}
	if body.HeightCM != nil && (*body.HeightCM <= 0 || *body.HeightCM > 300) {
		apiError(c, http.StatusBadRequest, "height_cm must be between 0 and 300")
		return
	}
	if body.WeightKG != nil && (*body.WeightKG <= 0 || *body.WeightKG > 700) {
		apiError(c, http.StatusBadRequest, "weight_kg must be between 0 and 700")
		return
	}
	if body.Age != nil && (*body.Age <= 0 || *body.Age > 130) {
		apiError(c, http.StatusBadRequest, "age must be between 0 and 130")
		return
	}
	if body.DailyCalorieTarget != nil && *body.DailyCalorieTarget < 0 {
		apiError(c, http.StatusBadRequest, "daily_calorie_target must not be negative")
		return
	}

	// Build the SET clause dynamically — only update fields the client sent.
	setClauses := []string{}
	args := pgx.NamedArgs{"userID": userID}

	addSet := func(clause, key string, value any) {
		setClauses = append(setClauses, clause)
		args[key] = value
	}
	if body.HeightCM != nil {
		addSet("height_cm = @heightCM", "heightCM", *body.HeightCM)
	}
	if body.WeightKG != nil {
		addSet("weight_kg = @weightKG", "weightKG", *body.WeightKG)
	}
	if body.Age != nil {
		addSet("age = @age", "age", *body.Age)
	}
	if body.Gender != nil {
		addSet("gender = @gender", "gender", *body.Gender)
	}
	if body.ActivityLevel != nil {
		addSet("activity_level = @activityLevel", "activityLevel", *body.ActivityLevel)
	}
	if body.WeightGoal != nil {
		addSet("weight_goal = @weightGoal", "weightGoal", *body.WeightGoal)
	}
	if body.DailyCalorieTarget != nil {
		addSet("daily_calorie_target = @dailyCalorieTarget", "dailyCalorieTarget", *body.DailyCalorieTarget)
	}
	if body.StartingWeightKG != nil {
		addSet("starting_weight_kg = @startingWeightKG", "startingWeightKG", *body.StartingWeightKG)
	}
	if body.FocusProteinG != nil {
		addSet("focus_protein_g = @focusProteinG", "focusProteinG", *body.FocusProteinG)
	}
	if body.FocusCarbsG != nil {
		addSet("focus_carbs_g = @focusCarbsG", "focusCarbsG", *body.FocusCarbsG)
	}
	if body.FocusFatG != nil {
		addSet("focus_fat_g = @focusFatG", "focusFatG", *body.FocusFatG)
	}
	if body.FocusFiberG != nil {
		addSet("focus_fiber_g = @focusFiberG", "focusFiberG", *body.FocusFiberG)
	}
	if body.FocusSugarG != nil {
		addSet("focus_sugar_g = @focusSugarG", "focusSugarG", *body.FocusSugarG)
	}
	if body.FocusSodiumMG != nil {
		addSet("focus_sodium_mg = @focusSodiumMG", "focusSodiumMG", *body.FocusSodiumMG)
	}

	if len(setClauses) == 0 {
		apiError(c, http.StatusBadRequest, "no fields to update")
		return
	}

	query := "UPDATE user_profiles SET " +
		strings.Join(setClauses, ", ") +
		" WHERE user_id = @userID RETURNING *"

	p, err := queryOne[userProfile](h.db, c, query, args)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}

	populateComputedGoals(&p)
	h.events.Broadcast("profile")

	c.JSON(http.StatusOK, p)
}
