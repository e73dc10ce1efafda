package main

import (
	"math"
	"strings"
)

// activityMultipliers maps activity level strings to their TDEE multiplier.
// This is the single source of truth for valid activity levels — also used
// for input validation in patchProfile. Unknown levels fall back to sedentary
// inside computeGoals rather than failing.
var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
	"extreme":   1.9,
}

// goalAdjustments maps the named weight-goal tiers to their calorie delta.
// Exact string match only — no other lose/gain amounts exist, and "maintain"
// or anything unrecognised means no adjustment.
var goalAdjustments = map[string]int{
	"lose_light":      -250,
	"lose_moderate":   -500,
	"lose_aggressive": -750,
	"gain_light":      250,
	"gain_moderate":   500,
	"gain_aggressive": 750,
}

// defaultGoals is returned when any required biometric field is missing.
// A best-effort target set beats an error the onboarding flow has to special-case.
var defaultGoals = nutritionGoals{
	Calories: 2000,
	ProteinG: 100,
	CarbsG:   250,
	FatG:     67,
	FiberG:   30,
	SugarG:   50,
	SodiumMG: 2300,
}

// calorieFloor returns the minimum daily calories for the given gender.
// Applied after any deficit adjustment and after a daily_calorie_target
// override — the target never drops below a safe intake.
func calorieFloor(gender string) int {
	if gender == "male" {
		return 1500
	}
	return 1200
}

// computeGoals derives the full daily target set from a profile. Pure and
// deterministic: no I/O, never fails — missing biometrics yield defaultGoals.
//
// Calories: Mifflin-St Jeor BMR × activity multiplier, rounded, then the
// weight-goal tier adjustment, then the gender floor. A positive
// daily_calorie_target replaces the computed figure entirely (the floor still
// applies). Macros: percentage split by goal direction, converted to grams at
// 4 kcal/g (protein, carbs) and 9 kcal/g (fat). Per-nutrient focus overrides
// replace individual fields last.
func computeGoals(p *userProfile) nutritionGoals {
	if p == nil || p.HeightCM == nil || p.WeightKG == nil || p.Age == nil ||
		p.Gender == nil || p.ActivityLevel == nil {
		return defaultGoals
	}

	// BMR via Mifflin-St Jeor: +5 for male, -161 otherwise.
	bmr := 10**p.WeightKG + 6.25**p.HeightCM - 5*float64(*p.Age)
	if *p.Gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, found := activityMultipliers[*p.ActivityLevel]
	if !found {
		mult = activityMultipliers["sedentary"]
	}
	calories := int(math.Round(bmr * mult))

	weightGoal := ""
	if p.WeightGoal != nil {
		weightGoal = *p.WeightGoal
	}
	calories += goalAdjustments[weightGoal] // zero for maintain/unknown

	// An explicit daily target wins over everything computed above.
	if p.DailyCalorieTarget != nil && *p.DailyCalorieTarget > 0 {
		calories = *p.DailyCalorieTarget
	}

	if floor := calorieFloor(*p.Gender); calories < floor {
		calories = floor
	}

	// Macro split by goal direction. Losing favours protein, gaining favours
	// carbs, maintaining sits in between.
	var proteinPct, carbsPct, fatPct float64
	switch {
	case strings.HasPrefix(weightGoal, "lose_"):
		proteinPct, carbsPct, fatPct = 0.30, 0.40, 0.30
	case strings.HasPrefix(weightGoal, "gain_"):
		proteinPct, carbsPct, fatPct = 0.25, 0.50, 0.25
	default:
		proteinPct, carbsPct, fatPct = 0.25, 0.45, 0.30
	}

	kcal := float64(calories)
	goals := nutritionGoals{
		Calories: calories,
		ProteinG: int(math.Round(kcal * proteinPct / 4)),
		CarbsG:   int(math.Round(kcal * carbsPct / 4)),
		FatG:     int(math.Round(kcal * fatPct / 9)),
		FiberG:   int(math.Round(14 * kcal / 1000)),
		SugarG:   min(int(math.Round(kcal*0.10/4)), 50),
		SodiumMG: 2300,
	}

	// Per-field focus overrides — each one replaces only its own figure.
	if p.FocusProteinG != nil {
		goals.ProteinG = *p.FocusProteinG
	}
	if p.FocusCarbsG != nil {
		goals.CarbsG = *p.FocusCarbsG
	}
	if p.FocusFatG != nil {
		goals.FatG = *p.FocusFatG
	}
	if p.FocusFiberG != nil {
		goals.FiberG = *p.FocusFiberG
	}
	if p.FocusSugarG != nil {
		goals.SugarG = *p.FocusSugarG
	}
	if p.FocusSodiumMG != nil {
		goals.SodiumMG = *p.FocusSodiumMG
	}

	return goals
}

// populateComputedGoals fills the computed Goals field on p. Always succeeds;
// rows with incomplete biometrics carry the default set.
func populateComputedGoals(p *userProfile) {
	g := computeGoals(p)
	p.Goals = &g
}
