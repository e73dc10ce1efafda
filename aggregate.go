package main

import (
	"fmt"
	"math"
)

// aggregateDay combines goals, consumed totals, and exercise calories into
// the day's remaining/percent view. Pure transformation — safe to recompute
// on every upstream change.
//
// The budget is adjusted by exercise before anything else: remaining and
// percent are always computed against goals.Calories + exerciseCalories,
// never the base goal alone. Remaining is signed (negative = over budget) and
// percent is uncapped; clamping either is a presentation concern.
func aggregateDay(goals nutritionGoals, totals dailyTotals, exerciseCalories int) aggregateView {
	// Exercise data that is missing or nonsense upstream counts as zero —
	// a negative value must not shrink the budget.
	if exerciseCalories < 0 {
		exerciseCalories = 0
	}

	adjusted := goals.Calories + exerciseCalories
	remaining := adjusted - totals.Calories

	percent := 0
	if adjusted > 0 {
		percent = int(math.Round(float64(totals.Calories) / float64(adjusted) * 100))
	}

	return aggregateView{
		AdjustedGoal:    adjusted,
		Remaining:       remaining,
		PercentConsumed: percent,
		Macros: map[string]macroProgress{
			"protein": macroFor(goals.ProteinG, totals.ProteinG),
			"carbs":   macroFor(goals.CarbsG, totals.CarbsG),
			"fat":     macroFor(goals.FatG, totals.FatG),
		},
	}
}

// macroFor computes one macro's progress against its gram target.
func macroFor(goalG int, consumedG float64) macroProgress {
	remaining := float64(goalG) - consumedG

	var percent float64
	if goalG > 0 {
		percent = consumedG / float64(goalG) * 100
	}

	return macroProgress{
		Percent:    percent,
		RemainingG: remaining,
		Label:      macroLabel(remaining),
	}
}

// macroLabel renders the signed remaining grams as display text:
// positive → "N g left", negative → "N g over", exactly zero → "goal met".
func macroLabel(remainingG float64) string {
	switch {
	case remainingG > 0:
		return fmt.Sprintf("%d g left", int(math.Round(remainingG)))
	case remainingG < 0:
		return fmt.Sprintf("%d g over", int(math.Round(-remainingG)))
	default:
		return "goal met"
	}
}
