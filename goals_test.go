package main

import (
	"math"
	"testing"
)

// makeProfile constructs a fully-populated userProfile pointer for computeGoals
// tests. Individual tests nil out specific fields to exercise the defaulting
// guard.
func makeProfile(gender string, age int, heightCM, weightKG float64, activityLevel, weightGoal string) *userProfile {
	return &userProfile{
		UserID:        1,
		HeightCM:      &heightCM,
		WeightKG:      &weightKG,
		Age:           &age,
		Gender:        &gender,
		ActivityLevel: &activityLevel,
		WeightGoal:    &weightGoal,
	}
}

/* ─── Defaulting tests ───────────────────────────────────────────────── */

// TestComputeGoals_MissingFields verifies that the fixed default goal set is
// returned when any required biometric field is nil. Each sub-test nils out
// one field on an otherwise-valid profile.
func TestComputeGoals_MissingFields(t *testing.T) {
	cases := []struct {
		name  string
		mutFn func(p *userProfile)
	}{
		{"nil profile", nil},
		{"nil HeightCM", func(p *userProfile) { p.HeightCM = nil }},
		{"nil WeightKG", func(p *userProfile) { p.WeightKG = nil }},
		{"nil Age", func(p *userProfile) { p.Age = nil }},
		{"nil Gender", func(p *userProfile) { p.Gender = nil }},
		{"nil ActivityLevel", func(p *userProfile) { p.ActivityLevel = nil }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p *userProfile
			if tc.mutFn != nil {
				p = makeProfile("male", 30, 180, 80, "moderate", "maintain")
				tc.mutFn(p)
			}
			got := computeGoals(p)
			if got != defaultGoals {
				t.Errorf("computeGoals = %+v, want defaults %+v", got, defaultGoals)
			}
		})
	}

	// A zero-value profile (the shape a user without a profile row yields)
	// also gets the defaults — the daily summary relies on this to serve
	// users who haven't onboarded yet.
	t.Run("zero-value profile", func(t *testing.T) {
		if got := computeGoals(&userProfile{}); got != defaultGoals {
			t.Errorf("computeGoals(&userProfile{}) = %+v, want defaults", got)
		}
	})
}

/* ─── End-to-end scenario tests ──────────────────────────────────────── */

// TestComputeGoals_MaintainScenario checks the full pipeline for a known
// profile: BMR = 10·80 + 6.25·180 − 5·30 + 5 = 1732.5, TDEE =
// round(1732.5 × 1.55) = 2685, maintain split 25/45/30.
func TestComputeGoals_MaintainScenario(t *testing.T) {
	g := computeGoals(makeProfile("male", 30, 180, 80, "moderate", "maintain"))

	if g.Calories != 2685 {
		t.Errorf("calories = %d, want 2685", g.Calories)
	}
	if g.ProteinG != 168 {
		t.Errorf("protein = %d, want 168", g.ProteinG)
	}
	if g.CarbsG != 302 {
		t.Errorf("carbs = %d, want 302", g.CarbsG)
	}
	if g.FatG != 90 {
		t.Errorf("fat = %d, want 90", g.FatG)
	}
	if g.FiberG != 38 {
		t.Errorf("fiber = %d, want 38", g.FiberG)
	}
	// Raw sugar figure would be 67g; the 50g cap applies.
	if g.SugarG != 50 {
		t.Errorf("sugar = %d, want 50", g.SugarG)
	}
	if g.SodiumMG != 2300 {
		t.Errorf("sodium = %d, want 2300", g.SodiumMG)
	}
}

// TestComputeGoals_LoseModerateScenario checks the same profile with a
// moderate deficit: 2685 − 500 = 2185 calories, losing split 30/40/30.
func TestComputeGoals_LoseModerateScenario(t *testing.T) {
	g := computeGoals(makeProfile("male", 30, 180, 80, "moderate", "lose_moderate"))

	if g.Calories != 2185 {
		t.Errorf("calories = %d, want 2185", g.Calories)
	}
	if g.ProteinG != 164 {
		t.Errorf("protein = %d, want 164", g.ProteinG)
	}
	if g.CarbsG != 219 {
		t.Errorf("carbs = %d, want 219", g.CarbsG)
	}
	if g.FatG != 73 {
		t.Errorf("fat = %d, want 73", g.FatG)
	}
}

/* ─── Floor and override tests ───────────────────────────────────────── */

// TestComputeGoals_CalorieFloor verifies the gender floors hold even under
// an aggressive deficit on a very low TDEE.
func TestComputeGoals_CalorieFloor(t *testing.T) {
	male := computeGoals(makeProfile("male", 80, 140, 40, "sedentary", "lose_aggressive"))
	if male.Calories != 1500 {
		t.Errorf("male floor: calories = %d, want 1500", male.Calories)
	}

	female := computeGoals(makeProfile("female", 80, 140, 40, "sedentary", "lose_aggressive"))
	if female.Calories != 1200 {
		t.Errorf("female floor: calories = %d, want 1200", female.Calories)
	}
}

// TestComputeGoals_TargetOverride verifies that a positive daily calorie
// target replaces the computed figure, still subject to the floor, and that
// a non-positive target is ignored.
func TestComputeGoals_TargetOverride(t *testing.T) {
	cases := []struct {
		name   string
		target int
		want   int
	}{
		{"override wins over BMR inputs", 1800, 1800},
		{"override below floor clamps", 1000, 1500},
		{"zero target ignored", 0, 2685},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := makeProfile("male", 30, 180, 80, "moderate", "maintain")
			if tc.target != 0 {
				p.DailyCalorieTarget = &tc.target
			}
			if got := computeGoals(p).Calories; got != tc.want {
				t.Errorf("calories = %d, want %d", got, tc.want)
			}
		})
	}
}

/* ─── Input fallback tests ───────────────────────────────────────────── */

// TestComputeGoals_UnknownActivityLevel verifies an unrecognised activity
// level falls back to the sedentary multiplier instead of failing.
// BMR 1732.5 × 1.2 = 2079.
func TestComputeGoals_UnknownActivityLevel(t *testing.T) {
	g := computeGoals(makeProfile("male", 30, 180, 80, "couch", "maintain"))
	if g.Calories != 2079 {
		t.Errorf("calories = %d, want 2079 (sedentary fallback)", g.Calories)
	}
}

// TestComputeGoals_UnknownWeightGoal verifies an unrecognised weight goal
// gets no calorie adjustment and the maintain macro split.
func TestComputeGoals_UnknownWeightGoal(t *testing.T) {
	g := computeGoals(makeProfile("male", 30, 180, 80, "moderate", "bulk"))
	if g.Calories != 2685 {
		t.Errorf("calories = %d, want 2685 (no adjustment)", g.Calories)
	}
	if g.ProteinG != 168 || g.CarbsG != 302 || g.FatG != 90 {
		t.Errorf("macros = %d/%d/%d, want maintain split 168/302/90",
			g.ProteinG, g.CarbsG, g.FatG)
	}
}

// TestComputeGoals_GainSplit verifies the gaining macro split (25/50/25) on
// a surplus goal: 2685 + 500 = 3185 calories.
func TestComputeGoals_GainSplit(t *testing.T) {
	g := computeGoals(makeProfile("male", 30, 180, 80, "moderate", "gain_moderate"))
	if g.Calories != 3185 {
		t.Errorf("calories = %d, want 3185", g.Calories)
	}
	if g.ProteinG != 199 {
		t.Errorf("protein = %d, want 199", g.ProteinG)
	}
	if g.CarbsG != 398 {
		t.Errorf("carbs = %d, want 398", g.CarbsG)
	}
	if g.FatG != 88 {
		t.Errorf("fat = %d, want 88", g.FatG)
	}
}

/* ─── Consistency and override tests ─────────────────────────────────── */

// TestComputeGoals_MacroConsistency verifies 4·protein + 4·carbs + 9·fat
// lands within 3% of the calorie target for a spread of profiles.
func TestComputeGoals_MacroConsistency(t *testing.T) {
	profiles := []*userProfile{
		makeProfile("male", 30, 180, 80, "moderate", "maintain"),
		makeProfile("female", 45, 165, 62, "light", "lose_light"),
		makeProfile("male", 22, 190, 95, "extreme", "gain_aggressive"),
		makeProfile("female", 60, 158, 70, "sedentary", "lose_aggressive"),
	}

	for _, p := range profiles {
		g := computeGoals(p)
		macroKcal := float64(4*g.ProteinG + 4*g.CarbsG + 9*g.FatG)
		if diff := math.Abs(macroKcal-float64(g.Calories)) / float64(g.Calories); diff > 0.03 {
			t.Errorf("macro kcal %.0f vs calories %d: off by %.1f%%, want ≤ 3%%",
				macroKcal, g.Calories, diff*100)
		}
	}
}

// TestComputeGoals_NutrientFocusOverrides verifies per-field overrides: each
// provided focus value replaces only its own figure while the rest stay
// computed.
func TestComputeGoals_NutrientFocusOverrides(t *testing.T) {
	p := makeProfile("male", 30, 180, 80, "moderate", "maintain")
	protein, sodium := 200, 1500
	p.FocusProteinG = &protein
	p.FocusSodiumMG = &sodium

	g := computeGoals(p)
	if g.ProteinG != 200 {
		t.Errorf("protein = %d, want overridden 200", g.ProteinG)
	}
	if g.SodiumMG != 1500 {
		t.Errorf("sodium = %d, want overridden 1500", g.SodiumMG)
	}
	// Non-overridden fields keep their computed values.
	if g.CarbsG != 302 || g.FatG != 90 {
		t.Errorf("carbs/fat = %d/%d, want computed 302/90", g.CarbsG, g.FatG)
	}
}
