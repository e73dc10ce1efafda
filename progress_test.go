package main

import "testing"

// TestLevelForXP verifies level boundaries: a level is reached exactly at its
// threshold, never before, and the top level absorbs everything beyond it.
func TestLevelForXP(t *testing.T) {
	cases := []struct {
		name string
		xp   int
		want int
	}{
		{"zero xp", 0, 1},
		{"just below level 2", 99, 1},
		{"exactly level 2", 100, 2},
		{"mid ladder", 2700, 10},
		{"one below a threshold", 2699, 9},
		{"top level", 6000, 15},
		{"beyond top level", 250000, 15},
		{"negative xp clamps to 1", -50, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := levelForXP(tc.xp); got != tc.want {
				t.Errorf("levelForXP(%d) = %d, want %d", tc.xp, got, tc.want)
			}
		})
	}
}

// TestXPToNextLevel verifies the remaining-XP figure, including the zero at
// the top of the ladder.
func TestXPToNextLevel(t *testing.T) {
	cases := []struct {
		name string
		xp   int
		want int
	}{
		{"fresh user", 0, 100},
		{"partway to level 2", 40, 60},
		{"exactly at level 2", 100, 150},
		{"top level", 6000, 0},
		{"beyond top level", 9999, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := xpToNextLevel(tc.xp); got != tc.want {
				t.Errorf("xpToNextLevel(%d) = %d, want %d", tc.xp, got, tc.want)
			}
		})
	}
}

// TestRankForLevel verifies the title ladder and its clamping at both ends.
func TestRankForLevel(t *testing.T) {
	cases := []struct {
		level int
		want  string
	}{
		{1, "Beginner"},
		{2, "Novice"},
		{10, "Legend"},
		{15, "Omnipotent"},
		{0, "Beginner"},
		{99, "Omnipotent"},
	}

	for _, tc := range cases {
		if got := rankForLevel(tc.level); got != tc.want {
			t.Errorf("rankForLevel(%d) = %q, want %q", tc.level, got, tc.want)
		}
	}
}

// TestXPAwards verifies every award action has a positive amount and the
// ladders stay in lockstep.
func TestXPAwards(t *testing.T) {
	for action, amount := range xpAwards {
		if amount <= 0 {
			t.Errorf("award %q = %d, want positive", action, amount)
		}
	}
	if len(levelThresholds) != len(rankNames) {
		t.Fatalf("thresholds (%d) and ranks (%d) out of step",
			len(levelThresholds), len(rankNames))
	}
}
