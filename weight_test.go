package main

import (
	"testing"
	"time"
)

// TestWeightChangeSinceStart verifies the change figure prefers the profile's
// explicit starting weight over the series' first point, so a write response
// and the read that follows report the same number.
func TestWeightChangeSinceStart(t *testing.T) {
	starting := 85.0
	series := []historyPoint{
		pt(2026, time.March, 1, 84.0),
		pt(2026, time.March, 10, 80.0),
	}

	cases := []struct {
		name           string
		points         []historyPoint
		startingWeight *float64
		want           *float64
	}{
		{"starting weight preferred over first point", series, &starting, ptr(5.0)},
		{"falls back to first point", series, nil, ptr(4.0)},
		{"single point with starting weight", series[1:], &starting, ptr(5.0)},
		{"empty series", nil, &starting, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := weightChangeSinceStart(tc.points, tc.startingWeight)
			switch {
			case got == nil && tc.want == nil:
			case got == nil || tc.want == nil:
				t.Errorf("change = %v, want %v", got, tc.want)
			case *got != *tc.want:
				t.Errorf("change = %v, want %v", *got, *tc.want)
			}
		})
	}
}
