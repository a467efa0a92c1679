package domain

import (
	"math"
	"testing"
)

func TestDurationFit(t *testing.T) {
	tests := []struct {
		name     string
		hours    *float64
		bucket   DurationBucket
		expected float64
	}{
		{"lower boundary is inside", Float(2), DurationQuick, 1},
		{"upper boundary is inside", Float(8), DurationQuick, 1},
		{"middle of bucket", Float(20), DurationLong, 1},
		{"one hour under", Float(1), DurationQuick, 0.9975},
		{"ten hours over", Float(18), DurationQuick, 0.75},
		{"twenty hours over reaches zero", Float(28), DurationQuick, 0},
		{"far outside stays at zero", Float(300), DurationQuick, 0},
		{"unknown duration is neutral", nil, DurationQuick, NeutralDurationFit},
		{"negative duration is neutral", Float(-3), DurationMedium, NeutralDurationFit},
		{"nan duration is neutral", Float(math.NaN()), DurationMedium, NeutralDurationFit},
		{"any accepts everything sensible", Float(250), DurationAny, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DurationFit(tt.hours, tt.bucket)
			if !almostEqual(got, tt.expected) {
				t.Errorf("DurationFit() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestParseDurationBucket(t *testing.T) {
	tests := []struct {
		in       string
		expected DurationBucket
	}{
		{"quick", DurationQuick},
		{"Medium", DurationMedium},
		{"long", DurationLong},
		{"very_long", DurationVeryLong},
		{"very-long", DurationVeryLong},
		{"very long", DurationVeryLong},
		{"verylong", DurationVeryLong},
		{"", DurationAny},
		{"forever", DurationAny},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseDurationBucket(tt.in); got != tt.expected {
				t.Errorf("ParseDurationBucket(%q) = %q, want %q", tt.in, got, tt.expected)
			}
		})
	}
}

func TestEstimateMainHours(t *testing.T) {
	if _, ok := EstimateMainHours(nil); ok {
		t.Error("expected no estimate without genres")
	}
	if _, ok := EstimateMainHours([]string{"Not A Genre"}); ok {
		t.Error("expected no estimate for unknown genres")
	}

	hours, ok := EstimateMainHours([]string{"Indie", "RPG"})
	if !ok {
		t.Fatal("expected an estimate for RPG")
	}
	if hours != 40 {
		t.Errorf("EstimateMainHours(RPG) = %v, want 40", hours)
	}
}
