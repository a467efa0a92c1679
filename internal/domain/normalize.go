package domain

import "math"

// Neutral values used when a signal cannot be computed. Unknown is not bad.
const (
	NeutralQuality     = 0.75
	NeutralProgress    = 0.5
	NeutralDurationFit = 0.5
	NeutralVibeMatch   = 0.5
	NeutralMidProgress = 0.5

	// IdleNovelty is the novelty outside "play" mode. Non-zero so that the
	// signal never collapses a score on its own.
	IdleNovelty = 0.3

	// StaleHorizonDays is the age at which a last-played date stops counting.
	StaleHorizonDays = 365
)

// Normalize maps value linearly from [min, max] onto [0, 1], clamping outside
// the window. When max <= min it degrades to a step at min.
func Normalize(value, min, max float64) float64 {
	if math.IsNaN(value) {
		return 0
	}
	if max <= min {
		if value < min {
			return 0
		}
		return 1
	}
	return Clamp01((value - min) / (max - min))
}

// Clamp01 bounds v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// roundTo4Decimals keeps scores readable in responses and stable in tests.
func roundTo4Decimals(value float64) float64 {
	return math.Round(value*10000) / 10000
}
