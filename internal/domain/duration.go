package domain

import (
	"math"
	"strings"
)

// DurationBucket is a requested time budget.
type DurationBucket string

const (
	DurationQuick    DurationBucket = "quick"
	DurationMedium   DurationBucket = "medium"
	DurationLong     DurationBucket = "long"
	DurationVeryLong DurationBucket = "very_long"
	DurationAny      DurationBucket = "any"
)

// durationFalloffHours is the distance outside a bucket at which fit reaches 0.
const durationFalloffHours = 20.0

// HourRange is an inclusive range of hours.
type HourRange struct {
	Min float64
	Max float64
}

var bucketRanges = map[DurationBucket]HourRange{
	DurationQuick:    {2, 8},
	DurationMedium:   {8, 15},
	DurationLong:     {15, 30},
	DurationVeryLong: {30, 100},
	DurationAny:      {0, 1000},
}

// ParseDurationBucket accepts the canonical names plus a few spellings seen in
// the wild ("very-long", "verylong"). Anything else is DurationAny.
func ParseDurationBucket(s string) DurationBucket {
	b := strings.ToLower(strings.TrimSpace(s))
	b = strings.NewReplacer("-", "_", " ", "_").Replace(b)
	if b == "verylong" {
		b = string(DurationVeryLong)
	}
	if _, ok := bucketRanges[DurationBucket(b)]; ok {
		return DurationBucket(b)
	}
	return DurationAny
}

// Range returns the bucket's hour range.
func (b DurationBucket) Range() HourRange {
	if r, ok := bucketRanges[b]; ok {
		return r
	}
	return bucketRanges[DurationAny]
}

// DurationFit scores how well hours fits bucket b.
//
// Inside the range the fit is 1. Outside it decays quadratically with the
// distance to the nearest edge, 1 - (d/20)^2, reaching 0 at 20 hours away.
// Unknown duration is NeutralDurationFit.
func DurationFit(hours *float64, b DurationBucket) float64 {
	if hours == nil || math.IsNaN(*hours) || *hours < 0 {
		return NeutralDurationFit
	}

	r := b.Range()
	h := *hours

	var distance float64
	switch {
	case h < r.Min:
		distance = r.Min - h
	case h > r.Max:
		distance = h - r.Max
	default:
		return 1
	}

	d := distance / durationFalloffHours
	return math.Max(0, 1-d*d)
}

// genreHours are rough main-story lengths by genre, used only when no curated
// estimate exists. Longest matching genre wins.
var genreHours = map[string]float64{
	"rpg":                   40,
	"role-playing":          40,
	"role-playing (rpg)":    40,
	"massively multiplayer": 60,
	"strategy":              30,
	"simulation":            25,
	"adventure":             15,
	"action":                12,
	"shooter":               10,
	"platformer":            8,
	"puzzle":                6,
	"racing":                10,
	"sports":                10,
	"fighting":              8,
	"indie":                 8,
	"casual":                5,
	"arcade":                4,
	"visual novel":          12,
	"point-and-click":       8,
}

// EstimateMainHours guesses a main-story length from genres. It returns false
// when no genre is recognised.
func EstimateMainHours(genres []string) (float64, bool) {
	best := 0.0
	for _, g := range genres {
		if h, ok := genreHours[strings.ToLower(strings.TrimSpace(g))]; ok && h > best {
			best = h
		}
	}
	return best, best > 0
}
