package domain

import "math"

// Discovery ratings are read against this window: anything at or below 60 is
// "no signal", anything at or above 95 is as good as it gets.
const (
	discoveryRatingFloor   = 60
	discoveryRatingCeiling = 95
)

// wilsonZ is the z-score for a 95% confidence interval.
const wilsonZ = 1.96

// QualityScores holds the per-source quality fractions and their combination.
// Missing sources stay nil so clients can tell "unknown" from "zero".
type QualityScores struct {
	Metacritic    *float64 `json:"metacritic,omitempty"`
	OpenCritic    *float64 `json:"open_critic,omitempty"`
	SteamPositive *float64 `json:"steam_positive,omitempty"`
	SteamWilson   *float64 `json:"steam_wilson,omitempty"`
	Combined      float64  `json:"combined"`
}

// RankingQuality combines the structured quality sources of an owned game.
//
// Each present source is converted to a 0-1 fraction and the fractions are
// averaged without weights. With no source present the result is NeutralQuality.
func RankingQuality(item *CatalogItem) QualityScores {
	var q QualityScores
	if item == nil {
		q.Combined = NeutralQuality
		return q
	}

	var sum float64
	var n int
	add := func(pct *float64) *float64 {
		if pct == nil || math.IsNaN(*pct) {
			return nil
		}
		f := Clamp01(*pct / 100)
		sum += f
		n++
		return &f
	}

	q.Metacritic = add(item.Metacritic)
	q.OpenCritic = add(item.OpenCritic)
	q.SteamPositive = add(steamPositivePct(item))

	if item.SteamPositive != nil && item.SteamNegative != nil {
		w := SteamWilson(*item.SteamPositive, *item.SteamNegative)
		q.SteamWilson = &w
	}

	if n == 0 {
		q.Combined = NeutralQuality
		return q
	}
	q.Combined = Clamp01(sum / float64(n))

	return q
}

// steamPositivePct prefers the published percentage and falls back to the raw
// review counts.
func steamPositivePct(item *CatalogItem) *float64 {
	if item.SteamPositivePct != nil {
		return item.SteamPositivePct
	}
	if item.SteamPositive == nil || item.SteamNegative == nil {
		return nil
	}
	total := *item.SteamPositive + *item.SteamNegative
	if total <= 0 {
		return nil
	}
	pct := float64(*item.SteamPositive) / float64(total) * 100
	return &pct
}

// SteamWilson returns the lower bound of the Wilson score interval for the
// positive review ratio. Zero reviews yields 0.
func SteamWilson(positive, negative int) float64 {
	if positive < 0 {
		positive = 0
	}
	if negative < 0 {
		negative = 0
	}
	n := float64(positive + negative)
	if n == 0 {
		return 0
	}

	p := float64(positive) / n
	z2 := wilsonZ * wilsonZ
	centre := p + z2/(2*n)
	margin := wilsonZ * math.Sqrt((p*(1-p)+z2/(4*n))/n)

	return Clamp01((centre - margin) / (1 + z2/n))
}

// DiscoveryQuality scores an ad-hoc catalog item by its best available rating.
//
// Each present rating (critic rating, Metacritic) is read against the 60-95
// window and the maximum wins. The returned Rating is the one that won, for
// use in reasons; it is nil when no rating exists and the score is
// NeutralQuality.
func DiscoveryQuality(item *CatalogItem) (float64, *Rating) {
	if item == nil {
		return NeutralQuality, nil
	}

	best := -1.0
	var bestRating *Rating

	if item.CriticRating != nil && item.CriticRating.Max > 0 {
		s := Normalize(item.CriticRating.Percent(), discoveryRatingFloor, discoveryRatingCeiling)
		best = s
		r := *item.CriticRating
		bestRating = &r
	}
	if item.Metacritic != nil && !math.IsNaN(*item.Metacritic) {
		s := Normalize(*item.Metacritic, discoveryRatingFloor, discoveryRatingCeiling)
		if s > best {
			best = s
			bestRating = &Rating{Value: *item.Metacritic, Max: 100, Source: "Metacritic"}
		}
	}

	if bestRating == nil {
		return NeutralQuality, nil
	}
	return best, bestRating
}
