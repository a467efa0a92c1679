package domain

import (
	"fmt"
	"math"
	"strings"
)

// MaxReasons caps the "why" list of every recommendation.
const MaxReasons = 4

// Thresholds shared by the ranking reasons.
const (
	acclaimedMetacritic    = 85
	wellReviewedMetacritic = 75

	thresholdEpsilon = 1e-9
	excellentSteamWilson   = 0.9
	goodSteamWilson        = 0.8
	recentRecency          = 0.8
	staleRecency           = 0.3
)

// Thresholds for the discovery reasons.
const (
	discoveryQualityReason  = 0.7
	discoveryDurationReason = 0.8
	discoveryVibeReason     = 0.6
	maxVibesInReason        = 3
)

// OwnedReasons explains a ranking-path score. Reasons are evaluated in
// priority order (quality, mode-specific, recency), deduplicated and capped
// at MaxReasons. Every reason is backed by a computed signal.
func OwnedReasons(quality QualityScores, usage UsageSignals, m Mode) []string {
	reasons := make([]string, 0, MaxReasons+2)

	if quality.Metacritic != nil {
		// Normalized scores carry float noise; 0.85*100 must still reach 85.
		mc := *quality.Metacritic*100 + thresholdEpsilon
		switch {
		case mc >= acclaimedMetacritic:
			reasons = append(reasons, ReasonCriticallyAcclaimed)
		case mc >= wellReviewedMetacritic:
			reasons = append(reasons, ReasonWellReviewed)
		}
	}

	if quality.SteamWilson != nil {
		switch w := *quality.SteamWilson; {
		case w >= excellentSteamWilson:
			reasons = append(reasons, ReasonExcellentSteam)
		case w >= goodSteamWilson:
			reasons = append(reasons, ReasonPlayersLoveIt)
		}
	}

	for _, rule := range ProfileFor(m).Reasons {
		if rule.Holds(usage) {
			reasons = append(reasons, rule.Reason)
		}
	}

	switch {
	case usage.Recency > recentRecency:
		reasons = append(reasons, ReasonPlayedRecently)
	case usage.Recency < staleRecency:
		reasons = append(reasons, ReasonLongUntouched)
	}

	return capReasons(reasons)
}

// DiscoveryReasons explains a discovery-path score: quality first, then
// duration fit, then the matched vibes.
func DiscoveryReasons(quality float64, rating *Rating, durationFit float64, hours *float64, vibeScore float64, matched []Vibe) []string {
	reasons := make([]string, 0, MaxReasons)

	if rating != nil && quality > discoveryQualityReason {
		reasons = append(reasons, fmt.Sprintf("Rated %s by %s", formatRating(*rating), rating.Source))
	}

	if hours != nil && durationFit > discoveryDurationReason {
		reasons = append(reasons, fmt.Sprintf("Fits your time: about %.0fh", math.Round(*hours)))
	}

	if vibeScore > discoveryVibeReason && len(matched) > 0 {
		names := make([]string, 0, maxVibesInReason)
		for i, v := range matched {
			if i == maxVibesInReason {
				break
			}
			names = append(names, strings.ReplaceAll(string(v), "_", " "))
		}
		reasons = append(reasons, "Matches your vibe: "+strings.Join(names, ", "))
	}

	return capReasons(reasons)
}

// formatRating renders a rating on its own scale ("88", "4.4/5").
func formatRating(r Rating) string {
	if r.Max == 100 {
		return fmt.Sprintf("%.0f", r.Value)
	}
	return fmt.Sprintf("%.1f/%g", r.Value, r.Max)
}

// capReasons drops exact duplicates, keeping first occurrence, then truncates.
func capReasons(reasons []string) []string {
	seen := make(map[string]struct{}, len(reasons))
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
		if len(out) == MaxReasons {
			break
		}
	}
	return out
}
