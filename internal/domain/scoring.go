// Package domain contains the core business logic and entities.
package domain

// Discovery weights. Discovery has no mode, only preferences.
const (
	DiscoveryQualityWeight  = 0.6
	DiscoveryVibeWeight     = 0.25
	DiscoveryDurationWeight = 0.15
)

// ScoreOwned computes the final score of an owned game.
//
// Formula:
//
//	Final Score = Quality * 0.4 + ModeTerm
//
// ModeTerm by mode (weights always sum to 0.6):
//   - play:     novelty*0.3 + recency*0.3
//   - finish:   nearFinish*0.4 + midProgress*0.2
//   - clear:    progress*0.4 + midProgress*0.2
//   - platinum: progress*0.3 + achievementGap*0.3
//   - default:  recency*0.3 + progress*0.3
//
// The result is clamped to [0, 1].
func ScoreOwned(quality QualityScores, usage UsageSignals, m Mode) float64 {
	profile := ProfileFor(m)
	score := quality.Combined*QualityWeight + profile.Weights.Apply(usage)

	return roundTo4Decimals(Clamp01(score))
}

// ScoreDiscovery computes the final score of a catalog item.
//
//	Final Score = Quality * 0.6 + VibeMatch * 0.25 + DurationFit * 0.15
func ScoreDiscovery(quality, vibe, duration float64) float64 {
	score := Clamp01(quality)*DiscoveryQualityWeight +
		Clamp01(vibe)*DiscoveryVibeWeight +
		Clamp01(duration)*DiscoveryDurationWeight

	return roundTo4Decimals(Clamp01(score))
}
