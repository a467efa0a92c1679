package domain

import (
	"math"
	"time"
)

// Thresholds on playtime / estimated completion hours.
const (
	nearFinishRatio  = 0.7
	midProgressLow   = 0.2
	midProgressHigh  = 0.8
	noveltyHorizonHr = 10.0
)

// UsageSignals are the ownership-derived signals, each bounded to [0, 1].
// The trailing fields are the raw inputs they were derived from, kept for
// reasons and for clients.
type UsageSignals struct {
	Novelty        float64 `json:"novelty"`
	Recency        float64 `json:"recency"`
	Progress       float64 `json:"progress"`
	NearFinish     float64 `json:"near_finish"`
	MidProgress    float64 `json:"mid_progress"`
	AchievementGap float64 `json:"achievement_gap"`

	PlaytimeHours   float64  `json:"playtime_hours"`
	DaysSincePlayed float64  `json:"days_since_played"`
	AchievementPct  *float64 `json:"achievement_pct,omitempty"`
	CompletionRatio *float64 `json:"completion_ratio,omitempty"`
}

// ComputeUsage derives the usage signals for one owned game under mode m.
// now is injected so results do not depend on the wall clock.
func ComputeUsage(og OwnedGame, m Mode, now time.Time) UsageSignals {
	o := og.Ownership
	u := UsageSignals{
		PlaytimeHours: math.Max(0, o.PlaytimeHours()),
	}

	// Novelty only matters when looking for something new.
	if m == ModePlay {
		u.Novelty = math.Max(0, 1-u.PlaytimeHours/noveltyHorizonHr)
	} else {
		u.Novelty = IdleNovelty
	}

	u.DaysSincePlayed = daysSince(o.LastPlayedAt, now)
	u.Recency = 1 - Normalize(u.DaysSincePlayed, 0, StaleHorizonDays)

	if ratio, ok := o.AchievementRatio(); ok {
		u.Progress = ratio
		pct := ratio * 100
		u.AchievementPct = &pct
	} else {
		u.Progress = NeutralProgress
	}
	u.AchievementGap = Clamp01(1 - u.Progress)

	u.MidProgress = NeutralMidProgress
	if og.Game != nil && og.Game.EstimatedHours != nil && *og.Game.EstimatedHours > 0 {
		ratio := u.PlaytimeHours / *og.Game.EstimatedHours
		u.CompletionRatio = &ratio

		if ratio > midProgressLow && ratio < midProgressHigh {
			u.MidProgress = 1
		}
		if m == ModeFinish && ratio > nearFinishRatio {
			u.NearFinish = Clamp01(ratio)
		}
	}

	return u
}

// daysSince returns the days between t and now. A missing date counts as
// fully stale; dates in the future count as today.
func daysSince(t *time.Time, now time.Time) float64 {
	if t == nil || t.IsZero() {
		return StaleHorizonDays
	}
	days := now.Sub(*t).Hours() / 24
	if days < 0 {
		return 0
	}
	return days
}
