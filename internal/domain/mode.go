package domain

import "strings"

// Mode is the intent behind a library ranking request.
type Mode int

const (
	ModeDefault  Mode = iota // balanced: recency + progress
	ModePlay                 // start something new
	ModeFinish               // finish what you started
	ModeClear                // complete the campaign
	ModePlatinum             // 100% achievements
)

// modeNames maps every accepted spelling to a Mode. The Portuguese names are
// kept for clients built against the first version of the API.
var modeNames = map[string]Mode{
	"play":     ModePlay,
	"jogar":    ModePlay,
	"finish":   ModeFinish,
	"terminar": ModeFinish,
	"clear":    ModeClear,
	"zerar":    ModeClear,
	"platinum": ModePlatinum,
	"platinar": ModePlatinum,
}

// ParseMode never fails: unknown or empty strings fall through to ModeDefault.
func ParseMode(s string) Mode {
	if m, ok := modeNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m
	}
	return ModeDefault
}

// String returns the canonical English name.
func (m Mode) String() string {
	switch m {
	case ModePlay:
		return "play"
	case ModeFinish:
		return "finish"
	case ModeClear:
		return "clear"
	case ModePlatinum:
		return "platinum"
	default:
		return "default"
	}
}

// QualityWeight is the share of the ranking score taken by combined quality in
// every mode. Mode weights make up the remaining 0.6.
const QualityWeight = 0.4

// SignalWeights weights each usage signal in a mode's score.
type SignalWeights struct {
	Novelty        float64
	Recency        float64
	Progress       float64
	NearFinish     float64
	MidProgress    float64
	AchievementGap float64
}

// Apply returns the weighted sum of the usage signals.
func (w SignalWeights) Apply(u UsageSignals) float64 {
	return w.Novelty*u.Novelty +
		w.Recency*u.Recency +
		w.Progress*u.Progress +
		w.NearFinish*u.NearFinish +
		w.MidProgress*u.MidProgress +
		w.AchievementGap*u.AchievementGap
}

// Sum returns the total weight, which is 0.6 for every built-in profile.
func (w SignalWeights) Sum() float64 {
	return w.Novelty + w.Recency + w.Progress + w.NearFinish + w.MidProgress + w.AchievementGap
}

// ReasonRule emits Reason when Holds is true for a game's usage signals.
type ReasonRule struct {
	Reason string
	Holds  func(UsageSignals) bool
}

// ModeProfile is everything a mode changes: how signals are weighted and
// which mode-specific reasons may be cited. The scorer and the reason
// generator both read it.
type ModeProfile struct {
	Mode    Mode
	Weights SignalWeights
	Reasons []ReasonRule
}

// Reason texts. Kept as constants so tests and clients can match on them.
const (
	ReasonCriticallyAcclaimed = "Critically acclaimed"
	ReasonWellReviewed        = "Well reviewed"
	ReasonExcellentSteam      = "Excellent Steam rating"
	ReasonPlayersLoveIt       = "Very well rated by players"
	ReasonStartToday          = "Perfect to start today"
	ReasonGoodToResume        = "Good to resume"
	ReasonAlmostDone          = "Almost done, finish today"
	ReasonMidway              = "Midway through, continue"
	ReasonCloseToEnding       = "Close to the ending"
	ReasonAchievementsLeft    = "Many achievements left"
	ReasonPlayedRecently      = "Played recently, keep the momentum"
	ReasonLongUntouched       = "Long untouched, good time to return"
)

var profiles = map[Mode]ModeProfile{
	ModePlay: {
		Mode:    ModePlay,
		Weights: SignalWeights{Novelty: 0.3, Recency: 0.3},
		Reasons: []ReasonRule{
			{ReasonStartToday, func(u UsageSignals) bool { return u.PlaytimeHours < 2 }},
			{ReasonGoodToResume, func(u UsageSignals) bool { return u.PlaytimeHours >= 2 && u.PlaytimeHours < 10 }},
		},
	},
	ModeFinish: {
		Mode:    ModeFinish,
		Weights: SignalWeights{NearFinish: 0.4, MidProgress: 0.2},
		Reasons: []ReasonRule{
			{ReasonAlmostDone, func(u UsageSignals) bool { return u.NearFinish > 0.7 }},
			{ReasonMidway, func(u UsageSignals) bool { return u.MidProgress > 0.8 }},
		},
	},
	ModeClear: {
		Mode:    ModeClear,
		Weights: SignalWeights{Progress: 0.4, MidProgress: 0.2},
		Reasons: []ReasonRule{
			{ReasonCloseToEnding, func(u UsageSignals) bool { return u.Progress > 0.8 }},
		},
	},
	ModePlatinum: {
		Mode:    ModePlatinum,
		Weights: SignalWeights{Progress: 0.3, AchievementGap: 0.3},
		Reasons: []ReasonRule{
			{ReasonAchievementsLeft, func(u UsageSignals) bool { return u.AchievementPct != nil && *u.AchievementPct < 50 }},
		},
	},
	ModeDefault: {
		Mode:    ModeDefault,
		Weights: SignalWeights{Recency: 0.3, Progress: 0.3},
	},
}

// ProfileFor returns the profile for m, falling back to the default profile.
func ProfileFor(m Mode) ModeProfile {
	if p, ok := profiles[m]; ok {
		return p
	}
	return profiles[ModeDefault]
}
