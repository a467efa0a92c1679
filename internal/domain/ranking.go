package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"
)

// Per-item invariant violations. A game failing any of these is skipped.
var (
	ErrMissingGame      = errors.New("ownership has no catalog record")
	ErrDuplicateGame    = errors.New("duplicate game in working set")
	ErrInvalidOwnership = errors.New("ownership violates invariants")
)

// RankedGame is one scored entry of the ranking flow.
type RankedGame struct {
	Game       *CatalogItem
	Ownership  Ownership
	Quality    QualityScores
	Usage      UsageSignals
	GenreMatch *float64 // only when the request carried vibes
	FinalScore float64
	Rank       int
	Why        []string
}

// DiscoveredGame is one scored entry of the discovery flow.
type DiscoveredGame struct {
	Item          *CatalogItem
	Quality       float64
	QualitySource *Rating
	VibeScore     float64
	MatchedVibes  []Vibe
	DurationScore float64
	FinalScore    float64
	Rank          int
	Why           []string
}

// SkippedItem records a candidate that could not be scored.
type SkippedItem struct {
	ID  string
	Err error
}

// RankingResult is the outcome of ranking a user's library.
type RankingResult struct {
	GeneratedAt        time.Time
	SteamID            string
	Mode               Mode
	TotalGamesAnalyzed int
	Items              []RankedGame
	Skipped            []SkippedItem
}

// DiscoveryResult is the outcome of scoring a catalog page.
type DiscoveryResult struct {
	GeneratedAt   time.Time
	Request       DiscoverRequest
	TotalAnalyzed int
	Items         []DiscoveredGame
	Skipped       []SkippedItem
}

// RankLibrary scores every owned game under req.Mode, sorts by final score
// (stable, so ties keep input order), then keeps the top req.Limit and
// assigns 1-based ranks.
//
// All games are scored before the limit is applied, so the top N by score
// is never missed because of library order. A game that violates an
// invariant is reported in Skipped and the rest of the batch continues.
func RankLibrary(games []OwnedGame, req RankingRequest, now time.Time) (*RankingResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &RankingResult{
		GeneratedAt:        now,
		SteamID:            req.SteamID,
		Mode:               req.Mode,
		TotalGamesAnalyzed: len(games),
		Items:              make([]RankedGame, 0, len(games)),
	}

	seen := make(map[int]struct{}, len(games))
	for i, og := range games {
		id := ownedID(og, i)
		if _, dup := seen[og.Ownership.AppID]; dup && og.Game != nil {
			result.Skipped = append(result.Skipped, SkippedItem{ID: id, Err: ErrDuplicateGame})
			continue
		}

		ranked, err := scoreOwnedSafe(og, req, now)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedItem{ID: id, Err: err})
			continue
		}
		// Only a scored copy claims the app id; a rejected one leaves room for the next.
		seen[og.Ownership.AppID] = struct{}{}
		result.Items = append(result.Items, ranked)
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].FinalScore > result.Items[j].FinalScore
	})
	if len(result.Items) > req.Limit {
		result.Items = result.Items[:req.Limit]
	}
	for i := range result.Items {
		result.Items[i].Rank = i + 1
	}

	return result, nil
}

// scoreOwnedSafe turns a panic while scoring one game into an error so a
// single bad record cannot abort the batch.
func scoreOwnedSafe(og OwnedGame, req RankingRequest, now time.Time) (ranked RankedGame, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()

	if err := validateOwned(og, req.SteamID); err != nil {
		return RankedGame{}, err
	}

	quality := RankingQuality(og.Game)
	usage := ComputeUsage(og, req.Mode, now)

	ranked = RankedGame{
		Game:       og.Game,
		Ownership:  og.Ownership,
		Quality:    quality,
		Usage:      usage,
		FinalScore: ScoreOwned(quality, usage, req.Mode),
		Why:        OwnedReasons(quality, usage, req.Mode),
	}
	if len(req.Vibes) > 0 {
		overlap := GenreOverlap(og.Game, req.Vibes)
		ranked.GenreMatch = &overlap
	}

	return ranked, nil
}

func validateOwned(og OwnedGame, steamID string) error {
	o := og.Ownership
	switch {
	case og.Game == nil:
		return ErrMissingGame
	case o.SteamID != "" && o.SteamID != steamID:
		return fmt.Errorf("%w: belongs to %s", ErrInvalidOwnership, o.SteamID)
	case o.PlaytimeMinutes < 0:
		return fmt.Errorf("%w: negative playtime %d", ErrInvalidOwnership, o.PlaytimeMinutes)
	case o.AchievementsTotal != nil && *o.AchievementsTotal < 0,
		o.AchievementsUnlocked != nil && *o.AchievementsUnlocked < 0:
		return fmt.Errorf("%w: negative achievement count", ErrInvalidOwnership)
	case o.AchievementsTotal != nil && o.AchievementsUnlocked != nil && *o.AchievementsUnlocked > *o.AchievementsTotal:
		return fmt.Errorf("%w: %d of %d achievements unlocked", ErrInvalidOwnership, *o.AchievementsUnlocked, *o.AchievementsTotal)
	case og.Game.EstimatedHours != nil && math.IsNaN(*og.Game.EstimatedHours):
		return fmt.Errorf("%w: estimated hours is NaN", ErrInvalidOwnership)
	}
	return nil
}

func ownedID(og OwnedGame, idx int) string {
	if og.Ownership.AppID != 0 {
		return strconv.Itoa(og.Ownership.AppID)
	}
	if og.Game != nil && og.Game.Name != "" {
		return og.Game.Name
	}
	return "#" + strconv.Itoa(idx)
}

// RankDiscovery scores catalog items against the request's preferences,
// sorts by final score (stable) and keeps the top min(100, req.Limit).
func RankDiscovery(items []*CatalogItem, req DiscoverRequest, now time.Time) (*DiscoveryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	result := &DiscoveryResult{
		GeneratedAt:   now,
		Request:       req,
		TotalAnalyzed: len(items),
		Items:         make([]DiscoveredGame, 0, len(items)),
	}

	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item == nil {
			result.Skipped = append(result.Skipped, SkippedItem{ID: "#" + strconv.Itoa(i), Err: ErrMissingGame})
			continue
		}
		key := item.Key()
		if _, dup := seen[key]; dup {
			result.Skipped = append(result.Skipped, SkippedItem{ID: key, Err: ErrDuplicateGame})
			continue
		}
		seen[key] = struct{}{}

		scored, err := scoreDiscoverySafe(item, req)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedItem{ID: key, Err: err})
			continue
		}
		result.Items = append(result.Items, scored)
	}

	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].FinalScore > result.Items[j].FinalScore
	})
	if limit := min(MaxDiscoverLimit, req.Limit); len(result.Items) > limit {
		result.Items = result.Items[:limit]
	}
	for i := range result.Items {
		result.Items[i].Rank = i + 1
	}

	return result, nil
}

func scoreDiscoverySafe(item *CatalogItem, req DiscoverRequest) (scored DiscoveredGame, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panicked: %v", r)
		}
	}()

	quality, rating := DiscoveryQuality(item)
	vibeScore, matched := VibeMatch(item, req.Vibes)
	durationScore := DurationFit(item.EstimatedHours, req.Duration)

	return DiscoveredGame{
		Item:          item,
		Quality:       quality,
		QualitySource: rating,
		VibeScore:     vibeScore,
		MatchedVibes:  matched,
		DurationScore: durationScore,
		FinalScore:    ScoreDiscovery(quality, vibeScore, durationScore),
		Why:           DiscoveryReasons(quality, rating, durationScore, item.EstimatedHours, vibeScore, matched),
	}, nil
}
