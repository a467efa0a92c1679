package dto

import (
	"time"

	"game-recommendation-service/internal/app/service"
	"game-recommendation-service/internal/domain"
)

// QualityResponse holds the quality sub-scores of a ranked game (0-1).
type QualityResponse struct {
	Metacritic    *float64 `json:"metacritic,omitempty"`
	OpenCritic    *float64 `json:"openCritic,omitempty"`
	SteamPositive *float64 `json:"steamPositive,omitempty"`
	SteamWilson   *float64 `json:"steamWilson,omitempty"`
	Combined      float64  `json:"combined"`
}

// UsageResponse holds the usage sub-scores of a ranked game.
type UsageResponse struct {
	Novelty         float64  `json:"novelty"`
	Recency         float64  `json:"recency"`
	Progress        float64  `json:"progress"`
	NearFinish      float64  `json:"nearFinish"`
	MidProgress     float64  `json:"midProgress"`
	AchievementGap  float64  `json:"achievementGap"`
	PlaytimeHours   float64  `json:"playtimeHours"`
	DaysSincePlayed float64  `json:"daysSincePlayed"`
	AchievementPct  *float64 `json:"achievementPct,omitempty"`
	CompletionRatio *float64 `json:"completionRatio,omitempty"`
}

// RankedGameResponse is one entry of a recommendation response.
type RankedGameResponse struct {
	AppID          int             `json:"appId"`
	Name           string          `json:"name"`
	FinalScore     float64         `json:"finalScore"`
	Rank           int             `json:"rank"`
	Quality        QualityResponse `json:"quality"`
	Usage          UsageResponse   `json:"usage"`
	GenreMatch     *float64        `json:"genreMatch,omitempty"`
	Why            []string        `json:"why"`
	Genres         []string        `json:"genres,omitempty"`
	EstimatedHours *float64        `json:"estimatedHours,omitempty"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	StoreURL       string          `json:"storeUrl,omitempty"`
}

// RecommendationResponse is the body of a ranking response.
type RecommendationResponse struct {
	RequestID          string               `json:"requestId"`
	GeneratedAt        string               `json:"generatedAt"`
	SteamID            string               `json:"steamId"`
	Mode               string               `json:"mode"`
	TotalGamesAnalyzed int                  `json:"totalGamesAnalyzed"`
	Skipped            int                  `json:"skipped"`
	Items              []RankedGameResponse `json:"items"`
}

// FromRankingResult converts domain.RankingResult to RecommendationResponse.
func FromRankingResult(requestID string, r *domain.RankingResult) RecommendationResponse {
	resp := RecommendationResponse{
		RequestID:          requestID,
		GeneratedAt:        r.GeneratedAt.Format(time.RFC3339),
		SteamID:            r.SteamID,
		Mode:               r.Mode.String(),
		TotalGamesAnalyzed: r.TotalGamesAnalyzed,
		Skipped:            len(r.Skipped),
		Items:              make([]RankedGameResponse, len(r.Items)),
	}

	for i, item := range r.Items {
		q, u := item.Quality, item.Usage
		resp.Items[i] = RankedGameResponse{
			AppID:      item.Ownership.AppID,
			Name:       item.Game.Name,
			FinalScore: item.FinalScore,
			Rank:       item.Rank,
			Quality: QualityResponse{
				Metacritic:    q.Metacritic,
				OpenCritic:    q.OpenCritic,
				SteamPositive: q.SteamPositive,
				SteamWilson:   q.SteamWilson,
				Combined:      q.Combined,
			},
			Usage: UsageResponse{
				Novelty:         u.Novelty,
				Recency:         u.Recency,
				Progress:        u.Progress,
				NearFinish:      u.NearFinish,
				MidProgress:     u.MidProgress,
				AchievementGap:  u.AchievementGap,
				PlaytimeHours:   u.PlaytimeHours,
				DaysSincePlayed: u.DaysSincePlayed,
				AchievementPct:  u.AchievementPct,
				CompletionRatio: u.CompletionRatio,
			},
			GenreMatch:     item.GenreMatch,
			Why:            nonNil(item.Why),
			Genres:         item.Game.Genres,
			EstimatedHours: item.Game.EstimatedHours,
			ImageURL:       item.Game.ImageURL,
			StoreURL:       item.Game.StoreURL,
		}
	}

	return resp
}

// RatingResponse is the rating a discovery quality score came from.
type RatingResponse struct {
	Value  float64 `json:"value"`
	Max    float64 `json:"max"`
	Source string  `json:"source"`
}

// DiscoveredGameResponse is one entry of a discovery response.
type DiscoveredGameResponse struct {
	AppID          int             `json:"appId,omitempty"`
	ExternalID     string          `json:"externalId,omitempty"`
	Source         string          `json:"source"`
	Name           string          `json:"name"`
	FinalScore     float64         `json:"finalScore"`
	Rank           int             `json:"rank"`
	Quality        float64         `json:"quality"`
	QualitySource  *RatingResponse `json:"qualitySource,omitempty"`
	VibeScore      float64         `json:"vibeScore"`
	MatchedVibes   []string        `json:"matchedVibes,omitempty"`
	DurationScore  float64         `json:"durationScore"`
	EstimatedHours *float64        `json:"estimatedHours,omitempty"`
	Genres         []string        `json:"genres,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	ImageURL       string          `json:"imageUrl,omitempty"`
	StoreURL       string          `json:"storeUrl,omitempty"`
	Why            []string        `json:"why"`
}

// DiscoverResponse is the body of a discovery response.
type DiscoverResponse struct {
	RequestID     string                   `json:"requestId"`
	GeneratedAt   string                   `json:"generatedAt"`
	Preferences   DiscoverRequest          `json:"preferences"`
	TotalAnalyzed int                      `json:"totalAnalyzed"`
	Skipped       int                      `json:"skipped"`
	Items         []DiscoveredGameResponse `json:"items"`
}

// FromDiscoveryResult converts domain.DiscoveryResult to DiscoverResponse.
// The preferences echo is the normalized request the engine scored against.
func FromDiscoveryResult(requestID string, r *domain.DiscoveryResult) DiscoverResponse {
	req := r.Request
	vibes := make([]string, len(req.Vibes))
	for i, v := range req.Vibes {
		vibes[i] = string(v)
	}

	resp := DiscoverResponse{
		RequestID:   requestID,
		GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
		Preferences: DiscoverRequest{
			Vibes:      vibes,
			Duration:   string(req.Duration),
			Energy:     string(req.Energy),
			Social:     string(req.Social),
			Tone:       string(req.Tone),
			Structure:  string(req.Structure),
			Controller: req.Controller,
			Language:   req.Language,
			Flavors:    req.Flavors,
			Limit:      req.Limit,
		},
		TotalAnalyzed: r.TotalAnalyzed,
		Skipped:       len(r.Skipped),
		Items:         make([]DiscoveredGameResponse, len(r.Items)),
	}

	for i, d := range r.Items {
		item := d.Item
		matched := make([]string, len(d.MatchedVibes))
		for j, v := range d.MatchedVibes {
			matched[j] = string(v)
		}

		entry := DiscoveredGameResponse{
			AppID:          item.AppID,
			ExternalID:     item.ExternalID,
			Source:         string(item.Source),
			Name:           item.Name,
			FinalScore:     d.FinalScore,
			Rank:           d.Rank,
			Quality:        d.Quality,
			VibeScore:      d.VibeScore,
			MatchedVibes:   matched,
			DurationScore:  d.DurationScore,
			EstimatedHours: item.EstimatedHours,
			Genres:         item.Genres,
			Summary:        item.Summary,
			ImageURL:       item.ImageURL,
			StoreURL:       item.StoreURL,
			Why:            nonNil(d.Why),
		}
		if d.QualitySource != nil {
			entry.QualitySource = &RatingResponse{
				Value:  d.QualitySource.Value,
				Max:    d.QualitySource.Max,
				Source: d.QualitySource.Source,
			}
		}
		resp.Items[i] = entry
	}

	return resp
}

// SyncResultResponse represents the response for a library sync.
type SyncResultResponse struct {
	SteamID        string `json:"steamId"`
	Games          int    `json:"games"`
	Enriched       int    `json:"enriched"`
	Reused         int    `json:"reused"`
	EnrichFailures int    `json:"enrichFailures"`
	Achievements   int    `json:"achievements"`
	Estimated      int    `json:"estimated"`
	Duration       string `json:"duration"`
	Error          string `json:"error,omitempty"`
}

// FromSyncResult converts service.SyncResult to SyncResultResponse.
func FromSyncResult(r service.SyncResult) SyncResultResponse {
	resp := SyncResultResponse{
		SteamID:        r.SteamID,
		Games:          r.Games,
		Enriched:       r.Enriched,
		Reused:         r.Reused,
		EnrichFailures: r.EnrichFailures,
		Achievements:   r.Achievements,
		Estimated:      r.Estimated,
		Duration:       r.Duration.String(),
	}
	if r.Error != nil {
		resp.Error = r.Error.Error()
	}
	return resp
}

// SyncResponse represents the response for the sync all operation.
type SyncResponse struct {
	Results []SyncResultResponse `json:"results"`
	Summary SyncSummary          `json:"summary"`
}

// SyncSummary holds the summary of a sync all operation.
type SyncSummary struct {
	Users       int `json:"users"`
	UsersOK     int `json:"usersOk"`
	UsersFailed int `json:"usersFailed"`
	TotalGames  int `json:"totalGames"`
}

// FromSyncResults converts service.SyncResult slice to SyncResponse.
func FromSyncResults(results []service.SyncResult) SyncResponse {
	resp := SyncResponse{
		Results: make([]SyncResultResponse, len(results)),
		Summary: SyncSummary{Users: len(results)},
	}

	for i, r := range results {
		if r.Error != nil {
			resp.Summary.UsersFailed++
		} else {
			resp.Summary.UsersOK++
			resp.Summary.TotalGames += r.Games
		}
		resp.Results[i] = FromSyncResult(r)
	}

	return resp
}

// ProviderStatus is the health of one external provider.
type ProviderStatus struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latencyMs"`
}

// ProvidersResponse lists the configured providers.
type ProvidersResponse struct {
	Providers []ProviderStatus `json:"providers"`
}

// FromDependencyStatuses converts health check results to ProvidersResponse.
func FromDependencyStatuses(statuses []service.DependencyStatus) ProvidersResponse {
	resp := ProvidersResponse{Providers: make([]ProviderStatus, len(statuses))}
	for i, s := range statuses {
		resp.Providers[i] = ProviderStatus{
			Name:      s.Name,
			Healthy:   s.Healthy,
			Error:     s.Error,
			LatencyMS: s.Latency.Milliseconds(),
		}
	}
	return resp
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
