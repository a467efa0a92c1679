// Package dto provides Data Transfer Objects for HTTP requests and responses.
package dto

import (
	"strings"

	"game-recommendation-service/internal/domain"
)

// RecommendationRequest holds the path and query parameters of
// GET /api/v1/users/:steamId/recommendations.
type RecommendationRequest struct {
	SteamID string `params:"steamId" validate:"required,steamid"`
	Mode    string `query:"mode" validate:"omitempty,max=20"`
	Limit   int    `query:"limit" validate:"omitempty,min=1,max=20"`
	// RawVibes is the comma-separated vibes query parameter.
	RawVibes string   `query:"vibes" validate:"-"`
	Vibes    []string `query:"-" json:"vibes" validate:"max=10,dive,vibe"`
	// Refresh syncs the library from Steam before ranking.
	Refresh bool `query:"refresh"`
}

// SplitVibes fills Vibes from the raw query parameter.
func (r *RecommendationRequest) SplitVibes() {
	r.Vibes = splitList(r.RawVibes)
}

// ToDomain converts the request to a domain.RankingRequest.
// An unknown mode becomes the default mode and a zero limit the default limit.
func (r *RecommendationRequest) ToDomain() domain.RankingRequest {
	req := domain.RankingRequest{
		SteamID: r.SteamID,
		Mode:    domain.ParseMode(r.Mode),
		Limit:   domain.DefaultRankingLimit,
		Vibes:   domain.ParseVibes(r.Vibes),
	}
	if r.Limit > 0 {
		req.Limit = r.Limit
	}
	return req
}

// DiscoverRequest is the JSON body of POST /api/v1/discover.
type DiscoverRequest struct {
	Vibes      []string `json:"vibes" validate:"max=10,dive,vibe"`
	Duration   string   `json:"duration" validate:"omitempty,max=20"`
	Energy     string   `json:"energy" validate:"omitempty,oneof=low medium high any"`
	Social     string   `json:"social" validate:"omitempty,oneof=solo coop competitive any"`
	Tone       string   `json:"tone" validate:"omitempty,oneof=light neutral dark any"`
	Structure  string   `json:"structure" validate:"omitempty,oneof=linear open sandbox any"`
	Controller bool     `json:"controller"`
	Language   string   `json:"language" validate:"omitempty,max=35"`
	Flavors    []string `json:"flavors" validate:"max=10,dive,max=40"`
	Limit      int      `json:"limit" validate:"omitempty,min=1,max=100"`
}

// ToDomain converts the request to a domain.DiscoverRequest.
// An unknown duration bucket becomes "any" and a zero limit the default limit.
func (r *DiscoverRequest) ToDomain() domain.DiscoverRequest {
	req := domain.DiscoverRequest{
		Vibes:      domain.ParseVibes(r.Vibes),
		Duration:   domain.ParseDurationBucket(r.Duration),
		Energy:     domain.Energy(r.Energy),
		Social:     domain.Social(r.Social),
		Tone:       domain.Tone(r.Tone),
		Structure:  domain.Structure(r.Structure),
		Controller: r.Controller,
		Language:   strings.TrimSpace(r.Language),
		Flavors:    r.Flavors,
		Limit:      domain.DefaultDiscoverLimit,
	}
	if r.Limit > 0 {
		req.Limit = r.Limit
	}
	return req
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
