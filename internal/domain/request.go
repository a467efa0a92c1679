package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidRequest is wrapped by every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// Request limits.
const (
	MaxRankingLimit      = 20
	MaxDiscoverLimit     = 100
	DefaultRankingLimit  = 10
	DefaultDiscoverLimit = 20
)

// RankingRequest asks for a user's owned games ranked under a mode.
type RankingRequest struct {
	SteamID string
	Mode    Mode
	Limit   int
	// Vibes optionally describe preferred genres. They only feed the
	// genre-overlap sub-score, not the final score.
	Vibes []Vibe
}

// Validate rejects structurally invalid requests before any scoring.
// An unknown mode is not an error: it has already become ModeDefault.
func (r RankingRequest) Validate() error {
	if strings.TrimSpace(r.SteamID) == "" {
		return fmt.Errorf("%w: steam id is required", ErrInvalidRequest)
	}
	if r.Limit < 1 || r.Limit > MaxRankingLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidRequest, MaxRankingLimit, r.Limit)
	}
	return nil
}

// Discovery preference enums. They are echoed back and feed the catalog
// query; only vibes and duration take part in scoring.
type (
	Energy    string
	Social    string
	Tone      string
	Structure string
)

// DiscoverRequest is the free-form preference bag of the discovery flow.
type DiscoverRequest struct {
	Vibes      []Vibe
	Duration   DurationBucket
	Energy     Energy
	Social     Social
	Tone       Tone
	Structure  Structure
	Controller bool
	Language   string
	Flavors    []string
	Limit      int
}

// Validate rejects structurally invalid discovery requests.
func (r DiscoverRequest) Validate() error {
	if r.Limit < 1 || r.Limit > MaxDiscoverLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidRequest, MaxDiscoverLimit, r.Limit)
	}
	return nil
}

// CatalogQuery is what the discovery flow asks catalog providers for.
type CatalogQuery struct {
	Genres   []string
	Keywords []string
	PageSize int
}

// CacheKey returns a deterministic key for the query.
func (q CatalogQuery) CacheKey() string {
	return fmt.Sprintf("g=%s|k=%s|n=%d",
		strings.Join(sortedLower(q.Genres), ","),
		strings.Join(sortedLower(q.Keywords), ","),
		q.PageSize,
	)
}

// Query builds the catalog query for this request: genres come from the
// vibe vocabulary, keywords from flavor tags and the social preference.
func (r DiscoverRequest) Query(pageSize int) CatalogQuery {
	q := CatalogQuery{PageSize: pageSize}
	seen := map[string]struct{}{}
	for _, v := range r.Vibes {
		for _, g := range v.Genres() {
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				q.Genres = append(q.Genres, g)
			}
		}
	}
	for _, f := range r.Flavors {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			q.Keywords = append(q.Keywords, f)
		}
	}
	switch r.Social {
	case "coop":
		q.Keywords = append(q.Keywords, "co-op")
	case "competitive":
		q.Keywords = append(q.Keywords, "pvp")
	}
	return q
}

func sortedLower(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(strings.TrimSpace(s))
	}
	sort.Strings(out)
	return out
}
