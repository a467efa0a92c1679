package rawg

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/infra/provider"
)

const testEndpoint = "https://rawg.example.com/api/games"

func newTestClient() *Client {
	cfg := provider.ClientConfig{
		BaseURL: "https://rawg.example.com/api",
		Timeout: 5 * time.Second,
		Retry: provider.RetryConfig{
			MaxAttempts: 0,
		},
		CB: provider.CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
	}
	client := New(cfg, "rawg-key", zap.NewNop())
	httpmock.ActivateNonDefault(client.caller.HTTP().GetClient())

	return client
}

func mockSuccessResponse() GamesResponse {
	return GamesResponse{
		Count: 2,
		Results: []Game{
			{
				ID:              3328,
				Slug:            "the-witcher-3-wild-hunt",
				Name:            "The Witcher 3: Wild Hunt",
				BackgroundImage: "https://media.rawg.example.com/witcher.jpg",
				Rating:          4.66,
				RatingTop:       5,
				RatingsCount:    6000,
				Metacritic:      92,
				Playtime:        46,
				Genres:          []Tag{{ID: 4, Name: "Action", Slug: "action"}, {ID: 5, Name: "RPG", Slug: "role-playing-games-rpg"}},
				Tags: []Tag{
					{ID: 36, Name: "Open World", Slug: "open-world", Language: "eng"},
					{ID: 118, Name: "Story Rich", Slug: "story-rich", Language: "eng"},
					{ID: 900, Name: "Открытый мир", Slug: "otkrytyi-mir", Language: "rus"},
				},
			},
			{
				ID:   999,
				Slug: "unrated-indie",
				Name: "Unrated Indie",
			},
		},
	}
}

// TestRAWG_Search_Success tests successful JSON fetch and conversion.
func TestRAWG_Search_Success(t *testing.T) {
	client := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "rawg-key", q.Get("key"))
			assert.Equal(t, "adventure,role-playing-games-rpg", q.Get("genres"))
			assert.Equal(t, "co-op,open-world", q.Get("tags"))
			assert.Equal(t, "40", q.Get("page_size"))
			assert.Equal(t, "-metacritic", q.Get("ordering"))

			return httpmock.NewJsonResponse(200, mockSuccessResponse())
		})

	items, err := client.Search(context.Background(), domain.CatalogQuery{
		Genres:   []string{"adventure", "rpg", "role-playing (rpg)"},
		Keywords: []string{"co-op", "Open World"},
		PageSize: 100,
	})

	require.NoError(t, err)
	require.Len(t, items, 2)

	witcher := items[0]
	assert.Equal(t, domain.SourceRAWG, witcher.Source)
	assert.Equal(t, "3328", witcher.ExternalID)
	assert.Equal(t, []string{"Action", "RPG"}, witcher.Genres)
	assert.Equal(t, []string{"open-world", "story-rich"}, witcher.Tags)
	require.NotNil(t, witcher.CriticRating)
	assert.Equal(t, 5.0, witcher.CriticRating.Max)
	assert.InDelta(t, 93.2, witcher.CriticRating.Percent(), 1e-9)
	require.NotNil(t, witcher.Metacritic)
	assert.Equal(t, 92.0, *witcher.Metacritic)
	require.NotNil(t, witcher.EstimatedHours)
	assert.Equal(t, 46.0, *witcher.EstimatedHours)
	assert.Equal(t, "https://rawg.io/games/the-witcher-3-wild-hunt", witcher.StoreURL)

	unrated := items[1]
	assert.Nil(t, unrated.CriticRating)
	assert.Nil(t, unrated.Metacritic)
	assert.Nil(t, unrated.EstimatedHours)
}

// TestRAWG_Search_NoFilters tests that empty queries omit filter params.
func TestRAWG_Search_NoFilters(t *testing.T) {
	client := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.False(t, q.Has("genres"))
			assert.False(t, q.Has("tags"))
			assert.Equal(t, "20", q.Get("page_size"))

			return httpmock.NewJsonResponse(200, GamesResponse{})
		})

	items, err := client.Search(context.Background(), domain.CatalogQuery{PageSize: 20})

	require.NoError(t, err)
	assert.Empty(t, items)
}

// TestRAWG_Search_HTTPError tests client and server error handling.
func TestRAWG_Search_HTTPError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"401 Unauthorized", 401},
		{"404 Not Found", 404},
		{"500 Internal Server Error", 500},
		{"503 Service Unavailable", 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient()
			defer httpmock.DeactivateAndReset()

			httpmock.RegisterResponder("GET", testEndpoint,
				httpmock.NewStringResponder(tt.statusCode, "Error"))

			items, err := client.Search(context.Background(), domain.CatalogQuery{})

			require.Error(t, err)
			assert.Nil(t, items)
			assert.Contains(t, err.Error(), fmt.Sprintf("status %d", tt.statusCode))
		})
	}
}

// TestRAWG_Search_NetworkError tests network error handling.
func TestRAWG_Search_NetworkError(t *testing.T) {
	client := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewErrorResponder(fmt.Errorf("network error: connection refused")))

	items, err := client.Search(context.Background(), domain.CatalogQuery{})

	require.Error(t, err)
	assert.Nil(t, items)
	assert.Contains(t, err.Error(), "connection refused")
}

// TestRAWG_Search_ContextCancelled tests context cancellation handling.
func TestRAWG_Search_ContextCancelled(t *testing.T) {
	client := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, GamesResponse{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items, err := client.Search(ctx, domain.CatalogQuery{})

	require.Error(t, err)
	assert.Nil(t, items)
}

// TestRAWG_Search_ScoresThroughDiscovery checks converted items feed the
// discovery scorer on the right scale.
func TestRAWG_Search_ScoresThroughDiscovery(t *testing.T) {
	client := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewJsonResponderOrPanic(200, mockSuccessResponse()))

	items, err := client.Search(context.Background(), domain.CatalogQuery{})
	require.NoError(t, err)

	quality, rating := domain.DiscoveryQuality(items[0])
	require.NotNil(t, rating)
	// 4.66/5 = 93.2% beats Metacritic 92 on the 60-95 window.
	assert.Equal(t, "RAWG", rating.Source)
	assert.InDelta(t, (93.2-60)/35, quality, 1e-9)
}
