package steamspy

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/infra/provider"
)

const testEndpoint = "https://steamspy.example.com/api.php"

func newTestClient() *Client {
	cfg := provider.ClientConfig{
		BaseURL: "https://steamspy.example.com",
		Timeout: 5 * time.Second,
		CB: provider.CBConfig{
			MaxRequests:  5,
			Interval:     60 * time.Second,
			Timeout:      15 * time.Second,
			FailureRatio: 0.6,
		},
	}
	client := New(cfg, zap.NewNop())
	httpmock.ActivateNonDefault(client.caller.HTTP().GetClient())

	return client
}

func TestSteamSpy_Enrich_Success(t *testing.T) {
	client := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(200, `{
			"appid": 620,
			"name": "Portal 2",
			"positive": 9000,
			"negative": 1000,
			"average_forever": 900,
			"genre": "Action, Adventure",
			"tags": {"Puzzle": 5000, "Co-op": 4000, "Funny": 4000, "Sci-fi": 100}
		}`))

	game := &domain.CatalogItem{AppID: 620, Tags: []string{"co-op"}}
	err := client.Enrich(context.Background(), game)

	require.NoError(t, err)
	require.NotNil(t, game.SteamPositive)
	require.NotNil(t, game.SteamNegative)
	assert.Equal(t, 9000, *game.SteamPositive)
	assert.Equal(t, 1000, *game.SteamNegative)
	assert.Equal(t, []string{"co-op", "Puzzle", "Funny", "Sci-fi"}, game.Tags)
	assert.Equal(t, []string{"Action", "Adventure"}, game.Genres, "genres filled only when missing")

	q := domain.RankingQuality(game)
	require.NotNil(t, q.SteamWilson)
	assert.InDelta(t, 0.9, q.Combined, 1e-9)
}

func TestSteamSpy_Enrich_EmptyTagsArray(t *testing.T) {
	client := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(200, `{"appid": 10, "name": "Counter-Strike", "positive": 0, "negative": 0, "tags": []}`))

	game := &domain.CatalogItem{AppID: 10, Genres: []string{"Action"}}
	err := client.Enrich(context.Background(), game)

	require.NoError(t, err)
	assert.Nil(t, game.SteamPositive, "no reviews stays unknown")
	assert.Empty(t, game.Tags)
	assert.Equal(t, []string{"Action"}, game.Genres)
}

func TestSteamSpy_Enrich_UnknownApp(t *testing.T) {
	client := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint,
		httpmock.NewStringResponder(200, `{"appid": 0, "name": null, "positive": 0, "negative": 0, "tags": []}`))

	err := client.Enrich(context.Background(), &domain.CatalogItem{AppID: 123})

	require.ErrorIs(t, err, provider.ErrNotFound)
}

func TestSteamSpy_Enrich_ServerError(t *testing.T) {
	client := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", testEndpoint, httpmock.NewStringResponder(502, "bad gateway"))

	err := client.Enrich(context.Background(), &domain.CatalogItem{AppID: 620})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
