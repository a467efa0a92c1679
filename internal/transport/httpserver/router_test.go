package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"game-recommendation-service/internal/app/service"
	"game-recommendation-service/internal/domain"
	"game-recommendation-service/internal/metrics"
	"game-recommendation-service/internal/transport/httpserver/dto"
	"game-recommendation-service/internal/transport/httpserver/middleware"
	"game-recommendation-service/internal/validator"
)

const (
	testSteamID    = "76561197960287930"
	testAdminToken = "s3cret"
)

var generatedAt = time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)

type stubRanker struct {
	mu    sync.Mutex
	req   domain.RankingRequest
	err   error
	panic bool
}

func (r *stubRanker) Rank(_ context.Context, req domain.RankingRequest) (*domain.RankingResult, error) {
	r.mu.Lock()
	r.req = req
	r.mu.Unlock()
	if r.panic {
		panic("nil catalog record")
	}
	if r.err != nil {
		return nil, r.err
	}
	return &domain.RankingResult{
		GeneratedAt:        generatedAt,
		SteamID:            req.SteamID,
		Mode:               req.Mode,
		TotalGamesAnalyzed: 2,
		Items: []domain.RankedGame{{
			Game:       &domain.CatalogItem{AppID: 620, Name: "Portal 2"},
			Ownership:  domain.Ownership{AppID: 620, SteamID: req.SteamID},
			FinalScore: 0.9,
			Rank:       1,
			Why:        []string{domain.ReasonStartToday},
		}},
	}, nil
}

type stubDiscoverer struct {
	req domain.DiscoverRequest
	err error
}

func (d *stubDiscoverer) Discover(_ context.Context, req domain.DiscoverRequest) (*domain.DiscoveryResult, error) {
	d.req = req
	if d.err != nil {
		return nil, d.err
	}
	return &domain.DiscoveryResult{
		GeneratedAt:   generatedAt,
		Request:       req,
		TotalAnalyzed: 1,
		Items: []domain.DiscoveredGame{{
			Item:       &domain.CatalogItem{Source: domain.SourceRAWG, ExternalID: "3498", Name: "Stardew Valley"},
			Quality:    0.8,
			FinalScore: 0.85,
			Rank:       1,
		}},
	}, nil
}

type stubSyncer struct {
	mu      sync.Mutex
	synced  []string
	userErr error
}

func (s *stubSyncer) SyncUser(_ context.Context, steamID string) (*service.SyncResult, error) {
	s.mu.Lock()
	s.synced = append(s.synced, steamID)
	s.mu.Unlock()
	if s.userErr != nil {
		return nil, s.userErr
	}
	return &service.SyncResult{SteamID: steamID, Games: 12}, nil
}

func (s *stubSyncer) SyncAll(context.Context) ([]service.SyncResult, error) {
	return []service.SyncResult{{SteamID: testSteamID, Games: 12}}, nil
}

type stubHealth struct {
	ready bool
}

func (h stubHealth) Ready(context.Context) ([]service.DependencyStatus, bool) {
	return nil, h.ready
}

func (h stubHealth) Providers(context.Context) []service.DependencyStatus {
	return []service.DependencyStatus{
		{Name: "steam", Healthy: true, Latency: 20 * time.Millisecond},
		{Name: "igdb", Healthy: false, Error: "status 401"},
	}
}

type testServer struct {
	*Server
	ranker     *stubRanker
	discoverer *stubDiscoverer
	syncer     *stubSyncer
	rec        *metrics.Recorder
}

func newTestServer(t *testing.T, ready bool) *testServer {
	t.Helper()

	ts := &testServer{
		ranker:     &stubRanker{},
		discoverer: &stubDiscoverer{},
		syncer:     &stubSyncer{},
		rec:        metrics.New(),
	}
	ts.Server = NewServer(ServerConfig{
		AppName:     "test",
		AdminToken:  testAdminToken,
		MetricsPath: "/metrics",
	}, Services{
		Ranker:     ts.ranker,
		Discoverer: ts.discoverer,
		Syncer:     ts.syncer,
		Health:     stubHealth{ready: ready},
	}, ts.rec, validator.New(), zap.NewNop())

	return ts
}

func (ts *testServer) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := ts.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func TestProbes(t *testing.T) {
	ts := newTestServer(t, false)

	resp, _ := ts.do(t, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	ready := newTestServer(t, true)
	resp, _ = ready.do(t, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRecommend(t *testing.T) {
	ts := newTestServer(t, true)

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet,
		"/api/v1/users/"+testSteamID+"/recommendations?mode=jogar&limit=5&vibes=relax,story", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got dto.RecommendationResponse
	require.NoError(t, json.Unmarshal(body, &got))

	_, err := uuid.Parse(got.RequestID)
	assert.NoError(t, err, "request id is a uuid")
	assert.Equal(t, got.RequestID, resp.Header.Get("X-Request-ID"))
	assert.Equal(t, "2026-10-01T12:00:00Z", got.GeneratedAt)
	assert.Equal(t, "play", got.Mode)
	assert.Equal(t, 2, got.TotalGamesAnalyzed)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 620, got.Items[0].AppID)
	assert.Equal(t, 1, got.Items[0].Rank)
	assert.Equal(t, []string{domain.ReasonStartToday}, got.Items[0].Why)

	assert.Equal(t, domain.ModePlay, ts.ranker.req.Mode)
	assert.Equal(t, 5, ts.ranker.req.Limit)
	assert.Equal(t, []domain.Vibe{domain.VibeRelax, domain.VibeStory}, ts.ranker.req.Vibes)
	assert.Empty(t, ts.syncer.synced, "no refresh unless asked")
}

func TestRecommend_UsesCamelCase(t *testing.T) {
	ts := newTestServer(t, true)

	_, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/users/"+testSteamID+"/recommendations", nil))

	for _, key := range []string{`"requestId"`, `"generatedAt"`, `"totalGamesAnalyzed"`, `"appId"`, `"finalScore"`, `"nearFinish"`} {
		assert.Contains(t, string(body), key)
	}
	assert.Equal(t, domain.DefaultRankingLimit, ts.ranker.req.Limit)
}

func TestRecommend_Invalid(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"vanity name", "/api/v1/users/gaben/recommendations"},
		{"limit above max", "/api/v1/users/" + testSteamID + "/recommendations?limit=21"},
		{"limit not a number", "/api/v1/users/" + testSteamID + "/recommendations?limit=ten"},
		{"unknown vibe", "/api/v1/users/" + testSteamID + "/recommendations?vibes=spooky"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, true)

			resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			assert.Empty(t, ts.ranker.req.SteamID, "ranker not called")
		})
	}
}

func TestRecommend_Refresh(t *testing.T) {
	ts := newTestServer(t, true)
	ts.syncer.userErr = service.ErrSyncInProgress

	resp, _ := ts.do(t, httptest.NewRequest(http.MethodGet,
		"/api/v1/users/"+testSteamID+"/recommendations?refresh=true", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode, "a cooled-down sync still ranks the stored library")
	assert.Equal(t, []string{testSteamID}, ts.syncer.synced)
}

func TestRecommend_ServiceErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"invalid request", domain.ErrInvalidRequest, http.StatusBadRequest},
		{"database down", errors.New("loading library: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, true)
			ts.ranker.err = tt.err

			resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/users/"+testSteamID+"/recommendations", nil))
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.NotContains(t, string(body), "connection refused", "internal errors are not leaked")
		})
	}
}

func TestRecommend_PanicRecovered(t *testing.T) {
	ts := newTestServer(t, true)
	ts.ranker.panic = true

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/users/"+testSteamID+"/recommendations", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), `"PANIC"`)
}

func TestDiscover(t *testing.T) {
	ts := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/discover",
		strings.NewReader(`{"vibes":["relax"],"duration":"medium","social":"coop","limit":5}`))
	req.Header.Set("Content-Type", "application/json")

	resp, body := ts.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got dto.DiscoverResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 1, got.TotalAnalyzed)
	assert.Equal(t, "medium", got.Preferences.Duration)
	assert.Equal(t, []string{"relax"}, got.Preferences.Vibes)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Stardew Valley", got.Items[0].Name)
	assert.Equal(t, "RAWG", got.Items[0].Source)

	assert.Equal(t, 5, ts.discoverer.req.Limit)
	assert.Equal(t, domain.DurationMedium, ts.discoverer.req.Duration)
}

func TestDiscover_EmptyBodyUsesDefaults(t *testing.T) {
	ts := newTestServer(t, true)

	resp, _ := ts.do(t, httptest.NewRequest(http.MethodPost, "/api/v1/discover", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.DefaultDiscoverLimit, ts.discoverer.req.Limit)
	assert.Equal(t, domain.DurationAny, ts.discoverer.req.Duration)
}

func TestDiscover_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{name: "malformed json", body: `{"vibes":`, wantCode: http.StatusBadRequest, wantErr: "INVALID_PARAMS"},
		{name: "limit above max", body: `{"limit":101}`, wantCode: http.StatusBadRequest, wantErr: "VALIDATION_ERROR"},
		{name: "all catalogs down", body: `{}`, err: service.ErrCatalogsUnavailable, wantCode: http.StatusBadGateway, wantErr: "PROVIDERS_UNAVAILABLE"},
		{name: "no catalogs", body: `{}`, err: service.ErrNoCatalogs, wantCode: http.StatusServiceUnavailable, wantErr: "PROVIDER_DISABLED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, true)
			ts.discoverer.err = tt.err

			req := httptest.NewRequest(http.MethodPost, "/api/v1/discover", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, body := ts.do(t, req)
			assert.Equal(t, tt.wantCode, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantErr)
		})
	}
}

func TestAdmin_RequiresToken(t *testing.T) {
	ts := newTestServer(t, true)

	resp, _ := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/admin/providers", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/providers", nil)
	req.Header.Set(middleware.AdminTokenHeader, "wrong")
	resp, _ = ts.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdmin_Providers(t *testing.T) {
	ts := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/providers", nil)
	req.Header.Set(middleware.AdminTokenHeader, testAdminToken)
	resp, body := ts.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got dto.ProvidersResponse
	require.NoError(t, json.Unmarshal(body, &got))
	require.Len(t, got.Providers, 2)
	assert.Equal(t, int64(20), got.Providers[0].LatencyMS)
	assert.False(t, got.Providers[1].Healthy)
	assert.Equal(t, "status 401", got.Providers[1].Error)
}

func TestAdmin_SyncUser(t *testing.T) {
	ts := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/"+testSteamID+"/sync", nil)
	req.Header.Set(middleware.AdminTokenHeader, testAdminToken)
	resp, body := ts.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got dto.SyncResultResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 12, got.Games)

	ts.syncer.userErr = service.ErrSyncInProgress
	req = httptest.NewRequest(http.MethodPost, "/api/v1/admin/users/"+testSteamID+"/sync", nil)
	req.Header.Set(middleware.AdminTokenHeader, testAdminToken)
	resp, _ = ts.do(t, req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdmin_SyncAll(t *testing.T) {
	ts := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/sync", nil)
	req.Header.Set(middleware.AdminTokenHeader, testAdminToken)
	resp, body := ts.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got dto.SyncResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, dto.SyncSummary{Users: 1, UsersOK: 1, TotalGames: 12}, got.Summary)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, true)

	ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/users/"+testSteamID+"/recommendations", nil))

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `game_recommendation_http_requests_total{method="GET",route="/api/v1/users/:steamId/recommendations",status="200"} 1`)
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, true)

	resp, body := ts.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/contents", nil))

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), `"NOT_FOUND"`)
}
