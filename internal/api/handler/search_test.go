package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/albapepper/scoracle-search/internal/cache"
	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/provider"
	"github.com/albapepper/scoracle-search/internal/search"
	"github.com/albapepper/scoracle-search/internal/search/alias"
)

type stubProvider struct {
	result *provider.Result
	err    error
}

func (p *stubProvider) Fetch(ctx context.Context, req provider.Request) (*provider.Result, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func (p *stubProvider) Name() string { return "stub" }

func testHandler(p provider.Provider) *Handler {
	index := alias.NewIndex(alias.Dataset{
		Version: "test-1",
		Entities: []alias.Entity{
			{ID: 39, Kind: alias.KindLeague, Name: "Premier League"},
			{ID: 40, Kind: alias.KindTeam, Name: "Liverpool", LeagueID: 39},
			{ID: 306, Kind: alias.KindPlayer, Name: "Mohamed Salah", LeagueID: 39, TeamID: 40},
		},
	})
	cfg := &config.Config{
		ProviderTimeout: time.Second,
		LLMTimeout:      time.Second,
		DefaultLeagueID: 39,
		DefaultSeason:   2025,
		Search:          config.DefaultSearchConfig(),
	}
	engine := search.NewEngine(search.Options{Index: index, Provider: p, Config: cfg})
	return New(engine, index, cache.New(true), nil, cfg)
}

func TestSearchGet(t *testing.T) {
	h := testHandler(&stubProvider{result: &provider.Result{
		Source: "stub",
		Standings: []provider.StandingRow{
			{Rank: 1, TeamID: 40, TeamName: "Liverpool", Points: 58},
		},
	}})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q=premier+league+standings", nil)
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Type != "table" {
		t.Errorf("type = %q", body.Type)
	}
}

func TestSearchPost(t *testing.T) {
	h := testHandler(&stubProvider{result: &provider.Result{
		Source: "stub",
		Player: &provider.PlayerSeason{PlayerID: 306, Name: "Mohamed Salah", Season: 2025},
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search",
		strings.NewReader(`{"query": "mohamed salah stats", "session_id": "s1"}`))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Type != "player_card" {
		t.Errorf("type = %q", body.Type)
	}
}

func TestSearchPostInvalidBody(t *testing.T) {
	h := testHandler(&stubProvider{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	h.Search(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestSearchStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		provider provider.Provider
		query    string
		want     int
	}{
		{"empty query", &stubProvider{}, "", http.StatusBadRequest},
		{"unknown entity", &stubProvider{}, "zzqx vvrk stats", http.StatusNotFound},
		{"upstream down", &stubProvider{err: provider.NewError(provider.ErrUpstream, errors.New("down"))}, "premier league standings", http.StatusServiceUnavailable},
		{"upstream empty", &stubProvider{err: provider.NewError(provider.ErrNotFound, errors.New("no rows"))}, "premier league standings", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := testHandler(tt.provider)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q="+strings.ReplaceAll(tt.query, " ", "+"), nil)
			rec := httptest.NewRecorder()
			h.Search(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestGetEntitiesKindFilter(t *testing.T) {
	h := testHandler(&stubProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entities?kind=player", nil)
	rec := httptest.NewRecorder()
	h.GetEntities(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		DatasetVersion string         `json:"dataset_version"`
		Count          int            `json:"count"`
		Entities       []alias.Entity `json:"entities"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Count != 1 || body.Entities[0].ID != 306 {
		t.Errorf("body = %+v", body)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}

	// A second request with the ETag gets 304 from cache.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/entities?kind=player", nil)
	req.Header.Set("If-None-Match", rec.Header().Get("ETag"))
	rec2 := httptest.NewRecorder()
	h.GetEntities(rec2, req)
	if rec2.Code != http.StatusNotModified {
		t.Errorf("status = %d, want 304", rec2.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/entities?kind=banana", nil)
	rec3 := httptest.NewRecorder()
	h.GetEntities(rec3, req)
	if rec3.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec3.Code)
	}
}
