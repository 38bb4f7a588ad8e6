package search

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/provider"
	"github.com/albapepper/scoracle-search/internal/search/alias"
	"github.com/albapepper/scoracle-search/internal/search/payload"
	"github.com/albapepper/scoracle-search/internal/search/session"
)

// scriptedProvider serves canned results keyed by resource.
type scriptedProvider struct {
	mu      sync.Mutex
	calls   []provider.Request
	results map[provider.Resource]*provider.Result
	err     error
}

func (p *scriptedProvider) Fetch(ctx context.Context, req provider.Request) (*provider.Result, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	p.mu.Unlock()

	if p.err != nil {
		return nil, p.err
	}
	if r, ok := p.results[req.Resource]; ok {
		return r, nil
	}
	return nil, provider.NewError(provider.ErrNotFound, errors.New("unscripted resource"))
}

func (p *scriptedProvider) Name() string { return "scripted" }

func intp(v int) *int { return &v }

func testIndex() *alias.Index {
	return alias.NewIndex(alias.Dataset{
		Version: "test-1",
		Entities: []alias.Entity{
			{ID: 39, Kind: alias.KindLeague, Name: "Premier League"},
			{ID: 40, Kind: alias.KindTeam, Name: "Liverpool", LeagueID: 39},
			{ID: 50, Kind: alias.KindTeam, Name: "Manchester City", LeagueID: 39},
			{ID: 306, Kind: alias.KindPlayer, Name: "Mohamed Salah", LeagueID: 39, TeamID: 40},
			{ID: 1100, Kind: alias.KindPlayer, Name: "Erling Haaland", LeagueID: 39, TeamID: 50},
			{ID: 747, Kind: alias.KindPlayer, Name: "Bruno Fernandes", LeagueID: 39, TeamID: 33},
			{ID: 1301, Kind: alias.KindPlayer, Name: "Bruno Guimaraes", LeagueID: 39, TeamID: 34},
		},
		Aliases: map[string][]string{
			"league:39":  {"epl", "prem"},
			"player:306": {"mo salah"},
		},
	})
}

func testConfig() *config.Config {
	return &config.Config{
		ProviderTimeout: time.Second,
		LLMTimeout:      time.Second,
		DefaultLeagueID: 39,
		DefaultSeason:   2025,
		Search:          config.DefaultSearchConfig(),
	}
}

func newTestEngine(p provider.Provider) *Engine {
	return NewEngine(Options{
		Index:    testIndex(),
		Provider: p,
		Sessions: session.NewStore(time.Minute),
		Config:   testConfig(),
	})
}

func TestSearchEmptyQuery(t *testing.T) {
	e := newTestEngine(&scriptedProvider{})

	resp := e.Search(context.Background(), Request{Query: "   "})
	require.Equal(t, payload.TypeError, resp.Type)
	errPayload := resp.Data.(payload.Error)
	assert.Equal(t, payload.ErrEmptyQuery, errPayload.Kind)
	assert.NotEmpty(t, errPayload.Examples)
}

func TestSearchUnsupportedQuery(t *testing.T) {
	e := newTestEngine(&scriptedProvider{})

	resp := e.Search(context.Background(), Request{Query: "please write me a poem about rainy tuesday afternoons"})
	require.Equal(t, payload.TypeError, resp.Type)
	assert.Equal(t, payload.ErrUnsupportedQuery, resp.Data.(payload.Error).Kind)
}

func TestSearchStandings(t *testing.T) {
	p := &scriptedProvider{results: map[provider.Resource]*provider.Result{
		provider.ResourceStandings: {
			Source: "api-football",
			Standings: []provider.StandingRow{
				{Rank: 1, TeamID: 40, TeamName: "Liverpool", Points: 58},
			},
		},
	}}
	e := newTestEngine(p)

	resp := e.Search(context.Background(), Request{Query: "premier league standings"})
	require.Equal(t, payload.TypeTable, resp.Type)
	table := resp.Data.(*payload.Table)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Liverpool", table.Rows[0]["team"])
	assert.Equal(t, []string{"api-football"}, resp.SourcesUsed)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, "STANDINGS", resp.Meta.Intent)
	assert.False(t, resp.Meta.UsedLLM)

	require.Len(t, p.calls, 1)
	assert.Equal(t, 39, p.calls[0].LeagueID)
	assert.Equal(t, 2025, p.calls[0].Season)
}

func TestSearchPlayerLookupFlipsFromBareName(t *testing.T) {
	p := &scriptedProvider{results: map[provider.Resource]*provider.Result{
		provider.ResourcePlayerStats: {
			Source: "api-football",
			Player: &provider.PlayerSeason{PlayerID: 306, Name: "Mohamed Salah", Season: 2025, Goals: intp(19)},
		},
	}}
	e := newTestEngine(p)

	resp := e.Search(context.Background(), Request{Query: "mo salah stats"})
	require.Equal(t, payload.TypePlayerCard, resp.Type)
	card := resp.Data.(*payload.PlayerCard)
	assert.Equal(t, 306, card.Entity.ID)
	assert.Equal(t, []string{"Mohamed Salah"}, resp.Meta.Entities)
}

func TestSearchDisambiguation(t *testing.T) {
	e := newTestEngine(&scriptedProvider{})

	resp := e.Search(context.Background(), Request{Query: "bruno stats"})
	require.Equal(t, payload.TypeDisambiguation, resp.Type)
	d := resp.Data.(payload.Disambiguation)
	assert.Equal(t, `Which "bruno" did you mean?`, d.Question)
	require.Len(t, d.Candidates, 2)
	assert.Equal(t, 747, d.Candidates[0].Entity.ID)
}

func TestSearchNotFound(t *testing.T) {
	e := newTestEngine(&scriptedProvider{})

	resp := e.Search(context.Background(), Request{Query: "zzqx vvrk stats"})
	require.Equal(t, payload.TypeError, resp.Type)
	assert.Equal(t, payload.ErrNotFound, resp.Data.(payload.Error).Kind)
}

func TestSearchUpstreamFailure(t *testing.T) {
	p := &scriptedProvider{err: provider.NewError(provider.ErrUpstream, errors.New("down"))}
	e := newTestEngine(p)

	resp := e.Search(context.Background(), Request{Query: "premier league standings"})
	require.Equal(t, payload.TypeError, resp.Type)
	assert.Equal(t, payload.ErrUpstreamUnavailable, resp.Data.(payload.Error).Kind)
}

func TestSearchSessionFollowUp(t *testing.T) {
	p := &scriptedProvider{results: map[provider.Resource]*provider.Result{
		provider.ResourcePlayerStats: {
			Source: "api-football",
			Player: &provider.PlayerSeason{PlayerID: 306, Name: "Mohamed Salah", Season: 2025, Goals: intp(19)},
		},
	}}
	e := newTestEngine(p)

	first := e.Search(context.Background(), Request{Query: "mo salah stats", SessionID: "sess-1"})
	require.Equal(t, payload.TypePlayerCard, first.Type)

	second := e.Search(context.Background(), Request{Query: "his goals", SessionID: "sess-1"})
	require.Equal(t, payload.TypePlayerCard, second.Type)
	assert.Equal(t, 306, second.Data.(*payload.PlayerCard).Entity.ID)
	assert.NotEmpty(t, second.Assumptions)
}

func TestSearchComparisonBothSidesFail(t *testing.T) {
	e := newTestEngine(&scriptedProvider{})

	resp := e.Search(context.Background(), Request{Query: "compare salah and haaland"})
	require.Equal(t, payload.TypeError, resp.Type)
}

func TestSearchComparison(t *testing.T) {
	p := &scriptedProvider{results: map[provider.Resource]*provider.Result{
		provider.ResourcePlayerStats: {
			Source: "api-football",
			Player: &provider.PlayerSeason{PlayerID: 306, Name: "Mohamed Salah", Season: 2025, Goals: intp(19)},
		},
	}}
	e := newTestEngine(p)

	resp := e.Search(context.Background(), Request{Query: "compare salah and haaland"})
	require.Equal(t, payload.TypeComparison, resp.Type)
	cmp := resp.Data.(*payload.Comparison)
	assert.Equal(t, "Mohamed Salah", cmp.Left.Name)
	assert.Equal(t, "Erling Haaland", cmp.Right.Name)
	assert.False(t, cmp.CrossLeague)
}

func TestSearchMetaLatency(t *testing.T) {
	e := newTestEngine(&scriptedProvider{})

	resp := e.Search(context.Background(), Request{Query: ""})
	require.NotNil(t, resp.Meta)
	assert.GreaterOrEqual(t, resp.Meta.LatencyMS, int64(0))
	assert.NotEmpty(t, resp.AsOf)
}

func TestSearchRequestOverrides(t *testing.T) {
	p := &scriptedProvider{results: map[provider.Resource]*provider.Result{
		provider.ResourceStandings: {Source: "api-football"},
	}}
	e := newTestEngine(p)

	resp := e.Search(context.Background(), Request{
		Query:    "standings",
		Season:   2023,
		LeagueID: 140,
	})
	require.Equal(t, payload.TypeTable, resp.Type)
	require.Len(t, p.calls, 1)
	assert.Equal(t, 2023, p.calls[0].Season)
	assert.Equal(t, 140, p.calls[0].LeagueID)
}

func TestSearchExplicitEntityIDs(t *testing.T) {
	p := &scriptedProvider{results: map[provider.Resource]*provider.Result{
		provider.ResourcePlayerStats: {
			Source: "api-football",
			Player: &provider.PlayerSeason{PlayerID: 1301, Name: "Bruno Guimaraes", Season: 2025},
		},
	}}
	e := newTestEngine(p)

	// The bare query would be ambiguous; the explicit ID skips matching.
	resp := e.Search(context.Background(), Request{
		Query:     "bruno stats",
		EntityIDs: []string{"player:1301"},
	})
	require.Equal(t, payload.TypePlayerCard, resp.Type)
	assert.Equal(t, 1301, resp.Data.(*payload.PlayerCard).Entity.ID)
}

func TestSearchSessionUpdateEnvelope(t *testing.T) {
	p := &scriptedProvider{results: map[provider.Resource]*provider.Result{
		provider.ResourcePlayerStats: {
			Source: "api-football",
			Player: &provider.PlayerSeason{PlayerID: 306, Name: "Mohamed Salah", Season: 2025},
		},
	}}
	e := newTestEngine(p)

	resp := e.Search(context.Background(), Request{Query: "mo salah stats", SessionID: "sess-9"})
	require.NotNil(t, resp.Session)
	assert.Equal(t, "PLAYER_LOOKUP", resp.Session.Intent)
	require.Len(t, resp.Session.Entities, 1)
	assert.Equal(t, 306, resp.Session.Entities[0].ID)

	// No session, no update.
	resp = e.Search(context.Background(), Request{Query: "mo salah stats"})
	assert.Nil(t, resp.Session)
}

func TestSearchPunctuationOnlyQuery(t *testing.T) {
	e := newTestEngine(&scriptedProvider{})

	resp := e.Search(context.Background(), Request{Query: "?!?"})
	require.Equal(t, payload.TypeError, resp.Type)
	assert.Equal(t, payload.ErrEmptyQuery, resp.Data.(payload.Error).Kind)
}
