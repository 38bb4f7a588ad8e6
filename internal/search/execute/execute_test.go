package execute

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/albapepper/scoracle-search/internal/provider"
	"github.com/albapepper/scoracle-search/internal/search/alias"
	"github.com/albapepper/scoracle-search/internal/search/intent"
	"github.com/albapepper/scoracle-search/internal/search/normalize"
	"github.com/albapepper/scoracle-search/internal/search/resolve"
)

// fakeProvider records every request and replies from a per-call script.
type fakeProvider struct {
	mu    sync.Mutex
	calls []provider.Request

	// errs are consumed one per call; nil means success.
	errs []error
	fail func(req provider.Request) error
}

func (f *fakeProvider) Fetch(ctx context.Context, req provider.Request) (*provider.Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	n := len(f.calls)
	f.mu.Unlock()

	if f.fail != nil {
		if err := f.fail(req); err != nil {
			return nil, err
		}
	}
	if n <= len(f.errs) && f.errs[n-1] != nil {
		return nil, f.errs[n-1]
	}
	return &provider.Result{Source: "fake"}, nil
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func resolved(kind alias.Kind, id, leagueID int, name string) resolve.Resolved {
	return resolve.Resolved{Entity: alias.Entity{ID: id, Kind: kind, Name: name, LeagueID: leagueID}}
}

func TestExecuteStandings(t *testing.T) {
	fake := &fakeProvider{}
	e := NewExecutor(fake, time.Second, 2025, nil)

	out, err := e.Execute(context.Background(), resolve.Resolution{Intent: intent.Standings, LeagueID: 39}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Result == nil || out.Season != 2025 {
		t.Fatalf("out = %+v", out)
	}
	req := fake.calls[0]
	if req.Resource != provider.ResourceStandings || req.LeagueID != 39 || req.Season != 2025 {
		t.Errorf("request = %+v", req)
	}
	if len(out.Sources) != 1 || out.Sources[0] != "fake" {
		t.Errorf("sources = %v", out.Sources)
	}
}

func TestExecuteSeasonModifier(t *testing.T) {
	fake := &fakeProvider{}
	e := NewExecutor(fake, time.Second, 2025, nil)

	mod := &normalize.TimeModifier{Kind: normalize.TimeSeason, SeasonYear: 2023}
	out, err := e.Execute(context.Background(), resolve.Resolution{Intent: intent.TopScorers, LeagueID: 39}, mod)
	if err != nil {
		t.Fatal(err)
	}
	if out.Season != 2023 || fake.calls[0].Season != 2023 {
		t.Errorf("season = %d, request = %+v", out.Season, fake.calls[0])
	}
	if fake.calls[0].Limit != defaultLeaderboardLimit {
		t.Errorf("limit = %d", fake.calls[0].Limit)
	}
}

func TestExecuteScheduleTimeWindow(t *testing.T) {
	fake := &fakeProvider{}
	e := NewExecutor(fake, time.Second, 2025, nil)

	res := resolve.Resolution{
		Intent:   intent.Schedule,
		LeagueID: 39,
		Entities: []resolve.Resolved{resolved(alias.KindTeam, 40, 39, "Liverpool")},
	}
	mod := &normalize.TimeModifier{Kind: normalize.TimePast, Count: 5}
	if _, err := e.Execute(context.Background(), res, mod); err != nil {
		t.Fatal(err)
	}
	req := fake.calls[0]
	if req.Resource != provider.ResourceFixtures || req.TeamID != 40 || !req.Past || req.Limit != 5 {
		t.Errorf("request = %+v", req)
	}
}

func TestExecuteHeadToHeadPairing(t *testing.T) {
	fake := &fakeProvider{}
	e := NewExecutor(fake, time.Second, 2025, nil)

	res := resolve.Resolution{
		Intent:   intent.MatchLookup,
		LeagueID: 39,
		Entities: []resolve.Resolved{
			resolved(alias.KindTeam, 40, 39, "Liverpool"),
			resolved(alias.KindTeam, 33, 39, "Manchester United"),
		},
	}
	if _, err := e.Execute(context.Background(), res, nil); err != nil {
		t.Fatal(err)
	}
	req := fake.calls[0]
	if req.Resource != provider.ResourceHeadToHead {
		t.Fatalf("resource = %q, want head_to_head", req.Resource)
	}
	if req.TeamID != 40 || req.OpponentID != 33 {
		t.Errorf("pairing = %d vs %d, want 40 vs 33", req.TeamID, req.OpponentID)
	}
}

func TestExecuteRetriesTransientFailure(t *testing.T) {
	fake := &fakeProvider{errs: []error{provider.NewError(provider.ErrTimeout, errors.New("slow"))}}
	e := NewExecutor(fake, time.Second, 2025, nil)

	res := resolve.Resolution{Intent: intent.Standings, LeagueID: 39}
	out, err := e.Execute(context.Background(), res, nil)
	if err != nil {
		t.Fatalf("retry did not recover: %v", err)
	}
	if out.Result == nil {
		t.Fatal("no result after successful retry")
	}
	if fake.callCount() != 2 {
		t.Errorf("calls = %d, want 2", fake.callCount())
	}
}

func TestExecuteNoRetryOnPermanentFailure(t *testing.T) {
	fake := &fakeProvider{errs: []error{
		provider.NewError(provider.ErrNotFound, errors.New("no rows")),
		nil,
	}}
	e := NewExecutor(fake, time.Second, 2025, nil)

	_, err := e.Execute(context.Background(), resolve.Resolution{Intent: intent.Standings, LeagueID: 39}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var pe *provider.Error
	if !errors.As(err, &pe) || pe.Kind != provider.ErrNotFound {
		t.Errorf("error = %v", err)
	}
	if fake.callCount() != 1 {
		t.Errorf("calls = %d, want 1", fake.callCount())
	}
}

func TestExecuteComparisonFanOut(t *testing.T) {
	fake := &fakeProvider{}
	e := NewExecutor(fake, time.Second, 2025, nil)

	res := resolve.Resolution{
		Intent: intent.Comparison,
		Entities: []resolve.Resolved{
			resolved(alias.KindPlayer, 306, 39, "Mohamed Salah"),
			resolved(alias.KindPlayer, 278, 61, "Kylian Mbappe"),
		},
	}
	out, err := e.Execute(context.Background(), res, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Sides) != 2 || out.Sides[0].Result == nil || out.Sides[1].Result == nil {
		t.Fatalf("sides = %+v", out.Sides)
	}
	if !out.CrossLeague {
		t.Error("different leagues did not flag cross-league")
	}
	if len(out.Sources) != 1 {
		t.Errorf("sources not deduplicated: %v", out.Sources)
	}
}

func TestExecuteComparisonPartialFailure(t *testing.T) {
	fake := &fakeProvider{fail: func(req provider.Request) error {
		if req.PlayerID == 278 {
			return provider.NewError(provider.ErrNotFound, errors.New("no rows"))
		}
		return nil
	}}
	e := NewExecutor(fake, time.Second, 2025, nil)

	res := resolve.Resolution{
		Intent: intent.Comparison,
		Entities: []resolve.Resolved{
			resolved(alias.KindPlayer, 306, 39, "Mohamed Salah"),
			resolved(alias.KindPlayer, 278, 61, "Kylian Mbappe"),
		},
	}
	out, err := e.Execute(context.Background(), res, nil)
	if err != nil {
		t.Fatalf("partial failure errored the comparison: %v", err)
	}
	if out.Sides[0].Result == nil || out.Sides[1].Err == nil {
		t.Fatalf("sides = %+v", out.Sides)
	}
	if len(out.Missing) != 1 || out.Missing[0] != "statistics for Kylian Mbappe are unavailable" {
		t.Errorf("missing = %v", out.Missing)
	}
}

func TestExecuteComparisonTotalFailure(t *testing.T) {
	fake := &fakeProvider{fail: func(provider.Request) error {
		return provider.NewError(provider.ErrUpstream, errors.New("down"))
	}}
	e := NewExecutor(fake, time.Second, 2025, nil)

	res := resolve.Resolution{
		Intent: intent.Comparison,
		Entities: []resolve.Resolved{
			resolved(alias.KindPlayer, 306, 39, "Mohamed Salah"),
			resolved(alias.KindPlayer, 1100, 39, "Erling Haaland"),
		},
	}
	_, err := e.Execute(context.Background(), res, nil)
	if err == nil {
		t.Fatal("expected error when every side failed")
	}
}

func TestExecutePlayerLookupWithoutPlayer(t *testing.T) {
	fake := &fakeProvider{}
	e := NewExecutor(fake, time.Second, 2025, nil)

	_, err := e.Execute(context.Background(), resolve.Resolution{Intent: intent.PlayerLookup}, nil)
	var pe *provider.Error
	if !errors.As(err, &pe) || pe.Kind != provider.ErrNotFound {
		t.Fatalf("error = %v", err)
	}
	if fake.callCount() != 0 {
		t.Error("planning failure still reached the provider")
	}
}
