// Package execute plans and runs the upstream fetches a resolved query
// needs, with per-request timeouts, a single retry for transient failures,
// and parallel fan-out for comparisons.
package execute

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/scoracle-search/internal/provider"
	"github.com/albapepper/scoracle-search/internal/search/alias"
	"github.com/albapepper/scoracle-search/internal/search/intent"
	"github.com/albapepper/scoracle-search/internal/search/normalize"
	"github.com/albapepper/scoracle-search/internal/search/resolve"
)

const (
	defaultLeaderboardLimit = 10
	retryBackoff            = 250 * time.Millisecond
)

// Side is one comparison side's fetch outcome. Err is non-nil when the side
// could not be fetched; the formatter renders what it has and caveats the
// rest.
type Side struct {
	Entity resolve.Resolved
	Result *provider.Result
	Err    error
}

// Output is everything the formatter needs to render a query.
type Output struct {
	Result      *provider.Result
	Sides       []Side
	Season      int
	CrossLeague bool
	Sources     []string
	Missing     []string
}

// Executor turns resolutions into provider requests.
type Executor struct {
	provider provider.Provider
	timeout  time.Duration
	season   int
	logger   *slog.Logger
}

// NewExecutor creates an executor. season is the default season applied
// when the query carries no season reference.
func NewExecutor(p provider.Provider, timeout time.Duration, season int, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Executor{provider: p, timeout: timeout, season: season, logger: logger}
}

// Execute fetches what the resolution needs. A nil error with a populated
// Output means renderable data exists; comparison side failures live inside
// Output rather than failing the whole query.
func (e *Executor) Execute(ctx context.Context, res resolve.Resolution, mod *normalize.TimeModifier) (*Output, error) {
	out := &Output{Season: e.seasonFor(mod)}

	if res.Intent == intent.Comparison {
		return out, e.executeComparison(ctx, res, out)
	}

	req, err := e.planRequest(res, mod, out.Season)
	if err != nil {
		return nil, err
	}

	result, err := e.fetchWithRetry(ctx, req)
	if err != nil {
		return nil, err
	}
	out.Result = result
	out.Sources = append(out.Sources, result.Source)
	return out, nil
}

// planRequest maps a non-comparison resolution onto a single provider
// request.
func (e *Executor) planRequest(res resolve.Resolution, mod *normalize.TimeModifier, season int) (provider.Request, error) {
	req := provider.Request{Season: season, LeagueID: res.LeagueID}

	switch res.Intent {
	case intent.Standings:
		req.Resource = provider.ResourceStandings
	case intent.TopScorers:
		req.Resource = provider.ResourceTopScorers
		req.Limit = defaultLeaderboardLimit
	case intent.TopAssists:
		req.Resource = provider.ResourceTopAssists
		req.Limit = defaultLeaderboardLimit
	case intent.Schedule, intent.MatchLookup:
		req.Resource = provider.ResourceFixtures
		teams := ofKind(res.Entities, alias.KindTeam)
		if len(teams) > 0 {
			req.TeamID = teams[0].Entity.ID
		}
		// Two resolved teams means a specific pairing, not a schedule.
		if len(teams) > 1 {
			req.Resource = provider.ResourceHeadToHead
			req.OpponentID = teams[1].Entity.ID
		}
		applyTime(&req, mod)
	case intent.PlayerLookup:
		player := firstOfKind(res.Entities, alias.KindPlayer)
		if player == nil {
			return req, provider.NewError(provider.ErrNotFound, fmt.Errorf("no player resolved"))
		}
		req.Resource = provider.ResourcePlayerStats
		req.PlayerID = player.Entity.ID
	case intent.TeamLookup:
		team := firstOfKind(res.Entities, alias.KindTeam)
		if team == nil {
			return req, provider.NewError(provider.ErrNotFound, fmt.Errorf("no team resolved"))
		}
		req.Resource = provider.ResourceTeamStats
		req.TeamID = team.Entity.ID
		if team.Entity.LeagueID != 0 {
			req.LeagueID = team.Entity.LeagueID
		}
	default:
		return req, provider.NewError(provider.ErrUpstream, fmt.Errorf("unplannable intent %q", res.Intent))
	}
	return req, nil
}

// executeComparison fans out one fetch per side. Sides fail independently;
// the comparison only errors when nothing at all came back.
func (e *Executor) executeComparison(ctx context.Context, res resolve.Resolution, out *Output) error {
	out.Sides = make([]Side, len(res.Entities))

	g, gctx := errgroup.WithContext(ctx)
	for i := range res.Entities {
		i := i
		entity := res.Entities[i]
		out.Sides[i].Entity = entity
		g.Go(func() error {
			req := provider.Request{Season: out.Season}
			switch entity.Entity.Kind {
			case alias.KindPlayer:
				req.Resource = provider.ResourcePlayerStats
				req.PlayerID = entity.Entity.ID
			case alias.KindTeam:
				req.Resource = provider.ResourceTeamStats
				req.TeamID = entity.Entity.ID
				req.LeagueID = entity.Entity.LeagueID
			default:
				out.Sides[i].Err = fmt.Errorf("cannot compare %s entities", entity.Entity.Kind)
				return nil
			}
			result, err := e.fetchWithRetry(gctx, req)
			if err != nil {
				e.logger.Warn("comparison side fetch failed",
					"entity", entity.Entity.Name, "error", err)
				out.Sides[i].Err = err
				return nil
			}
			out.Sides[i].Result = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	succeeded := 0
	for _, side := range out.Sides {
		if side.Result != nil {
			succeeded++
			out.Sources = appendUnique(out.Sources, side.Result.Source)
		} else if side.Err != nil {
			out.Missing = append(out.Missing,
				fmt.Sprintf("statistics for %s are unavailable", side.Entity.Entity.Name))
		}
	}
	if succeeded == 0 {
		return provider.NewError(provider.ErrUpstream, fmt.Errorf("both comparison fetches failed"))
	}

	out.CrossLeague = crossLeague(res.Entities)
	return nil
}

// fetchWithRetry runs one fetch under the per-request timeout, retrying
// once after a short backoff when the failure is transient.
func (e *Executor) fetchWithRetry(ctx context.Context, req provider.Request) (*provider.Result, error) {
	fetch := func() (*provider.Result, error) {
		fctx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()
		return e.provider.Fetch(fctx, req)
	}

	result, err := fetch()
	if err == nil {
		return result, nil
	}
	pe := provider.AsError(err)
	if !pe.Retryable {
		return nil, pe
	}

	e.logger.Debug("retrying fetch", "resource", req.Resource, "error", err)
	select {
	case <-ctx.Done():
		return nil, provider.NewError(provider.ErrTimeout, ctx.Err())
	case <-time.After(retryBackoff):
	}

	result, err = fetch()
	if err != nil {
		return nil, provider.AsError(err)
	}
	return result, nil
}

func (e *Executor) seasonFor(mod *normalize.TimeModifier) int {
	if mod != nil && mod.Kind == normalize.TimeSeason && mod.SeasonYear != 0 {
		return mod.SeasonYear
	}
	return e.season
}

func applyTime(req *provider.Request, mod *normalize.TimeModifier) {
	if mod == nil {
		return
	}
	switch mod.Kind {
	case normalize.TimePast:
		req.Past = true
		if mod.Count > 0 {
			req.Limit = mod.Count
		}
	case normalize.TimeFuture:
		if mod.Count > 0 {
			req.Limit = mod.Count
		}
	case normalize.TimeRange:
		req.From = mod.Start
		req.To = mod.End
	}
}

func firstOfKind(entities []resolve.Resolved, kind alias.Kind) *resolve.Resolved {
	for i := range entities {
		if entities[i].Entity.Kind == kind {
			return &entities[i]
		}
	}
	return nil
}

func ofKind(entities []resolve.Resolved, kind alias.Kind) []resolve.Resolved {
	var out []resolve.Resolved
	for _, e := range entities {
		if e.Entity.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func crossLeague(entities []resolve.Resolved) bool {
	var league int
	for _, e := range entities {
		if e.Entity.LeagueID == 0 {
			continue
		}
		if league == 0 {
			league = e.Entity.LeagueID
			continue
		}
		if e.Entity.LeagueID != league {
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
