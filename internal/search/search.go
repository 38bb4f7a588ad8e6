// Package search wires the query pipeline: normalize, classify, resolve,
// execute, format. The Engine is the single entry point the API layer
// calls.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/provider"
	"github.com/albapepper/scoracle-search/internal/search/alias"
	"github.com/albapepper/scoracle-search/internal/search/execute"
	"github.com/albapepper/scoracle-search/internal/search/format"
	"github.com/albapepper/scoracle-search/internal/search/intent"
	"github.com/albapepper/scoracle-search/internal/search/llm"
	"github.com/albapepper/scoracle-search/internal/search/normalize"
	"github.com/albapepper/scoracle-search/internal/search/payload"
	"github.com/albapepper/scoracle-search/internal/search/resolve"
	"github.com/albapepper/scoracle-search/internal/search/session"
)

// exampleQueries are offered when a query cannot be understood.
var exampleQueries = []string{
	"premier league standings",
	"top scorers in la liga",
	"salah stats this season",
	"compare haaland and mbappe",
	"arsenal next fixtures",
}

// Engine runs natural-language football queries end to end.
type Engine struct {
	classifier *intent.Classifier
	resolver   *resolve.Resolver
	executor   *execute.Executor
	sessions   *session.Store
	index      *alias.Index
	logger     *slog.Logger
}

// Options configures engine construction.
type Options struct {
	Index    *alias.Index
	Provider provider.Provider
	Fallback llm.Provider
	Sessions *session.Store
	Config   *config.Config
	Logger   *slog.Logger
}

// NewEngine wires the pipeline stages.
func NewEngine(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := opts.Config
	season := cfg.DefaultSeason
	if season == 0 {
		season = config.CurrentSeason(time.Now())
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewStore(30 * time.Minute)
	}
	return &Engine{
		classifier: intent.NewClassifier(opts.Fallback, cfg.Search, cfg.LLMTimeout, logger),
		resolver:   resolve.NewResolver(opts.Index, cfg.Search, cfg.DefaultLeagueID, logger),
		executor:   execute.NewExecutor(opts.Provider, cfg.ProviderTimeout, season, logger),
		sessions:   sessions,
		index:      opts.Index,
		logger:     logger,
	}
}

// Request is one search invocation. Query is required; the rest is optional
// caller context.
type Request struct {
	Query     string
	SessionID string

	// Season overrides both the default season and any season text in the
	// query. LeagueID pins the competition scope. EntityIDs carry entities
	// the caller already resolved, as "player:306" tokens; they replace
	// span matching entirely.
	Season    int
	LeagueID  int
	EntityIDs []string
}

// Search answers one query. It always returns a renderable response; every
// failure mode maps to a typed payload rather than an error return.
func (e *Engine) Search(ctx context.Context, req Request) *payload.Response {
	start := time.Now()

	raw := strings.TrimSpace(req.Query)
	if raw == "" {
		return e.respond(payload.Error{
			Kind:     payload.ErrEmptyQuery,
			Message:  "the query is empty",
			Examples: exampleQueries,
		}, raw, "", intent.Result{}, nil, start)
	}

	normalized, forMatching, mod := normalize.Query(raw)
	if normalized == "" {
		// Punctuation-only input survives the raw check but normalizes away.
		return e.respond(payload.Error{
			Kind:     payload.ErrEmptyQuery,
			Message:  "the query is empty",
			Examples: exampleQueries,
		}, raw, normalized, intent.Result{}, nil, start)
	}
	res := e.classifier.Classify(ctx, forMatching)
	if req.Season != 0 {
		mod = &normalize.TimeModifier{Kind: normalize.TimeSeason, SeasonYear: req.Season}
	}
	res.Time = mod
	// Explicit entity IDs replace the classifier's spans: a client answering
	// a disambiguation prompt re-sends the query with its chosen entity, and
	// the ambiguous text must not trigger another prompt.
	if len(req.EntityIDs) > 0 {
		res.Spans = append([]string{}, req.EntityIDs...)
	}

	if res.Intent == intent.Unknown {
		return e.respond(payload.Error{
			Kind:     payload.ErrUnsupportedQuery,
			Message:  "could not understand the query",
			Examples: exampleQueries,
		}, raw, normalized, res, nil, start)
	}

	sess := e.sessions.Get(req.SessionID)
	resolution := e.resolver.Resolve(res, sess)
	if req.LeagueID != 0 {
		resolution.LeagueID = req.LeagueID
		resolution.LeagueName = ""
		if lc, ok := config.LeagueRegistry[req.LeagueID]; ok {
			resolution.LeagueName = lc.Name
		}
	}

	switch {
	case resolution.Ambiguous:
		return e.respond(disambiguation(resolution), raw, normalized, res, &resolution, start)
	case resolution.Failed:
		return e.respond(notFound(resolution), raw, normalized, res, &resolution, start)
	}

	out, err := e.executor.Execute(ctx, resolution, mod)
	if err != nil {
		e.logger.Error("execution failed", "query", raw, "intent", res.Intent, "error", err)
		return e.respond(executionError(err), raw, normalized, res, &resolution, start)
	}

	data, err := format.Format(resolution, out)
	if err != nil {
		e.logger.Error("formatting failed", "query", raw, "intent", res.Intent, "error", err)
		return e.respond(payload.Error{
			Kind:    payload.ErrInternal,
			Message: "failed to render the result",
		}, raw, normalized, res, &resolution, start)
	}

	resp := e.respond(data, raw, normalized, res, &resolution, start)
	resp.SourcesUsed = out.Sources
	resp.Missing = out.Missing
	resp.Session = e.updateSession(req.SessionID, res, resolution)
	return resp
}

// respond builds the envelope around a payload.
func (e *Engine) respond(data payload.Payload, raw, normalized string, res intent.Result, resolution *resolve.Resolution, start time.Time) *payload.Response {
	resp := payload.NewResponse(data)
	meta := &payload.Meta{
		OriginalQuery:    raw,
		NormalizedQuery:  normalized,
		Intent:           string(res.Intent),
		IntentConfidence: res.Confidence,
		UsedLLM:          res.UsedLLM,
		LatencyMS:        time.Since(start).Milliseconds(),
	}
	if resolution != nil {
		resp.Assumptions = resolution.Assumptions
		for _, ent := range resolution.Entities {
			meta.Entities = append(meta.Entities, ent.Entity.Name)
		}
	}
	resp.Meta = meta
	return resp
}

// updateSession records the resolved entities for follow-up queries and
// reports what was stored, or nil when the query carried no session.
func (e *Engine) updateSession(sessionID string, res intent.Result, resolution resolve.Resolution) *payload.SessionUpdate {
	if sessionID == "" {
		return nil
	}
	entities := make([]alias.Entity, 0, len(resolution.Entities))
	update := &payload.SessionUpdate{Intent: string(res.Intent)}
	for _, ent := range resolution.Entities {
		entities = append(entities, ent.Entity)
		update.Entities = append(update.Entities, payload.EntityRef{
			ID:   ent.Entity.ID,
			Kind: string(ent.Entity.Kind),
			Name: ent.Entity.Name,
		})
	}
	e.sessions.Update(sessionID, string(res.Intent), entities)
	return update
}

func disambiguation(resolution resolve.Resolution) payload.Disambiguation {
	options := make([]payload.DisambiguationOption, 0, len(resolution.Candidates))
	for _, c := range resolution.Candidates {
		options = append(options, payload.DisambiguationOption{
			Entity:     payload.EntityRef{ID: c.Entity.ID, Kind: string(c.Entity.Kind), Name: c.Entity.Name},
			Confidence: c.Confidence,
		})
	}
	return payload.Disambiguation{
		Question:   fmt.Sprintf("Which %q did you mean?", resolution.AmbiguousSpan),
		Candidates: options,
	}
}

func notFound(resolution resolve.Resolution) payload.Error {
	out := payload.Error{
		Kind:    payload.ErrNotFound,
		Message: fmt.Sprintf("could not find %q", resolution.FailedSpan),
	}
	for _, c := range resolution.Suggestions {
		out.Suggestions = append(out.Suggestions, payload.EntityRef{ID: c.Entity.ID, Kind: string(c.Entity.Kind), Name: c.Entity.Name})
	}
	return out
}

func executionError(err error) payload.Error {
	pe := provider.AsError(err)
	if pe.Kind == provider.ErrNotFound {
		return payload.Error{
			Kind:    payload.ErrNotFound,
			Message: "no data found for this query",
		}
	}
	return payload.Error{
		Kind:    payload.ErrUpstreamUnavailable,
		Message: "the data provider is unavailable, try again shortly",
	}
}
