// Package resolve turns the entity spans captured during intent
// classification into concrete entities, applying the auto-select,
// disambiguation, and default-competition policies.
package resolve

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/search/alias"
	"github.com/albapepper/scoracle-search/internal/search/fuzzy"
	"github.com/albapepper/scoracle-search/internal/search/intent"
	"github.com/albapepper/scoracle-search/internal/search/session"
)

// Resolved is one span bound to an entity.
type Resolved struct {
	Entity     alias.Entity
	Confidence float64
	Reason     fuzzy.Reason
	Span       string
}

// Resolution is the outcome of entity resolution for one query.
type Resolution struct {
	Intent   intent.Intent
	Entities []Resolved

	// LeagueID scopes league-wide intents. Zero when resolution failed
	// before a competition could be established.
	LeagueID   int
	LeagueName string

	// Ambiguous is set when a span matched several entities too close to
	// call. Candidates carries the options, capped at the configured
	// maximum, and AmbiguousSpan names the offending text.
	Ambiguous     bool
	Candidates    []fuzzy.Candidate
	AmbiguousSpan string

	// Failed is set when a span matched nothing selectable. Suggestions
	// carries the sub-threshold near misses, if any.
	Failed      bool
	FailedSpan  string
	Suggestions []fuzzy.Candidate

	Assumptions []string
}

// Resolver binds spans to entities using the alias index and fuzzy matcher.
type Resolver struct {
	matcher *fuzzy.Matcher
	index   *alias.Index
	cfg     config.SearchConfig

	defaultLeagueID int
	logger          *slog.Logger
}

// NewResolver creates a resolver. defaultLeagueID is the competition assumed
// for league-wide intents when the query names none.
func NewResolver(index *alias.Index, cfg config.SearchConfig, defaultLeagueID int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		matcher:         fuzzy.NewMatcher(index, cfg),
		index:           index,
		cfg:             cfg,
		defaultLeagueID: defaultLeagueID,
		logger:          logger,
	}
}

// pronouns map a referring word to the entity kind it pulls from session
// context.
var pronouns = map[string]alias.Kind{
	"he":    alias.KindPlayer,
	"him":   alias.KindPlayer,
	"his":   alias.KindPlayer,
	"they":  alias.KindTeam,
	"them":  alias.KindTeam,
	"their": alias.KindTeam,
}

// Resolve binds every span of the classified query. sess may be nil.
//
// Policy, in order of precedence:
//   - explicit "kind:id" spans bind directly, skipping matching entirely
//   - pronouns bind to the session's last entity of the matching kind
//   - COMPARISON takes the best candidate per side and never disambiguates
//   - league-wide intents that resolved a confident competition skip
//     disambiguation of any remaining spans
//   - otherwise the top candidate auto-selects at its kind's threshold when
//     no rival sits within the disambiguation margin
//   - a lone candidate below threshold but above the kind's floor is still
//     selected, recorded as an assumption
func (r *Resolver) Resolve(res intent.Result, sess *session.State) Resolution {
	out := Resolution{Intent: res.Intent}

	if res.Intent.LeagueScoped() {
		r.resolveLeagueScoped(res, &out)
		return out
	}
	if res.Intent == intent.Comparison {
		r.resolveComparison(res, sess, &out)
		return out
	}

	kinds := spanKinds(res.Intent)
	for _, span := range res.Spans {
		if r.bindSpan(span, kinds, sess, &out, false) {
			return out
		}
	}

	// A bare name classifies as a lookup before its kind is known; follow
	// what actually resolved. "salah" arrives as TEAM_LOOKUP and leaves as
	// PLAYER_LOOKUP.
	if len(out.Entities) > 0 {
		switch {
		case out.Intent == intent.TeamLookup && out.Entities[0].Entity.Kind == alias.KindPlayer:
			out.Intent = intent.PlayerLookup
		case out.Intent == intent.PlayerLookup && out.Entities[0].Entity.Kind == alias.KindTeam:
			out.Intent = intent.TeamLookup
		}
	}

	r.fillLeagueScope(&out)
	return out
}

// bindSpan resolves one span into out. Returns true when resolution is over
// (ambiguous or failed). suppressDisambiguation forces top-candidate
// selection.
func (r *Resolver) bindSpan(span string, kinds []alias.Kind, sess *session.State, out *Resolution, suppressDisambiguation bool) bool {
	span = strings.TrimSpace(span)
	if span == "" {
		return false
	}

	if e, ok := r.explicitEntity(span); ok {
		out.Entities = append(out.Entities, Resolved{Entity: e, Confidence: 1.0, Reason: fuzzy.ReasonExact, Span: span})
		return false
	}
	if e, ok := sessionEntity(span, sess); ok {
		out.Entities = append(out.Entities, Resolved{Entity: e, Confidence: 1.0, Reason: fuzzy.ReasonExact, Span: span})
		out.Assumptions = append(out.Assumptions, fmt.Sprintf("%q refers to %s from earlier in this session", span, e.Name))
		return false
	}

	candidates := r.matcher.Match(span, kinds...)
	if len(candidates) == 0 && len(kinds) > 0 {
		// Retry unrestricted: "liverpool top scorer" can put a team name
		// in a player slot.
		candidates = r.matcher.Match(span)
	}
	if len(candidates) == 0 {
		out.Failed = true
		out.FailedSpan = span
		return true
	}

	top := candidates[0]
	auto := r.autoThreshold(top.Entity.Kind)
	contenders := fuzzy.WithinMargin(candidates, r.cfg.DisambiguationMargin)

	switch {
	case suppressDisambiguation, len(contenders) == 1 && top.Confidence >= auto:
		out.Entities = append(out.Entities, Resolved{Entity: top.Entity, Confidence: top.Confidence, Reason: top.Reason, Span: span})
	case len(contenders) > 1 && top.Confidence >= r.disambiguateFloor(top.Entity.Kind):
		out.Ambiguous = true
		out.AmbiguousSpan = span
		out.Candidates = capCandidates(contenders, r.cfg.MaxDisambiguationOptions)
		return true
	case len(candidates) == 1 && top.Confidence >= r.disambiguateFloor(top.Entity.Kind):
		// Only plausible reading, even if weak. Select it and say so.
		out.Entities = append(out.Entities, Resolved{Entity: top.Entity, Confidence: top.Confidence, Reason: top.Reason, Span: span})
		out.Assumptions = append(out.Assumptions, fmt.Sprintf("interpreted %q as %s", span, top.Entity.Name))
	case top.Confidence >= auto:
		out.Entities = append(out.Entities, Resolved{Entity: top.Entity, Confidence: top.Confidence, Reason: top.Reason, Span: span})
	default:
		out.Failed = true
		out.FailedSpan = span
		out.Suggestions = capCandidates(candidates, r.cfg.MaxDisambiguationOptions)
		return true
	}
	return false
}

// resolveLeagueScoped handles standings, leaderboards, and schedules. These
// need a competition above all; a confident competition match suppresses
// disambiguation of leftover spans, and a query naming nothing falls back to
// the default league.
func (r *Resolver) resolveLeagueScoped(res intent.Result, out *Resolution) {
	confidentLeague := false
	for _, span := range res.Spans {
		candidates := r.matcher.Match(span, alias.KindLeague)
		if top, ok := fuzzy.Top(candidates); ok && top.Confidence >= r.cfg.CompetitionAutoThreshold {
			out.Entities = append(out.Entities, Resolved{Entity: top.Entity, Confidence: top.Confidence, Reason: top.Reason, Span: span})
			out.LeagueID = top.Entity.ID
			out.LeagueName = top.Entity.Name
			confidentLeague = true
			continue
		}
		// Not a competition; a team scopes these intents to its home league
		// ("arsenal fixtures", "liverpool top scorer").
		if r.bindSpan(span, []alias.Kind{alias.KindTeam}, nil, out, confidentLeague) {
			return
		}
	}
	r.fillLeagueScope(out)
}

// resolveComparison binds the two comparison sides. Per-side top pick,
// never a disambiguation prompt: a comparison with a clarifying question on
// one side is worse than a comparison with the most likely reading.
func (r *Resolver) resolveComparison(res intent.Result, sess *session.State, out *Resolution) {
	for _, span := range res.Spans {
		span = strings.TrimSpace(span)
		if span == "" {
			continue
		}
		if e, ok := r.explicitEntity(span); ok {
			out.Entities = append(out.Entities, Resolved{Entity: e, Confidence: 1.0, Reason: fuzzy.ReasonExact, Span: span})
			continue
		}
		if e, ok := sessionEntity(span, sess); ok {
			out.Entities = append(out.Entities, Resolved{Entity: e, Confidence: 1.0, Reason: fuzzy.ReasonExact, Span: span})
			continue
		}
		candidates := r.matcher.Match(span, alias.KindPlayer, alias.KindTeam)
		top, ok := fuzzy.Top(candidates)
		if !ok || top.Confidence < r.disambiguateFloor(top.Entity.Kind) {
			out.Failed = true
			out.FailedSpan = span
			out.Suggestions = capCandidates(candidates, r.cfg.MaxDisambiguationOptions)
			return
		}
		if len(fuzzy.WithinMargin(candidates, r.cfg.DisambiguationMargin)) > 1 {
			out.Assumptions = append(out.Assumptions, fmt.Sprintf("interpreted %q as %s", span, top.Entity.Name))
		}
		out.Entities = append(out.Entities, Resolved{Entity: top.Entity, Confidence: top.Confidence, Reason: top.Reason, Span: span})
	}

	if len(out.Entities) < 2 && !out.Failed {
		out.Failed = true
		out.FailedSpan = strings.Join(res.Spans, " / ")
	}
}

// fillLeagueScope derives the competition scope from resolved entities, or
// assumes the default league for league-wide intents.
func (r *Resolver) fillLeagueScope(out *Resolution) {
	if out.LeagueID != 0 || out.Failed || out.Ambiguous {
		return
	}
	for _, e := range out.Entities {
		switch e.Entity.Kind {
		case alias.KindLeague:
			out.LeagueID = e.Entity.ID
			out.LeagueName = e.Entity.Name
			return
		case alias.KindPlayer, alias.KindTeam:
			if e.Entity.LeagueID != 0 {
				out.LeagueID = e.Entity.LeagueID
				if lc, ok := config.LeagueRegistry[e.Entity.LeagueID]; ok {
					out.LeagueName = lc.Name
				}
				return
			}
		}
	}
	if out.Intent.LeagueScoped() {
		out.LeagueID = r.defaultLeagueID
		if lc, ok := config.LeagueRegistry[r.defaultLeagueID]; ok {
			out.LeagueName = lc.Name
			out.Assumptions = append(out.Assumptions, fmt.Sprintf("assumed %s since the query named no competition", lc.Name))
		}
	}
}

// explicitEntity recognizes "player:874" style spans from callers that
// already know the entity ID.
func (r *Resolver) explicitEntity(span string) (alias.Entity, bool) {
	kindStr, idStr, ok := strings.Cut(span, ":")
	if !ok {
		return alias.Entity{}, false
	}
	kind := alias.Kind(kindStr)
	switch kind {
	case alias.KindPlayer, alias.KindTeam, alias.KindLeague:
	default:
		return alias.Entity{}, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return alias.Entity{}, false
	}
	e, found := r.index.Entity(id)
	if !found || e.Kind != kind {
		return alias.Entity{}, false
	}
	return e, true
}

func sessionEntity(span string, sess *session.State) (alias.Entity, bool) {
	if sess == nil {
		return alias.Entity{}, false
	}
	kind, ok := pronouns[span]
	if !ok {
		return alias.Entity{}, false
	}
	switch kind {
	case alias.KindPlayer:
		if sess.LastPlayer != nil {
			return *sess.LastPlayer, true
		}
	case alias.KindTeam:
		if sess.LastTeam != nil {
			return *sess.LastTeam, true
		}
	}
	return alias.Entity{}, false
}

func (r *Resolver) autoThreshold(kind alias.Kind) float64 {
	switch kind {
	case alias.KindPlayer:
		return r.cfg.PlayerAutoThreshold
	case alias.KindLeague:
		return r.cfg.CompetitionAutoThreshold
	default:
		return r.cfg.TeamAutoThreshold
	}
}

func (r *Resolver) disambiguateFloor(kind alias.Kind) float64 {
	if kind == alias.KindPlayer {
		return r.cfg.PlayerDisambiguateFloor
	}
	return r.cfg.TeamDisambiguateFloor
}

// spanKinds bounds the entity kinds a span may bind to, per intent.
func spanKinds(i intent.Intent) []alias.Kind {
	switch i {
	case intent.PlayerLookup:
		return []alias.Kind{alias.KindPlayer}
	case intent.TeamLookup, intent.MatchLookup:
		return []alias.Kind{alias.KindTeam}
	default:
		return nil
	}
}

func capCandidates(candidates []fuzzy.Candidate, max int) []fuzzy.Candidate {
	if max > 0 && len(candidates) > max {
		candidates = candidates[:max]
	}
	return candidates
}
