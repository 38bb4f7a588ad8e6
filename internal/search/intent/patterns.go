package intent

import (
	"regexp"
	"strings"
)

// rule is one predicate→intent entry. Rules are evaluated in the order they
// appear in rules below; the first match wins, so COMPARISON patterns sit
// ahead of MATCH_LOOKUP and the generic lookups to keep "x versus y" from
// collapsing into two independent lookups.
type rule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// unsupported short-circuits to UNKNOWN: subjective, predictive, and betting
// queries are out of scope by design.
var unsupported = []*regexp.Regexp{
	regexp.MustCompile(`who\s+(?:is|was)\s+(?:the\s+)?(?:best|greatest|goat)`),
	regexp.MustCompile(`will\s+.+\s+win`),
	regexp.MustCompile(`should\s+(?:i|we)\s+`),
	regexp.MustCompile(`predict`),
	regexp.MustCompile(`betting|odds|bet\s+on`),
}

var rules = []rule{
	{Standings, compile(
		`^(?:premier league|la liga|bundesliga|serie a|ligue 1|champions league)?\s*(?:league\s+)?(?:table|standings?)$`,
		`^standings?$`,
		`^table$`,
		`^(?:premier league|la liga|bundesliga|serie a|ligue 1|champions league)$`,
	)},
	{TopScorers, compile(
		`top\s*scorers?`,
		`golden\s*boot`,
		`(?:most|leading|top)\s+goals?`,
		`who\s+(?:has|scored)\s+(?:the\s+)?most\s+goals`,
		`goal\s*(?:scorers?|leaders?)`,
	)},
	{TopAssists, compile(
		`top\s*assists?`,
		`(?:most|leading|top)\s+assists?`,
		`assist\s*(?:leaders?|chart|list)`,
		`who\s+(?:has|made)\s+(?:the\s+)?most\s+assists?`,
		`playmakers?`,
	)},
	{Schedule, compile(
		`(?:fixtures?|games?|matches?)\s+(?:this|next|last)\s+(?:week|weekend|month)`,
		`(?:games?|fixtures?|matches?)\s+(?:today|tomorrow|yesterday)`,
		`(?:upcoming|recent)\s+(?:games?|fixtures?|matches?)`,
		`^fixtures?$`,
		`^schedule$`,
		`what\s+(?:games?|matches?)\s+(?:are\s+)?on`,
	)},
	{Comparison, compile(
		`compare\s+(.+?)\s+(?:to|and|with|versus)\s+(.+)`,
		`(.+?)\s+versus\s+(.+?)\s+(?:comparison|stats?|statistics)`,
		`(.+?)\s+versus\s+(.+)`,
		`(.+?)\s+or\s+(.+?)\s*$`,
		`who\s*(?:'s|\s+is)\s+better[,:]?\s+(.+?)\s+or\s+(.+)`,
		`(?:is\s+)?(.+?)\s+better\s+than\s+(.+)`,
	)},
	{MatchLookup, compile(
		`(.+?)\s+against\s+(.+)`,
		`(?:next|upcoming)\s+(.+?)\s+(?:game|match|fixture)`,
		`(?:last|previous|recent)\s+(.+?)\s+(?:game|match|fixture)`,
		`(.+?)\s+(?:next|upcoming)\s+(?:game|match|fixture)`,
		`(.+?)\s+(?:game|match|fixture)$`,
		`when\s+(?:do|does|is|are)\s+(.+?)\s+play(?:ing)?`,
	)},
	{PlayerLookup, compile(
		`(.+?)\s+(?:goals?|assists?)$`,
		`how\s+(?:is|has)\s+(.+?)\s+(?:doing|performing|played)`,
	)},
	{TeamLookup, compile(
		`(?:tell\s+me\s+)?about\s+(.+)`,
		`(.+?)\s+(?:stats?|statistics|info|profile|squad)$`,
		`(.+?)\s+form$`,
		`(.+?)\s+standings?$`,
	)},
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// specificKeywords boost pattern confidence when present: these rules match
// on unambiguous vocabulary, not just wildcards.
var specificKeywords = []string{
	"table", "standings", "scorers", "assists", "versus", "compare",
	"fixtures", "schedule",
}

// matchRules runs the ordered rule list over a normalized query.
func matchRules(normalized string) Result {
	for _, p := range unsupported {
		if p.MatchString(normalized) {
			return Result{Intent: Unknown, Confidence: 0, Pattern: p.String()}
		}
	}

	for _, r := range rules {
		for _, p := range r.patterns {
			m := p.FindStringSubmatch(normalized)
			if m == nil {
				continue
			}
			spans := make([]string, 0, len(m)-1)
			for _, g := range m[1:] {
				if g = strings.TrimSpace(g); g != "" {
					spans = append(spans, g)
				}
			}
			return Result{
				Intent:     r.intent,
				Confidence: patternConfidence(normalized, m[0], p.String()),
				Spans:      spans,
				Pattern:    p.String(),
			}
		}
	}

	// Nothing matched. A short query is likely a bare entity lookup; the
	// resolver flips TEAM_LOOKUP to PLAYER_LOOKUP by entity kind.
	if words := strings.Fields(normalized); len(words) > 0 && len(words) <= 3 {
		return Result{
			Intent:     TeamLookup,
			Confidence: 0.60,
			Spans:      []string{normalized},
		}
	}

	return Result{Intent: Unknown, Confidence: 0.30}
}

// patternConfidence scores how convincingly a pattern matched: base 0.5
// plus coverage of the query, a boost for full-query matches, and a boost
// for keyword-specific patterns. Capped at 0.98.
func patternConfidence(query, matched, pattern string) float64 {
	coverage := 0.0
	if len(query) > 0 {
		coverage = float64(len(matched)) / float64(len(query))
	}
	confidence := 0.5 + coverage*0.4

	if strings.TrimSpace(matched) == strings.TrimSpace(query) {
		confidence += 0.10
	}
	for _, kw := range specificKeywords {
		if strings.Contains(pattern, kw) {
			confidence += 0.05
			break
		}
	}

	if confidence > 0.98 {
		confidence = 0.98
	}
	return confidence
}
