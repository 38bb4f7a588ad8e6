// Package intent classifies normalized query text into one of the supported
// search intents. Ordered pattern rules run first; an optional LLM
// collaborator is consulted only when rule confidence is low, and failure
// there is never fatal.
package intent

import "github.com/albapepper/scoracle-search/internal/search/normalize"

// Intent is the enumerated query intent.
type Intent string

const (
	Standings    Intent = "STANDINGS"
	TopScorers   Intent = "TOP_SCORERS"
	TopAssists   Intent = "TOP_ASSISTS"
	PlayerLookup Intent = "PLAYER_LOOKUP"
	TeamLookup   Intent = "TEAM_LOOKUP"
	MatchLookup  Intent = "MATCH_LOOKUP"
	Comparison   Intent = "COMPARISON"
	Schedule     Intent = "SCHEDULE"
	Unknown      Intent = "UNKNOWN"
)

// Result is the outcome of classification.
type Result struct {
	Intent     Intent
	Confidence float64

	// Spans are the entity text hints captured by the matched rule, in
	// query order. For COMPARISON and MATCH_LOOKUP there are two.
	Spans []string

	// Time carries any time reference found during normalization.
	Time *normalize.TimeModifier

	// Pattern is the rule that matched, for debugging metadata.
	Pattern string
	UsedLLM bool
}

// LeagueScoped reports whether the intent is satisfied by a competition
// alone (standings, leaderboards, schedules).
func (i Intent) LeagueScoped() bool {
	switch i {
	case Standings, TopScorers, TopAssists, Schedule:
		return true
	}
	return false
}
