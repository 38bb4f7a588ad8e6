// Package llm provides the optional language-model fallback used when
// rule-based intent classification is not confident. Providers only ever
// return structure (intent tag, entity spans, confidence) — never factual
// football data. Every provider call is bounded by a timeout and fails open:
// an error means "no opinion", never a failed query.
package llm

import "context"

// Guess is a provider's best-effort classification of a query.
type Guess struct {
	Intent     string   // one of the intent tags, or "UNKNOWN"
	Confidence float64  // 0.0 - 1.0
	Spans      []string // entity text extracted from the query, in order
}

// Provider is the single-method collaborator contract for intent fallback.
type Provider interface {
	// ClassifyIntent returns a best-guess intent for a raw query. An error
	// or a context timeout must be treated by callers as UNKNOWN.
	ClassifyIntent(ctx context.Context, query string) (Guess, error)

	// Name identifies the provider for logging.
	Name() string
}

// intentPrompt instructs the model to return classification only. The
// engine never asks a model for facts, stats, or predictions.
const intentPrompt = `You are a search query classifier for a football/soccer statistics application.

TASK: Classify the user's query into exactly ONE of these intent types:
- STANDINGS: League table, standings, positions
- TOP_SCORERS: Goal scorers, golden boot, goal leaders
- TOP_ASSISTS: Assist leaders, playmakers
- MATCH_LOOKUP: Specific match, team vs team, fixture
- TEAM_LOOKUP: Team info, stats, form, squad
- PLAYER_LOOKUP: Player info, stats, profile
- SCHEDULE: Fixtures, upcoming/recent games
- COMPARISON: Comparing two teams or players
- UNKNOWN: Cannot determine

You must respond with ONLY a JSON object in this exact format:
{"intent": "<INTENT_TYPE>", "confidence": <0.0-1.0>, "entities": ["<entity text>", ...]}

RULES:
- Return ONLY the JSON object, no other text
- "entities" holds the exact query text that names a team, player, or competition
- If the query is ambiguous, use UNKNOWN with low confidence
- DO NOT answer the query or provide any football facts

Query: `
