package intent

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/search/llm"
)

// Classifier runs ordered pattern rules with an optional LLM fallback.
type Classifier struct {
	fallback   llm.Provider
	cfg        config.SearchConfig
	llmTimeout time.Duration
	logger     *slog.Logger
}

// NewClassifier creates a classifier. fallback may be nil; llm.Null is used
// in that case and the fallback stage becomes a no-op.
func NewClassifier(fallback llm.Provider, cfg config.SearchConfig, llmTimeout time.Duration, logger *slog.Logger) *Classifier {
	if fallback == nil {
		fallback = llm.Null{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{fallback: fallback, cfg: cfg, llmTimeout: llmTimeout, logger: logger}
}

// Classify maps normalized query text to an intent plus entity span hints.
// The fallback provider is consulted only when rule confidence is below the
// configured threshold; any fallback error fails open to the rule result.
func (c *Classifier) Classify(ctx context.Context, normalized string) Result {
	result := matchRules(normalized)

	if result.Confidence >= c.cfg.LLMFallbackThreshold && result.Intent != Unknown {
		return result
	}

	llmCtx, cancel := context.WithTimeout(ctx, c.llmTimeout)
	defer cancel()

	guess, err := c.fallback.ClassifyIntent(llmCtx, normalized)
	if err != nil {
		c.logger.Debug("LLM fallback failed, keeping rule result",
			"provider", c.fallback.Name(), "error", err)
		return result
	}

	if fallbackIntent := parseIntent(guess.Intent); fallbackIntent != Unknown && guess.Confidence > result.Confidence {
		return Result{
			Intent:     fallbackIntent,
			Confidence: guess.Confidence,
			Spans:      guess.Spans,
			Time:       result.Time,
			UsedLLM:    true,
		}
	}
	return result
}

// parseIntent maps a provider's intent tag onto the enum, defaulting to
// UNKNOWN for anything unrecognized.
func parseIntent(tag string) Intent {
	switch Intent(tag) {
	case Standings, TopScorers, TopAssists, PlayerLookup, TeamLookup,
		MatchLookup, Comparison, Schedule:
		return Intent(tag)
	}
	return Unknown
}
