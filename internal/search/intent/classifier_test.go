package intent

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/search/llm"
)

// fakeLLM records whether it was consulted and returns a canned guess.
type fakeLLM struct {
	guess  llm.Guess
	err    error
	called bool
}

func (f *fakeLLM) ClassifyIntent(ctx context.Context, query string) (llm.Guess, error) {
	f.called = true
	return f.guess, f.err
}

func (f *fakeLLM) Name() string { return "fake" }

func newTestClassifier(fake *fakeLLM) *Classifier {
	return NewClassifier(fake, config.DefaultSearchConfig(), time.Second, nil)
}

func TestClassifySkipsFallbackWhenConfident(t *testing.T) {
	fake := &fakeLLM{}
	c := newTestClassifier(fake)

	got := c.Classify(context.Background(), "top scorers")
	if got.Intent != TopScorers {
		t.Fatalf("intent = %s", got.Intent)
	}
	if fake.called {
		t.Error("fallback consulted despite confident rule match")
	}
	if got.UsedLLM {
		t.Error("UsedLLM set without fallback")
	}
}

func TestClassifyUsesFallbackOnLowConfidence(t *testing.T) {
	fake := &fakeLLM{guess: llm.Guess{Intent: "PLAYER_LOOKUP", Confidence: 0.85, Spans: []string{"erling haaland"}}}
	c := newTestClassifier(fake)

	got := c.Classify(context.Background(), "erling haaland")
	if !fake.called {
		t.Fatal("fallback not consulted")
	}
	if got.Intent != PlayerLookup || !got.UsedLLM {
		t.Errorf("got %s UsedLLM=%v, want PLAYER_LOOKUP via LLM", got.Intent, got.UsedLLM)
	}
}

func TestClassifyFailsOpenOnFallbackError(t *testing.T) {
	fake := &fakeLLM{err: errors.New("upstream down")}
	c := newTestClassifier(fake)

	got := c.Classify(context.Background(), "erling haaland")
	if got.Intent != TeamLookup || got.Confidence != 0.60 {
		t.Errorf("got %s/%v, want rule fallback TEAM_LOOKUP/0.60", got.Intent, got.Confidence)
	}
	if got.UsedLLM {
		t.Error("UsedLLM set on failed fallback")
	}
}

func TestClassifyIgnoresWeakerGuess(t *testing.T) {
	fake := &fakeLLM{guess: llm.Guess{Intent: "SCHEDULE", Confidence: 0.40}}
	c := newTestClassifier(fake)

	got := c.Classify(context.Background(), "erling haaland")
	if got.Intent != TeamLookup {
		t.Errorf("weaker guess replaced rule result: %s", got.Intent)
	}
}

func TestClassifyIgnoresInvalidIntentTag(t *testing.T) {
	fake := &fakeLLM{guess: llm.Guess{Intent: "MADE_UP", Confidence: 0.99}}
	c := newTestClassifier(fake)

	got := c.Classify(context.Background(), "erling haaland")
	if got.Intent != TeamLookup {
		t.Errorf("invalid tag accepted: %s", got.Intent)
	}
}

func TestClassifyNullProvider(t *testing.T) {
	c := NewClassifier(nil, config.DefaultSearchConfig(), time.Second, nil)
	got := c.Classify(context.Background(), "complete gibberish nobody can classify here")
	if got.Intent != Unknown {
		t.Errorf("got %s, want UNKNOWN", got.Intent)
	}
}
