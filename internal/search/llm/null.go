package llm

import "context"

// Null is the provider used when no LLM is configured. It has no opinion
// about anything, which keeps the classifier's fallback path exercised in
// tests without network access.
type Null struct{}

// ClassifyIntent implements Provider.
func (Null) ClassifyIntent(ctx context.Context, query string) (Guess, error) {
	return Guess{Intent: "UNKNOWN", Confidence: 0}, nil
}

// Name implements Provider.
func (Null) Name() string { return "null" }
