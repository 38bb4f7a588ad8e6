package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const anthropicBaseURL = "https://api.anthropic.com/v1"

// Anthropic classifies intents through the Anthropic Messages API.
type Anthropic struct {
	httpClient *http.Client
	apiKey     string
	model      string
}

// NewAnthropic creates an Anthropic-backed provider.
func NewAnthropic(apiKey string, timeout time.Duration) *Anthropic {
	return &Anthropic{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		model:      "claude-3-5-haiku-latest",
	}
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// ClassifyIntent implements Provider.
func (a *Anthropic) ClassifyIntent(ctx context.Context, query string) (Guess, error) {
	reqBody := anthropicRequest{
		Model:     a.model,
		MaxTokens: 256,
		Messages: []anthropicMessage{
			{Role: "user", Content: intentPrompt + query},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Guess{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, anthropicBaseURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return Guess{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return Guess{}, fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Guess{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Guess{}, fmt.Errorf("anthropic returned %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Guess{}, fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return Guess{}, fmt.Errorf("empty response content")
	}

	return parseGuess(parsed.Content[0].Text)
}

// Name implements Provider.
func (a *Anthropic) Name() string { return "anthropic" }

// parseGuess decodes the JSON object a provider was instructed to return.
// Tolerates surrounding prose by slicing to the outermost braces.
func parseGuess(text string) (Guess, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return Guess{}, fmt.Errorf("no JSON object in response")
	}

	var raw struct {
		Intent     string   `json:"intent"`
		Confidence float64  `json:"confidence"`
		Entities   []string `json:"entities"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return Guess{}, fmt.Errorf("decode guess: %w", err)
	}
	if raw.Intent == "" {
		raw.Intent = "UNKNOWN"
	}
	return Guess{Intent: raw.Intent, Confidence: raw.Confidence, Spans: raw.Entities}, nil
}

func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
