// Package apifootball provides the HTTP client for the API-Football v3 API
// and normalizes its responses into the canonical provider shapes.
//
// API-Football uses header-based auth, league+season scoped endpoints, and
// wraps every response in an envelope with a separate errors object.
package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/albapepper/scoracle-search/internal/provider"
)

const baseURL = "https://v3.football.api-sports.io"

// Client is the rate-limited HTTP client for API-Football endpoints.
type Client struct {
	httpClient *http.Client
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates an API-Football client. requestsPerMinute should match
// the subscription tier; timeout bounds each request.
func NewClient(apiKey string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	rps := float64(requestsPerMinute) / 60.0
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// envelope is the common API-Football response wrapper. The errors field is
// an empty array on success and an object of messages on failure, hence
// json.RawMessage.
type envelope struct {
	Results  int             `json:"results"`
	Errors   json.RawMessage `json:"errors"`
	Response json.RawMessage `json:"response"`
}

// get performs a rate-limited GET request to an API-Football endpoint and
// returns the response array, classifying failures for the retry policy.
func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, provider.NewError(provider.ErrRateLimited, fmt.Errorf("rate limit wait: %w", err))
	}

	u := baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, provider.NewError(provider.ErrUpstream, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("x-apisports-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, provider.NewError(provider.ErrTimeout, fmt.Errorf("http request %s: %w", path, err))
		}
		return nil, provider.NewError(provider.ErrUpstream, fmt.Errorf("http request %s: %w", path, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, provider.NewError(provider.ErrUpstream, fmt.Errorf("read response body: %w", err))
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, provider.NewError(provider.ErrRateLimited, fmt.Errorf("API-Football %s returned 429", path))
	case resp.StatusCode != http.StatusOK:
		return nil, provider.NewError(provider.ErrUpstream, fmt.Errorf("API-Football %s returned %d: %s", path, resp.StatusCode, truncate(body, 200)))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, provider.NewError(provider.ErrDecode, fmt.Errorf("decode response: %w", err))
	}

	// The errors field holds an object of messages when the request was
	// rejected despite the 200 status.
	var apiErrors map[string]string
	if json.Unmarshal(env.Errors, &apiErrors) == nil && len(apiErrors) > 0 {
		for k, v := range apiErrors {
			return nil, provider.NewError(provider.ErrUpstream, fmt.Errorf("API-Football %s error %s: %s", path, k, v))
		}
	}

	if env.Results == 0 {
		return nil, provider.NewError(provider.ErrNotFound, fmt.Errorf("API-Football %s returned no results", path))
	}

	return env.Response, nil
}

// truncate returns a truncated string for error messages.
func truncate(b []byte, maxLen int) string {
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen]) + "..."
}
