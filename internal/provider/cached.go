package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-search/internal/cache"
)

// Cached wraps a Provider with the shared TTL cache. Resources covering the
// running season expire quickly; profile-heavy resources live longer.
type Cached struct {
	inner  Provider
	cache  *cache.Cache
	logger *slog.Logger
}

// NewCached wraps inner with caching. A disabled cache makes this a
// pass-through.
func NewCached(inner Provider, c *cache.Cache, logger *slog.Logger) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{inner: inner, cache: c, logger: logger}
}

// Name implements Provider.
func (c *Cached) Name() string { return c.inner.Name() }

// Fetch implements Provider. Only successful results are cached; errors
// always reach the caller so the retry policy can act on them.
func (c *Cached) Fetch(ctx context.Context, req Request) (*Result, error) {
	key := cacheKey(req)
	if data, _, ok := c.cache.Get(key); ok {
		var cached Result
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		// Corrupt entry; fall through to a fresh fetch.
		c.cache.Delete(key)
	}

	result, err := c.inner.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(result); err == nil {
		c.cache.Set(key, data, ttlFor(req))
	} else {
		c.logger.Warn("cache encode failed", "key", key, "error", err)
	}
	return result, nil
}

func cacheKey(req Request) string {
	return fmt.Sprintf("provider:%s:l%d:s%d:p%d:t%d:o%d:n%d:%s:%s:%t",
		req.Resource, req.LeagueID, req.Season, req.PlayerID, req.TeamID,
		req.OpponentID, req.Limit, day(req.From), day(req.To), req.Past)
}

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func ttlFor(req Request) time.Duration {
	switch req.Resource {
	case ResourceFixtures, ResourceHeadToHead:
		return cache.TTLFixtures
	case ResourceStandings, ResourceTopScorers, ResourceTopAssists:
		return cache.TTLLeaderboards
	default:
		return cache.TTLCurrentSeason
	}
}
