// Package handler provides HTTP handlers for the search API. Handlers call
// the search engine and pass its typed payloads through as JSON; they never
// reach into providers or the alias index beyond what the engine exposes.
package handler

import (
	"net/http"
	"time"

	"github.com/albapepper/scoracle-search/internal/api/respond"
	"github.com/albapepper/scoracle-search/internal/cache"
	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/db"
	"github.com/albapepper/scoracle-search/internal/search"
	"github.com/albapepper/scoracle-search/internal/search/alias"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	engine *search.Engine
	index  *alias.Index
	cache  *cache.Cache
	cfg    *config.Config

	// pool is nil when the alias dataset was loaded from a file.
	pool *db.Pool
}

// New creates a Handler with shared dependencies.
func New(engine *search.Engine, index *alias.Index, c *cache.Cache, pool *db.Pool, cfg *config.Config) *Handler {
	return &Handler{
		engine: engine,
		index:  index,
		cache:  c,
		cfg:    cfg,
		pool:   pool,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and the loaded alias dataset version.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":            "Scoracle Search API",
		"version":         "1.0.0",
		"status":          "running",
		"docs":            "/docs",
		"dataset_version": h.index.Version(),
		"entities":        h.index.Len(),
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity. Reports file mode when no database is configured.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.pool == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not configured (file-backed alias dataset)",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
