package handler

import (
	"encoding/json"
	"net/http"

	"github.com/albapepper/scoracle-search/internal/api/respond"
	"github.com/albapepper/scoracle-search/internal/cache"
	"github.com/albapepper/scoracle-search/internal/search/alias"
)

// GetEntities returns the resolvable entity list for frontend autocomplete.
// The list only changes when the alias dataset is reloaded, so it is cached
// with ETag support.
// @Summary List resolvable entities
// @Description Returns every player, team, and competition the engine can resolve, for client-side autocomplete. Optionally filtered by kind.
// @Tags bootstrap
// @Produce json
// @Param kind query string false "Entity kind filter" Enums(player, team, league)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /entities [get]
func (h *Handler) GetEntities(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	switch kind {
	case "", string(alias.KindPlayer), string(alias.KindTeam), string(alias.KindLeague):
	default:
		respond.WriteError(w, http.StatusBadRequest, "INVALID_KIND", "kind must be player, team, or league")
		return
	}

	cacheKey := "entities:" + kind + ":" + h.index.Version()
	ttl := cache.TTLEntityInfo

	if data, etag, ok := h.cache.Get(cacheKey); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	var entities []alias.Entity
	if kind == "" {
		for _, k := range []alias.Kind{alias.KindPlayer, alias.KindTeam, alias.KindLeague} {
			entities = append(entities, h.index.Entities(k)...)
		}
	} else {
		entities = h.index.Entities(alias.Kind(kind))
	}

	data, err := json.Marshal(map[string]interface{}{
		"dataset_version": h.index.Version(),
		"count":           len(entities),
		"entities":        entities,
	})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "failed to encode entity list")
		return
	}

	etag := h.cache.Set(cacheKey, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}
