package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/albapepper/scoracle-search/internal/api/respond"
	"github.com/albapepper/scoracle-search/internal/search"
	"github.com/albapepper/scoracle-search/internal/search/payload"
)

// searchRequest is the POST body for /search.
type searchRequest struct {
	Query     string   `json:"query"`
	SessionID string   `json:"session_id,omitempty"`
	Season    int      `json:"season,omitempty"`
	LeagueID  int      `json:"league_id,omitempty"`
	EntityIDs []string `json:"entity_ids,omitempty"`
}

// Search answers a natural-language query.
// @Summary Natural-language search
// @Description Runs a football query through the understanding pipeline and returns a typed payload (table, player_card, team_card, comparison, disambiguation, or error).
// @Tags search
// @Accept json
// @Produce json
// @Param q query string false "Query text (GET form)"
// @Param session_id query string false "Session identifier for follow-up queries"
// @Param season query int false "Season start year override"
// @Param league_id query int false "Competition scope override"
// @Param request body searchRequest false "Query (POST form)"
// @Success 200 {object} payload.Response
// @Failure 400 {object} payload.Response
// @Failure 404 {object} payload.Response
// @Failure 503 {object} payload.Response
// @Router /search [get]
// @Router /search [post]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req search.Request

	switch r.Method {
	case http.MethodPost:
		var body searchRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "request body must be JSON with a query field")
			return
		}
		req = search.Request{
			Query:     body.Query,
			SessionID: body.SessionID,
			Season:    body.Season,
			LeagueID:  body.LeagueID,
			EntityIDs: body.EntityIDs,
		}
	default:
		q := r.URL.Query()
		req = search.Request{
			Query:     q.Get("q"),
			SessionID: q.Get("session_id"),
		}
		if season, err := strconv.Atoi(q.Get("season")); err == nil {
			req.Season = season
		}
		if leagueID, err := strconv.Atoi(q.Get("league_id")); err == nil {
			req.LeagueID = leagueID
		}
	}

	resp := h.engine.Search(r.Context(), req)
	respond.WriteJSONObject(w, statusFor(resp), resp)
}

// statusFor maps payload outcomes onto HTTP status codes. Disambiguation is
// a successful answer; only terminal errors leave the 2xx range.
func statusFor(resp *payload.Response) int {
	if resp.Type != payload.TypeError {
		return http.StatusOK
	}
	errPayload, ok := resp.Data.(payload.Error)
	if !ok {
		return http.StatusInternalServerError
	}
	switch errPayload.Kind {
	case payload.ErrEmptyQuery, payload.ErrUnsupportedQuery:
		return http.StatusBadRequest
	case payload.ErrNotFound:
		return http.StatusNotFound
	case payload.ErrUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
