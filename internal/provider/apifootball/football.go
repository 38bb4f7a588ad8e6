package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/albapepper/scoracle-search/internal/provider"
)

// Handler fetches and normalizes football data from API-Football. It
// implements provider.Provider.
type Handler struct {
	client *Client
	logger *slog.Logger
}

// NewHandler creates an API-Football provider.
func NewHandler(apiKey string, requestsPerMinute int, timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client: NewClient(apiKey, requestsPerMinute, timeout, logger),
		logger: logger,
	}
}

// Name implements provider.Provider.
func (h *Handler) Name() string { return "api-football" }

// Fetch implements provider.Provider.
func (h *Handler) Fetch(ctx context.Context, req provider.Request) (*provider.Result, error) {
	var (
		result *provider.Result
		err    error
	)
	switch req.Resource {
	case provider.ResourceStandings:
		result, err = h.standings(ctx, req)
	case provider.ResourceTopScorers:
		result, err = h.leaders(ctx, req, "/players/topscorers")
	case provider.ResourceTopAssists:
		result, err = h.leaders(ctx, req, "/players/topassists")
	case provider.ResourcePlayerStats:
		result, err = h.playerStats(ctx, req)
	case provider.ResourceTeamStats:
		result, err = h.teamStats(ctx, req)
	case provider.ResourceFixtures:
		result, err = h.fixtures(ctx, req)
	case provider.ResourceHeadToHead:
		result, err = h.headToHead(ctx, req)
	default:
		return nil, provider.NewError(provider.ErrUpstream, fmt.Errorf("unsupported resource %q", req.Resource))
	}
	if err != nil {
		return nil, err
	}
	result.Source = h.Name()
	return result, nil
}

// --------------------------------------------------------------------------
// Wire shapes — only the fields we normalize
// --------------------------------------------------------------------------

type wireStandingRow struct {
	Rank int `json:"rank"`
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"team"`
	Points    int    `json:"points"`
	GoalsDiff int    `json:"goalsDiff"`
	Form      string `json:"form"`
	All       struct {
		Played int `json:"played"`
		Win    int `json:"win"`
		Draw   int `json:"draw"`
		Lose   int `json:"lose"`
		Goals  struct {
			For     int `json:"for"`
			Against int `json:"against"`
		} `json:"goals"`
	} `json:"all"`
}

type wirePlayerEntry struct {
	Player struct {
		ID          int    `json:"id"`
		Name        string `json:"name"`
		Nationality string `json:"nationality"`
		Photo       string `json:"photo"`
	} `json:"player"`
	Statistics []struct {
		Team struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"team"`
		Games struct {
			// API-Football spells it "appearences".
			Appearances *int    `json:"appearences"`
			Minutes     *int    `json:"minutes"`
			Position    string  `json:"position"`
			Rating      *string `json:"rating"`
		} `json:"games"`
		Goals struct {
			Total   *int `json:"total"`
			Assists *int `json:"assists"`
		} `json:"goals"`
		Cards struct {
			Yellow *int `json:"yellow"`
			Red    *int `json:"red"`
		} `json:"cards"`
	} `json:"statistics"`
}

type wireFixture struct {
	Fixture struct {
		ID     int       `json:"id"`
		Date   time.Time `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
	} `json:"fixture"`
	League struct {
		Round string `json:"round"`
	} `json:"league"`
	Teams struct {
		Home struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

type wireTeamProfile struct {
	Team struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Logo string `json:"logo"`
	} `json:"team"`
	Venue struct {
		Name string `json:"name"`
	} `json:"venue"`
}

// --------------------------------------------------------------------------
// Resource fetchers
// --------------------------------------------------------------------------

func (h *Handler) standings(ctx context.Context, req provider.Request) (*provider.Result, error) {
	params := url.Values{}
	params.Set("league", strconv.Itoa(req.LeagueID))
	params.Set("season", strconv.Itoa(req.Season))

	raw, err := h.client.get(ctx, "/standings", params)
	if err != nil {
		return nil, err
	}

	// Response nests the table two levels deep; standings is a list of
	// groups (a single group for regular league formats).
	var wrapper []struct {
		League struct {
			Standings [][]wireStandingRow `json:"standings"`
		} `json:"league"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, provider.NewError(provider.ErrDecode, fmt.Errorf("decode standings: %w", err))
	}
	if len(wrapper) == 0 || len(wrapper[0].League.Standings) == 0 {
		return nil, provider.NewError(provider.ErrNotFound, fmt.Errorf("no standings for league %d season %d", req.LeagueID, req.Season))
	}

	rows := wrapper[0].League.Standings[0]
	result := &provider.Result{Standings: make([]provider.StandingRow, 0, len(rows))}
	for _, row := range rows {
		result.Standings = append(result.Standings, provider.StandingRow{
			Rank:         row.Rank,
			TeamID:       row.Team.ID,
			TeamName:     row.Team.Name,
			Played:       row.All.Played,
			Won:          row.All.Win,
			Drawn:        row.All.Draw,
			Lost:         row.All.Lose,
			GoalsFor:     row.All.Goals.For,
			GoalsAgainst: row.All.Goals.Against,
			GoalDiff:     row.GoalsDiff,
			Points:       row.Points,
			Form:         row.Form,
		})
	}
	return result, nil
}

func (h *Handler) leaders(ctx context.Context, req provider.Request, path string) (*provider.Result, error) {
	params := url.Values{}
	params.Set("league", strconv.Itoa(req.LeagueID))
	params.Set("season", strconv.Itoa(req.Season))

	raw, err := h.client.get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	var entries []wirePlayerEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, provider.NewError(provider.ErrDecode, fmt.Errorf("decode leaders: %w", err))
	}

	limit := req.Limit
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}

	result := &provider.Result{Leaders: make([]provider.LeaderRow, 0, limit)}
	for i, entry := range entries[:limit] {
		row := provider.LeaderRow{
			Rank:       i + 1,
			PlayerID:   entry.Player.ID,
			PlayerName: entry.Player.Name,
		}
		if len(entry.Statistics) > 0 {
			stat := entry.Statistics[0]
			row.TeamName = stat.Team.Name
			row.Goals = stat.Goals.Total
			row.Assists = stat.Goals.Assists
			row.Appearances = stat.Games.Appearances
			row.Minutes = stat.Games.Minutes
			row.Rating = parseRating(stat.Games.Rating)
		}
		result.Leaders = append(result.Leaders, row)
	}
	return result, nil
}

func (h *Handler) playerStats(ctx context.Context, req provider.Request) (*provider.Result, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(req.PlayerID))
	params.Set("season", strconv.Itoa(req.Season))

	raw, err := h.client.get(ctx, "/players", params)
	if err != nil {
		return nil, err
	}

	var entries []wirePlayerEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, provider.NewError(provider.ErrDecode, fmt.Errorf("decode player: %w", err))
	}
	if len(entries) == 0 {
		return nil, provider.NewError(provider.ErrNotFound, fmt.Errorf("no stats for player %d season %d", req.PlayerID, req.Season))
	}

	entry := entries[0]
	season := &provider.PlayerSeason{
		PlayerID:    entry.Player.ID,
		Name:        entry.Player.Name,
		Season:      req.Season,
		Nationality: entry.Player.Nationality,
		PhotoURL:    entry.Player.Photo,
	}
	if len(entry.Statistics) > 0 {
		// Statistics are split per competition; the first entry is the
		// player's primary league.
		stat := entry.Statistics[0]
		season.TeamID = stat.Team.ID
		season.TeamName = stat.Team.Name
		season.Position = stat.Games.Position
		season.Goals = stat.Goals.Total
		season.Assists = stat.Goals.Assists
		season.Appearances = stat.Games.Appearances
		season.Minutes = stat.Games.Minutes
		season.YellowCards = stat.Cards.Yellow
		season.RedCards = stat.Cards.Red
		season.Rating = parseRating(stat.Games.Rating)
	}
	return &provider.Result{Player: season}, nil
}

// teamStats combines the league table row with the team profile, since
// API-Football has no single endpoint carrying both.
func (h *Handler) teamStats(ctx context.Context, req provider.Request) (*provider.Result, error) {
	standings, err := h.standings(ctx, req)
	if err != nil {
		return nil, err
	}

	season := &provider.TeamSeason{
		TeamID:   req.TeamID,
		LeagueID: req.LeagueID,
		Season:   req.Season,
	}
	for _, row := range standings.Standings {
		if row.TeamID != req.TeamID {
			continue
		}
		row := row
		season.Name = row.TeamName
		season.Rank = &row.Rank
		season.Played = &row.Played
		season.Won = &row.Won
		season.Drawn = &row.Drawn
		season.Lost = &row.Lost
		season.GoalsFor = &row.GoalsFor
		season.GoalsAgainst = &row.GoalsAgainst
		season.Points = &row.Points
		season.Form = row.Form
		break
	}
	if season.Name == "" {
		return nil, provider.NewError(provider.ErrNotFound, fmt.Errorf("team %d not in league %d standings", req.TeamID, req.LeagueID))
	}

	params := url.Values{}
	params.Set("id", strconv.Itoa(req.TeamID))
	if raw, err := h.client.get(ctx, "/teams", params); err == nil {
		var profiles []wireTeamProfile
		if json.Unmarshal(raw, &profiles) == nil && len(profiles) > 0 {
			season.Venue = profiles[0].Venue.Name
			season.LogoURL = profiles[0].Team.Logo
		}
	} else {
		// Profile is decoration; the table row already answers the query.
		h.logger.Warn("team profile fetch failed", "team_id", req.TeamID, "error", err)
	}

	return &provider.Result{Team: season}, nil
}

func (h *Handler) fixtures(ctx context.Context, req provider.Request) (*provider.Result, error) {
	params := url.Values{}
	switch {
	case !req.From.IsZero() && !req.To.IsZero():
		params.Set("league", strconv.Itoa(req.LeagueID))
		params.Set("season", strconv.Itoa(req.Season))
		params.Set("from", req.From.Format("2006-01-02"))
		params.Set("to", req.To.Format("2006-01-02"))
		if req.TeamID != 0 {
			params.Del("league")
			params.Set("team", strconv.Itoa(req.TeamID))
		}
	case req.TeamID != 0:
		params.Set("team", strconv.Itoa(req.TeamID))
		if req.Past {
			params.Set("last", strconv.Itoa(fixtureWindow(req.Limit)))
		} else {
			params.Set("next", strconv.Itoa(fixtureWindow(req.Limit)))
		}
	default:
		params.Set("league", strconv.Itoa(req.LeagueID))
		params.Set("season", strconv.Itoa(req.Season))
		if req.Past {
			params.Set("last", strconv.Itoa(fixtureWindow(req.Limit)))
		} else {
			params.Set("next", strconv.Itoa(fixtureWindow(req.Limit)))
		}
	}

	raw, err := h.client.get(ctx, "/fixtures", params)
	if err != nil {
		return nil, err
	}
	return decodeFixtures(raw)
}

// headToHead fetches past or upcoming meetings between two teams via the
// dedicated headtohead endpoint, which takes the pairing as "id-id".
func (h *Handler) headToHead(ctx context.Context, req provider.Request) (*provider.Result, error) {
	params := url.Values{}
	params.Set("h2h", fmt.Sprintf("%d-%d", req.TeamID, req.OpponentID))
	if req.Past {
		params.Set("last", strconv.Itoa(fixtureWindow(req.Limit)))
	} else {
		params.Set("next", strconv.Itoa(fixtureWindow(req.Limit)))
	}

	raw, err := h.client.get(ctx, "/fixtures/headtohead", params)
	if err != nil {
		return nil, err
	}
	return decodeFixtures(raw)
}

func decodeFixtures(raw json.RawMessage) (*provider.Result, error) {
	var entries []wireFixture
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, provider.NewError(provider.ErrDecode, fmt.Errorf("decode fixtures: %w", err))
	}

	result := &provider.Result{Fixtures: make([]provider.Fixture, 0, len(entries))}
	for _, entry := range entries {
		result.Fixtures = append(result.Fixtures, provider.Fixture{
			ID:        entry.Fixture.ID,
			Kickoff:   entry.Fixture.Date,
			Status:    entry.Fixture.Status.Short,
			Round:     entry.League.Round,
			HomeID:    entry.Teams.Home.ID,
			HomeName:  entry.Teams.Home.Name,
			AwayID:    entry.Teams.Away.ID,
			AwayName:  entry.Teams.Away.Name,
			HomeGoals: entry.Goals.Home,
			AwayGoals: entry.Goals.Away,
		})
	}
	return result, nil
}

func fixtureWindow(limit int) int {
	if limit <= 0 {
		return 5
	}
	return limit
}

// parseRating converts the string rating API-Football ships ("7.25") into a
// float, dropping unparseable values instead of guessing.
func parseRating(s *string) *float64 {
	if s == nil || *s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(*s, 64)
	if err != nil {
		return nil
	}
	return &v
}
