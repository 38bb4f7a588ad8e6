package apifootball

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// BootstrapTeam is a team profile fetched for alias dataset builds.
type BootstrapTeam struct {
	ID   int
	Name string
}

// BootstrapPlayer is a squad member fetched for alias dataset builds.
type BootstrapPlayer struct {
	ID   int
	Name string
}

// LeagueTeams lists the teams in a league season.
func (h *Handler) LeagueTeams(ctx context.Context, leagueID, season int) ([]BootstrapTeam, error) {
	params := url.Values{}
	params.Set("league", strconv.Itoa(leagueID))
	params.Set("season", strconv.Itoa(season))

	raw, err := h.client.get(ctx, "/teams", params)
	if err != nil {
		return nil, err
	}

	var entries []wireTeamProfile
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode teams: %w", err)
	}

	teams := make([]BootstrapTeam, 0, len(entries))
	for _, e := range entries {
		teams = append(teams, BootstrapTeam{ID: e.Team.ID, Name: e.Team.Name})
	}
	return teams, nil
}

// TeamSquad lists a team's current squad. The squads endpoint returns the
// whole squad in one response, no pagination.
func (h *Handler) TeamSquad(ctx context.Context, teamID int) ([]BootstrapPlayer, error) {
	params := url.Values{}
	params.Set("team", strconv.Itoa(teamID))

	raw, err := h.client.get(ctx, "/players/squads", params)
	if err != nil {
		return nil, err
	}

	var entries []struct {
		Players []struct {
			ID   int    `json:"id"`
			Name string `json:"name"`
		} `json:"players"`
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode squad: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	players := make([]BootstrapPlayer, 0, len(entries[0].Players))
	for _, p := range entries[0].Players {
		players = append(players, BootstrapPlayer{ID: p.ID, Name: p.Name})
	}
	return players, nil
}
