package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/provider/apifootball"
	"github.com/albapepper/scoracle-search/internal/search/alias"
)

// Build assembles an alias dataset from API-Football. Leagues come from the
// registry when leagueIDs is empty. Failures are collected per team rather
// than aborting the build; a partial dataset beats none.
func Build(ctx context.Context, handler *apifootball.Handler, leagueIDs []int, season int, logger *slog.Logger) (alias.Dataset, Result) {
	var result Result

	if len(leagueIDs) == 0 {
		for id := range config.LeagueRegistry {
			leagueIDs = append(leagueIDs, id)
		}
	}

	ds := alias.Dataset{
		Version: fmt.Sprintf("%s-s%d", time.Now().UTC().Format("2006-01-02"), season),
		Aliases: make(map[string][]string),
	}

	for _, leagueID := range leagueIDs {
		lc, ok := config.LeagueRegistry[leagueID]
		if !ok {
			result.AddErrorf("league %d not in registry, skipped", leagueID)
			continue
		}

		ds.Entities = append(ds.Entities, alias.Entity{
			ID:   leagueID,
			Kind: alias.KindLeague,
			Name: lc.Name,
		})
		result.Leagues++
		addAliases(&ds, &result, alias.KindLeague, leagueID, leagueAliases[leagueID])

		logger.Info("Fetching teams", "league", lc.Name, "season", season)
		teams, err := handler.LeagueTeams(ctx, leagueID, season)
		if err != nil {
			result.AddErrorf("league %d teams: %v", leagueID, err)
			continue
		}

		for _, team := range teams {
			ds.Entities = append(ds.Entities, alias.Entity{
				ID:       team.ID,
				Kind:     alias.KindTeam,
				Name:     team.Name,
				LeagueID: leagueID,
			})
			result.Teams++
			addAliases(&ds, &result, alias.KindTeam, team.ID, teamNicknames[team.ID])

			players, err := handler.TeamSquad(ctx, team.ID)
			if err != nil {
				result.AddErrorf("team %d squad: %v", team.ID, err)
				continue
			}
			for _, p := range players {
				ds.Entities = append(ds.Entities, alias.Entity{
					ID:       p.ID,
					Kind:     alias.KindPlayer,
					Name:     p.Name,
					TeamID:   team.ID,
					LeagueID: leagueID,
				})
				result.Players++
			}
		}
		logger.Info("League done", "league", lc.Name, "teams", len(teams))
	}

	return ds, result
}

func addAliases(ds *alias.Dataset, result *Result, kind alias.Kind, id int, aliases []string) {
	if len(aliases) == 0 {
		return
	}
	key := fmt.Sprintf("%s:%d", kind, id)
	ds.Aliases[key] = append(ds.Aliases[key], aliases...)
	result.Aliases += len(aliases)
}
