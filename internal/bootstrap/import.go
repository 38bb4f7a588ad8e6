package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-search/internal/search/alias"
)

// Import writes a dataset into Postgres through the prepared statements the
// db package registers. Entities upsert; aliases insert-ignore; the dataset
// version lands last so a half-finished import never advertises itself.
func Import(ctx context.Context, pool *pgxpool.Pool, ds alias.Dataset, logger *slog.Logger) Result {
	var result Result

	for _, e := range ds.Entities {
		var err error
		switch e.Kind {
		case alias.KindLeague:
			_, err = pool.Exec(ctx, "upsert_league", e.ID, e.Name)
			if err == nil {
				result.Leagues++
			}
		case alias.KindTeam:
			_, err = pool.Exec(ctx, "upsert_team", e.ID, e.Name, e.LeagueID)
			if err == nil {
				result.Teams++
			}
		case alias.KindPlayer:
			_, err = pool.Exec(ctx, "upsert_player", e.ID, e.Name, e.TeamID, e.LeagueID)
			if err == nil {
				result.Players++
			}
		default:
			err = fmt.Errorf("unknown kind %q", e.Kind)
		}
		if err != nil {
			result.AddErrorf("upsert %s %d: %v", e.Kind, e.ID, err)
		}
	}

	for key, aliases := range ds.Aliases {
		kind, id, err := parseAliasKey(key)
		if err != nil {
			result.AddErrorf("alias key %q: %v", key, err)
			continue
		}
		for _, text := range aliases {
			if _, err := pool.Exec(ctx, "insert_alias", string(kind), id, text); err != nil {
				result.AddErrorf("insert alias %q for %s %d: %v", text, kind, id, err)
				continue
			}
			result.Aliases++
		}
	}

	if ds.Version != "" {
		if _, err := pool.Exec(ctx, "set_version", ds.Version); err != nil {
			result.AddErrorf("set dataset version: %v", err)
		}
	}

	logger.Info("Import finished", "summary", result.Summary())
	return result
}

func parseAliasKey(key string) (alias.Kind, int, error) {
	kindStr, idStr, ok := strings.Cut(key, ":")
	if !ok {
		return "", 0, fmt.Errorf("missing separator")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return "", 0, fmt.Errorf("bad entity id: %w", err)
	}
	return alias.Kind(kindStr), id, nil
}
