package alias

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

// LoadFile reads a versioned alias dataset from disk and builds the index.
func LoadFile(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read aliases %s: %w", path, err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("decode aliases %s: %w", path, err)
	}
	return NewIndex(ds), nil
}

// LoadDB builds the index from the leagues, teams, players, and
// entity_aliases tables. Queries run against the prepared statements
// registered by the db package.
func LoadDB(ctx context.Context, pool *pgxpool.Pool) (*Index, error) {
	var ds Dataset
	ds.Aliases = make(map[string][]string)

	rows, err := pool.Query(ctx, "list_leagues")
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	for rows.Next() {
		var e Entity
		e.Kind = KindLeague
		if err := rows.Scan(&e.ID, &e.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan league: %w", err)
		}
		ds.Entities = append(ds.Entities, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	rows, err = pool.Query(ctx, "list_teams")
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	for rows.Next() {
		var e Entity
		e.Kind = KindTeam
		if err := rows.Scan(&e.ID, &e.Name, &e.LeagueID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan team: %w", err)
		}
		ds.Entities = append(ds.Entities, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}

	rows, err = pool.Query(ctx, "list_players")
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	for rows.Next() {
		var e Entity
		e.Kind = KindPlayer
		if err := rows.Scan(&e.ID, &e.Name, &e.TeamID, &e.LeagueID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan player: %w", err)
		}
		ds.Entities = append(ds.Entities, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	rows, err = pool.Query(ctx, "list_aliases")
	if err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}
	for rows.Next() {
		var kind string
		var id int
		var text string
		if err := rows.Scan(&kind, &id, &text); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		key := aliasKey(Kind(kind), id)
		ds.Aliases[key] = append(ds.Aliases[key], text)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list aliases: %w", err)
	}

	var version string
	if err := pool.QueryRow(ctx, "alias_dataset_version").Scan(&version); err == nil {
		ds.Version = version
	}

	return NewIndex(ds), nil
}
