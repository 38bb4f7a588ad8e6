// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-search/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the alias loader and
// bootstrap CLI use. Prepared statements eliminate parse overhead on every
// request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Alias dataset load. COALESCE keeps the scan targets plain ints
		// for players without a current club.
		"list_leagues": "SELECT id, name FROM leagues ORDER BY id",
		"list_teams":   "SELECT id, name, COALESCE(league_id, 0) FROM teams ORDER BY id",
		"list_players": "SELECT id, name, COALESCE(team_id, 0), COALESCE(league_id, 0) FROM players ORDER BY id",
		"list_aliases": "SELECT entity_kind, entity_id, alias FROM entity_aliases ORDER BY entity_id",

		// Dataset version stamp written by the bootstrap CLI.
		"alias_dataset_version": "SELECT value FROM metadata WHERE key = 'alias_dataset_version'",

		// Bootstrap CLI: alias upserts and dataset replacement
		"upsert_league": "INSERT INTO leagues (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name",
		"upsert_team":   "INSERT INTO teams (id, name, league_id) VALUES ($1, $2, NULLIF($3, 0)) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, league_id = EXCLUDED.league_id",
		"upsert_player": "INSERT INTO players (id, name, team_id, league_id) VALUES ($1, $2, NULLIF($3, 0), NULLIF($4, 0)) ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, team_id = EXCLUDED.team_id, league_id = EXCLUDED.league_id",
		"insert_alias":  "INSERT INTO entity_aliases (entity_kind, entity_id, alias) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		"set_version":   "INSERT INTO metadata (key, value) VALUES ('alias_dataset_version', $1) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
