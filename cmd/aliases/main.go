// Command aliases manages the alias dataset the search engine resolves
// against.
//
// Usage:
//
//	scoracle-aliases build --season 2025 --out data/aliases.json
//	scoracle-aliases build --leagues 39,140 --season 2025 --out data/aliases.json
//	scoracle-aliases verify --file data/aliases.json
//	scoracle-aliases import --file data/aliases.json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-search/internal/bootstrap"
	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/db"
	"github.com/albapepper/scoracle-search/internal/provider/apifootball"
	"github.com/albapepper/scoracle-search/internal/search/alias"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "scoracle-aliases",
		Short: "Alias dataset management CLI",
	}

	root.AddCommand(buildCmd())
	root.AddCommand(verifyCmd())
	root.AddCommand(importCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// build command
// --------------------------------------------------------------------------

func buildCmd() *cobra.Command {
	var (
		leagues []int
		season  int
		out     string
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the alias dataset from API-Football",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.APIFootballKey == "" {
				return fmt.Errorf("APIFOOTBALL_KEY is required")
			}
			if season == 0 {
				season = config.CurrentSeason(time.Now())
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			handler := apifootball.NewHandler(cfg.APIFootballKey, cfg.ProviderRatePerMin, cfg.ProviderTimeout, logger)

			start := time.Now()
			ds, result := bootstrap.Build(ctx, handler, leagues, season, logger)
			logger.Info("Build finished",
				"duration", time.Since(start).Round(time.Second),
				"summary", result.Summary())
			for _, e := range result.Errors {
				logger.Error("build error", "error", e)
			}

			data, err := json.MarshalIndent(ds, "", "  ")
			if err != nil {
				return fmt.Errorf("encode dataset: %w", err)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			logger.Info("Dataset written", "path", out, "version", ds.Version)
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&leagues, "leagues", nil, "League IDs (default: all registered leagues)")
	cmd.Flags().IntVar(&season, "season", 0, "Season year (default: current season)")
	cmd.Flags().StringVar(&out, "out", "data/aliases.json", "Output path")
	return cmd
}

// --------------------------------------------------------------------------
// verify command
// --------------------------------------------------------------------------

func verifyCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Load a dataset file and report index statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := alias.LoadFile(file)
			if err != nil {
				return err
			}

			logger.Info("Dataset loads cleanly",
				"path", file,
				"version", index.Version(),
				"entities", index.Len())

			collisions := index.Collisions()
			for text, ids := range collisions {
				logger.Warn("alias collision", "alias", text, "entity_ids", ids)
			}
			logger.Info("Verification finished", "collisions", len(collisions))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "data/aliases.json", "Dataset path")
	return cmd
}

// --------------------------------------------------------------------------
// import command
// --------------------------------------------------------------------------

func importCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a dataset file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL is required")
			}

			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			var ds alias.Dataset
			if err := json.Unmarshal(data, &ds); err != nil {
				return fmt.Errorf("decode %s: %w", file, err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			pool, err := db.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer pool.Close()

			start := time.Now()
			result := bootstrap.Import(ctx, pool.Pool, ds, logger)
			logger.Info("Import finished",
				"duration", time.Since(start).Round(time.Second),
				"summary", result.Summary())
			for _, e := range result.Errors {
				logger.Error("import error", "error", e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "data/aliases.json", "Dataset path")
	return cmd
}
