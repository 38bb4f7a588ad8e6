// Command api is the Scoracle Search API server.
//
// Usage:
//
//	scoracle-search
//	API_PORT=8080 scoracle-search

// @title Scoracle Search API
// @version 1.0.0
// @description Natural-language football search. Queries are normalized, classified, resolved against the alias index, executed against API-Football, and rendered as typed payloads.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Scoracle
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/scoracle-search/internal/api"
	"github.com/albapepper/scoracle-search/internal/cache"
	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/db"
	"github.com/albapepper/scoracle-search/internal/provider"
	"github.com/albapepper/scoracle-search/internal/provider/apifootball"
	"github.com/albapepper/scoracle-search/internal/search"
	"github.com/albapepper/scoracle-search/internal/search/alias"
	"github.com/albapepper/scoracle-search/internal/search/llm"
	"github.com/albapepper/scoracle-search/internal/search/session"

	_ "github.com/albapepper/scoracle-search/docs" // swagger docs
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Alias dataset: Postgres when configured, JSON file otherwise.
	var (
		pool  *db.Pool
		index *alias.Index
	)
	if cfg.DatabaseURL != "" {
		logger.Info("Connecting to database...")
		pool, err = db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		index, err = alias.LoadDB(ctx, pool.Pool)
	} else {
		index, err = alias.LoadFile(cfg.AliasesPath)
	}
	if err != nil {
		logger.Error("Failed to load alias dataset", "error", err)
		os.Exit(1)
	}
	logger.Info("Alias dataset loaded",
		"version", index.Version(),
		"entities", index.Len())

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Data provider with shared cache
	var dataProvider provider.Provider = apifootball.NewHandler(
		cfg.APIFootballKey, cfg.ProviderRatePerMin, cfg.ProviderTimeout, logger)
	dataProvider = provider.NewCached(dataProvider, appCache, logger)

	// Optional LLM intent fallback
	fallback := newLLMProvider(ctx, cfg, logger)

	// Session store for follow-up queries
	sessions := session.NewStore(30 * time.Minute)
	defer sessions.Close()

	// Search engine
	engine := search.NewEngine(search.Options{
		Index:    index,
		Provider: dataProvider,
		Fallback: fallback,
		Sessions: sessions,
		Config:   cfg,
		Logger:   logger,
	})

	// Create router
	router := api.NewRouter(engine, index, appCache, pool, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Scoracle Search API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// newLLMProvider picks the configured intent fallback. Classification works
// without one; rule confidence just becomes final.
func newLLMProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) llm.Provider {
	switch cfg.LLMProvider {
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			logger.Warn("LLM_PROVIDER=anthropic but ANTHROPIC_API_KEY is empty, fallback disabled")
			return llm.Null{}
		}
		logger.Info("LLM intent fallback enabled", "provider", "anthropic")
		return llm.NewAnthropic(cfg.AnthropicAPIKey, cfg.LLMTimeout)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			logger.Warn("LLM_PROVIDER=gemini but GEMINI_API_KEY is empty, fallback disabled")
			return llm.Null{}
		}
		gemini, err := llm.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			logger.Warn("Gemini client init failed, fallback disabled", "error", err)
			return llm.Null{}
		}
		logger.Info("LLM intent fallback enabled", "provider", "gemini")
		return gemini
	default:
		return llm.Null{}
	}
}
