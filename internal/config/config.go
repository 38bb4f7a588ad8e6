// Package config provides centralized configuration loaded from environment
// variables, plus the tunable search-policy thresholds. Shared by cmd/api and
// cmd/aliases.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// --------------------------------------------------------------------------
// League registry — the competitions the engine knows how to scope to.
// --------------------------------------------------------------------------

type LeagueConfig struct {
	ID   int
	Name string
}

// LeagueRegistry maps API-Football league IDs to display names. A team's home
// league is authoritative for scope decisions; this list only bounds which
// leagues multi-league queries fan out to.
var LeagueRegistry = map[int]LeagueConfig{
	39:  {ID: 39, Name: "Premier League"},
	140: {ID: 140, Name: "La Liga"},
	78:  {ID: 78, Name: "Bundesliga"},
	135: {ID: 135, Name: "Serie A"},
	61:  {ID: 61, Name: "Ligue 1"},
	2:   {ID: 2, Name: "Champions League"},
}

// CurrentSeason computes the season year the way API-Football labels it:
// the starting year of the season. Seasons run Aug-May, so Jan-Jul still
// belongs to the previous year's season code.
func CurrentSeason(now time.Time) int {
	if now.Month() <= time.July {
		return now.Year() - 1
	}
	return now.Year()
}

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Alias dataset. When DatabaseURL is set the dataset is loaded from
	// Postgres, otherwise from AliasesPath.
	AliasesPath    string
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Data provider
	APIFootballKey     string
	ProviderTimeout    time.Duration
	ProviderRatePerMin int

	// LLM fallback (optional)
	LLMProvider     string // "anthropic", "gemini", or "" to disable
	AnthropicAPIKey string
	GeminiAPIKey    string
	LLMTimeout      time.Duration

	// Defaults applied when a query names no competition
	DefaultLeagueID int
	DefaultSeason   int

	// Cache
	CacheEnabled bool

	// Search policy thresholds
	Search SearchConfig
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		AliasesPath:    envOr("ALIASES_PATH", "data/aliases.json"),
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:4321",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 60),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		APIFootballKey:     envOr("API_FOOTBALL_KEY", ""),
		ProviderTimeout:    time.Duration(envInt("SEARCH_PROVIDER_TIMEOUT_SECONDS", 10)) * time.Second,
		ProviderRatePerMin: envInt("API_FOOTBALL_RATE_PER_MINUTE", 300),

		LLMProvider:     envOr("SEARCH_LLM_PROVIDER", ""),
		AnthropicAPIKey: envOr("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:    envOr("GEMINI_API_KEY", ""),
		LLMTimeout:      time.Duration(envInt("SEARCH_LLM_TIMEOUT_SECONDS", 3)) * time.Second,

		DefaultLeagueID: envInt("DEFAULT_LEAGUE_ID", 39),
		DefaultSeason:   envInt("DEFAULT_SEASON", CurrentSeason(time.Now())),

		CacheEnabled: envBool("CACHE_ENABLED", true),

		Search: DefaultSearchConfig(),
	}

	// Thresholds are a product decision, not an architectural constant:
	// allow overriding the whole curve from a YAML file.
	if path := os.Getenv("SEARCH_CONFIG_FILE"); path != "" {
		if err := cfg.Search.LoadFile(path); err != nil {
			return nil, fmt.Errorf("load search config %s: %w", path, err)
		}
	}

	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Search policy thresholds
// --------------------------------------------------------------------------

// ThresholdBand is one step of the length-banded fuzzy threshold curve:
// queries up to MaxLen characters must clear Threshold.
type ThresholdBand struct {
	MaxLen    int     `yaml:"max_len"`
	Threshold float64 `yaml:"threshold"`
}

// SearchConfig holds every tunable confidence constant in the engine.
// Call sites never hardcode these.
type SearchConfig struct {
	// Match-tier confidences, descending by tier.
	ExactConfidence     float64 `yaml:"exact_confidence"`
	LastNameConfidence  float64 `yaml:"last_name_confidence"`
	FirstNameConfidence float64 `yaml:"first_name_confidence"`

	// Substring containment: confidence scales with containment ratio
	// between PartialFloor and PartialCeil. Ceil sits below the first-name
	// tier so tier ordering stays monotonic.
	PartialFloor float64 `yaml:"partial_floor"`
	PartialCeil  float64 `yaml:"partial_ceil"`

	// Edit-distance hybrid: weighted Levenshtein ratio + LCS ratio, gated by
	// the length-banded curve below. Confidence is capped at FuzzyCeil.
	LevenshteinWeight float64         `yaml:"levenshtein_weight"`
	LCSWeight         float64         `yaml:"lcs_weight"`
	FuzzyCeil         float64         `yaml:"fuzzy_ceil"`
	FuzzyBands        []ThresholdBand `yaml:"fuzzy_bands"`
	FuzzyDefault      float64         `yaml:"fuzzy_default"`

	// Resolver policy.
	TeamAutoThreshold        float64 `yaml:"team_auto_threshold"`
	PlayerAutoThreshold      float64 `yaml:"player_auto_threshold"`
	CompetitionAutoThreshold float64 `yaml:"competition_auto_threshold"`
	TeamDisambiguateFloor    float64 `yaml:"team_disambiguate_floor"`
	PlayerDisambiguateFloor  float64 `yaml:"player_disambiguate_floor"`
	DisambiguationMargin     float64 `yaml:"disambiguation_margin"`
	MaxDisambiguationOptions int     `yaml:"max_disambiguation_options"`

	// Classifier policy.
	LLMFallbackThreshold float64 `yaml:"llm_fallback_threshold"`
}

// DefaultSearchConfig returns the calibration shipped with the engine.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		ExactConfidence:     1.0,
		LastNameConfidence:  0.95,
		FirstNameConfidence: 0.85,

		PartialFloor: 0.60,
		PartialCeil:  0.84,

		LevenshteinWeight: 0.6,
		LCSWeight:         0.4,
		FuzzyCeil:         0.60,
		FuzzyBands: []ThresholdBand{
			{MaxLen: 4, Threshold: 0.55},
			{MaxLen: 6, Threshold: 0.60},
			{MaxLen: 10, Threshold: 0.65},
		},
		FuzzyDefault: 0.70,

		TeamAutoThreshold:        0.85,
		PlayerAutoThreshold:      0.88,
		CompetitionAutoThreshold: 0.90,
		TeamDisambiguateFloor:    0.65,
		PlayerDisambiguateFloor:  0.70,
		DisambiguationMargin:     0.15,
		MaxDisambiguationOptions: 4,

		LLMFallbackThreshold: 0.70,
	}
}

// FuzzyThreshold returns the minimum hybrid score a candidate must clear for
// a query of the given length. Shorter queries get a more lenient threshold
// since short strings carry higher relative typo risk.
func (s *SearchConfig) FuzzyThreshold(queryLen int) float64 {
	for _, band := range s.FuzzyBands {
		if queryLen <= band.MaxLen {
			return band.Threshold
		}
	}
	return s.FuzzyDefault
}

// LoadFile overlays thresholds from a YAML file onto the current values.
func (s *SearchConfig) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, s)
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
