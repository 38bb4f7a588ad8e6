// Package provider defines the canonical data contract between the query
// executor and upstream football data sources. Providers normalize their
// wire shapes into these structs; the executor and formatter never see a
// provider-specific field.
//
// Adding a provider means implementing Provider over these types. Nothing
// downstream changes.
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Resource names one fetchable dataset.
type Resource string

const (
	ResourceStandings   Resource = "standings"
	ResourceTopScorers  Resource = "top_scorers"
	ResourceTopAssists  Resource = "top_assists"
	ResourcePlayerStats Resource = "player_stats"
	ResourceTeamStats   Resource = "team_stats"
	ResourceFixtures    Resource = "fixtures"
	ResourceHeadToHead  Resource = "head_to_head"
)

// Request describes one upstream fetch. Unused fields stay zero; each
// resource documents what it reads.
type Request struct {
	Resource Resource

	LeagueID int // standings, leaderboards, fixtures
	Season   int // all resources
	PlayerID int // player_stats
	TeamID   int // team_stats, fixtures, head_to_head
	// OpponentID is the second team of a head_to_head request.
	OpponentID int
	Limit      int // leaderboards; 0 means provider default

	// Fixture window. Zero values mean "provider default" (next/last few).
	From time.Time
	To   time.Time
	// Past selects finished fixtures instead of upcoming ones.
	Past bool
}

// Result carries the normalized data for one request. Exactly one field
// group is populated, matching the requested resource.
type Result struct {
	Standings []StandingRow `json:"standings,omitempty"`
	Leaders   []LeaderRow   `json:"leaders,omitempty"`
	Player    *PlayerSeason `json:"player,omitempty"`
	Team      *TeamSeason   `json:"team,omitempty"`
	Fixtures  []Fixture     `json:"fixtures,omitempty"`

	// Source identifies the upstream for the response envelope.
	Source string `json:"source"`
}

// Provider is an upstream football data source.
type Provider interface {
	Fetch(ctx context.Context, req Request) (*Result, error)
	Name() string
}

// --------------------------------------------------------------------------
// Canonical shapes
// --------------------------------------------------------------------------
//
// Pointer fields mean "upstream may not supply this"; nil is preserved all
// the way to the response so renderers can distinguish missing from zero.

// StandingRow is one row of a league table.
type StandingRow struct {
	Rank         int    `json:"rank"`
	TeamID       int    `json:"team_id"`
	TeamName     string `json:"team_name"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Drawn        int    `json:"drawn"`
	Lost         int    `json:"lost"`
	GoalsFor     int    `json:"goals_for"`
	GoalsAgainst int    `json:"goals_against"`
	GoalDiff     int    `json:"goal_diff"`
	Points       int    `json:"points"`
	Form         string `json:"form,omitempty"`
}

// LeaderRow is one row of a scorer or assist leaderboard.
type LeaderRow struct {
	Rank        int      `json:"rank"`
	PlayerID    int      `json:"player_id"`
	PlayerName  string   `json:"player_name"`
	TeamName    string   `json:"team_name"`
	Goals       *int     `json:"goals,omitempty"`
	Assists     *int     `json:"assists,omitempty"`
	Appearances *int     `json:"appearances,omitempty"`
	Minutes     *int     `json:"minutes,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

// PlayerSeason is a player's aggregated season statistics.
type PlayerSeason struct {
	PlayerID    int      `json:"player_id"`
	Name        string   `json:"name"`
	TeamID      int      `json:"team_id,omitempty"`
	TeamName    string   `json:"team_name,omitempty"`
	Season      int      `json:"season"`
	Position    string   `json:"position,omitempty"`
	Nationality string   `json:"nationality,omitempty"`
	PhotoURL    string   `json:"photo_url,omitempty"`
	Goals       *int     `json:"goals,omitempty"`
	Assists     *int     `json:"assists,omitempty"`
	Appearances *int     `json:"appearances,omitempty"`
	Minutes     *int     `json:"minutes,omitempty"`
	YellowCards *int     `json:"yellow_cards,omitempty"`
	RedCards    *int     `json:"red_cards,omitempty"`
	Rating      *float64 `json:"rating,omitempty"`
}

// TeamSeason is a team's season summary, standings position included.
type TeamSeason struct {
	TeamID       int    `json:"team_id"`
	Name         string `json:"name"`
	LeagueID     int    `json:"league_id,omitempty"`
	LeagueName   string `json:"league_name,omitempty"`
	Season       int    `json:"season"`
	Venue        string `json:"venue,omitempty"`
	LogoURL      string `json:"logo_url,omitempty"`
	Rank         *int   `json:"rank,omitempty"`
	Played       *int   `json:"played,omitempty"`
	Won          *int   `json:"won,omitempty"`
	Drawn        *int   `json:"drawn,omitempty"`
	Lost         *int   `json:"lost,omitempty"`
	GoalsFor     *int   `json:"goals_for,omitempty"`
	GoalsAgainst *int   `json:"goals_against,omitempty"`
	Points       *int   `json:"points,omitempty"`
	Form         string `json:"form,omitempty"`
}

// Fixture is one scheduled or finished match.
type Fixture struct {
	ID        int       `json:"id"`
	Kickoff   time.Time `json:"kickoff"`
	Status    string    `json:"status"`
	Round     string    `json:"round,omitempty"`
	HomeID    int       `json:"home_id"`
	HomeName  string    `json:"home_name"`
	AwayID    int       `json:"away_id"`
	AwayName  string    `json:"away_name"`
	HomeGoals *int      `json:"home_goals,omitempty"`
	AwayGoals *int      `json:"away_goals,omitempty"`
}

// --------------------------------------------------------------------------
// Error taxonomy
// --------------------------------------------------------------------------

// ErrorKind classifies fetch failures for retry and rendering decisions.
type ErrorKind string

const (
	ErrTimeout     ErrorKind = "timeout"
	ErrRateLimited ErrorKind = "rate_limited"
	ErrUpstream    ErrorKind = "upstream"
	ErrNotFound    ErrorKind = "not_found"
	ErrDecode      ErrorKind = "decode"
)

// Error is a classified fetch failure. Retryable errors get one retry with
// backoff from the executor; the rest fail immediately.
type Error struct {
	Kind      ErrorKind
	Retryable bool
	Err       error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with a kind. Timeouts and rate limits are retryable.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{
		Kind:      kind,
		Retryable: kind == ErrTimeout || kind == ErrRateLimited || kind == ErrUpstream,
		Err:       err,
	}
}

// AsError extracts a classified provider error, defaulting unknown failures
// to a retryable upstream error.
func AsError(err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewError(ErrTimeout, err)
	}
	return NewError(ErrUpstream, err)
}
