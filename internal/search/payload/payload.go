// Package payload defines the stable response contract between the search
// engine and the rendering collaborator. Every payload variant carries its
// own type discriminator, so renderers never need upstream-provider shape
// knowledge. Variants never structurally overlap.
package payload

import (
	"encoding/json"
	"time"
)

// Type discriminates payload variants.
type Type string

const (
	TypeTable          Type = "table"
	TypePlayerCard     Type = "player_card"
	TypeTeamCard       Type = "team_card"
	TypeComparison     Type = "comparison"
	TypeDisambiguation Type = "disambiguation"
	TypeError          Type = "error"
)

// Payload is the sum type over all response variants. The rendering boundary
// switches on the concrete type; adding a variant means every switch gets a
// new case.
type Payload interface {
	PayloadType() Type
}

// Response is the envelope every search answer ships in.
type Response struct {
	Type        Type           `json:"type"`
	Data        Payload        `json:"data"`
	AsOf        string         `json:"as_of"`
	SourcesUsed []string       `json:"sources_used,omitempty"`
	Assumptions []string       `json:"assumptions,omitempty"`
	Missing     []string       `json:"missing_capabilities,omitempty"`
	Session     *SessionUpdate `json:"session_update,omitempty"`
	Meta        *Meta          `json:"_meta,omitempty"`
}

// SessionUpdate tells the client what was remembered for follow-up queries.
type SessionUpdate struct {
	Intent   string      `json:"intent"`
	Entities []EntityRef `json:"entities"`
}

// Meta carries debugging and analytics metadata for a query.
type Meta struct {
	OriginalQuery    string   `json:"original_query"`
	NormalizedQuery  string   `json:"normalized_query"`
	Intent           string   `json:"intent"`
	IntentConfidence float64  `json:"intent_confidence"`
	UsedLLM          bool     `json:"used_llm"`
	LatencyMS        int64    `json:"latency_ms"`
	Entities         []string `json:"entities,omitempty"`
}

// NewResponse wraps a payload in an envelope stamped with the current time.
func NewResponse(p Payload) *Response {
	return &Response{
		Type: p.PayloadType(),
		Data: p,
		AsOf: time.Now().UTC().Format(time.RFC3339),
	}
}

// --------------------------------------------------------------------------
// Entity references and stat values
// --------------------------------------------------------------------------

// EntityRef is the compact entity reference embedded in payloads.
type EntityRef struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// Stat is a statistic that may be unavailable. A missing value marshals to
// JSON null so renderers can tell "zero" from "not supplied by provider" —
// the engine never fabricates a zero.
type Stat struct {
	Value     float64
	Available bool
}

// StatOf wraps an available value.
func StatOf(v float64) Stat { return Stat{Value: v, Available: true} }

// Unavailable is the explicit missing-statistic marker.
var Unavailable = Stat{}

// MarshalJSON implements json.Marshaler.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.Available {
		return []byte("null"), nil
	}
	return json.Marshal(s.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Stat{}
		return nil
	}
	s.Available = true
	return json.Unmarshal(data, &s.Value)
}

// --------------------------------------------------------------------------
// Variants
// --------------------------------------------------------------------------

// Column defines one table column.
type Column struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Align    string `json:"align,omitempty"` // "left", "center", "right"
	Sortable bool   `json:"sortable,omitempty"`
}

// Table is the payload for standings, leaderboards, and schedules.
type Table struct {
	Title     string           `json:"title"`
	Columns   []Column         `json:"columns"`
	Rows      []map[string]any `json:"rows"`
	SortBy    string           `json:"sort_by,omitempty"`
	SortOrder string           `json:"sort_order,omitempty"` // "asc" | "desc"
}

func (Table) PayloadType() Type { return TypeTable }

// SeasonTotals are a player's headline season statistics.
type SeasonTotals struct {
	Goals       Stat `json:"goals"`
	Assists     Stat `json:"assists"`
	Appearances Stat `json:"appearances"`
	Minutes     Stat `json:"minutes"`
	YellowCards Stat `json:"yellow_cards"`
	RedCards    Stat `json:"red_cards"`
	Rating      Stat `json:"rating"`
}

// PlayerCard is the payload for a single-player lookup.
type PlayerCard struct {
	Entity       EntityRef    `json:"entity"`
	TeamRef      *EntityRef   `json:"team_ref,omitempty"`
	Season       int          `json:"season"`
	SeasonTotals SeasonTotals `json:"season_totals"`
	Position     string       `json:"position,omitempty"`
	Nationality  string       `json:"nationality,omitempty"`
	PhotoURL     string       `json:"photo_url,omitempty"`
}

func (PlayerCard) PayloadType() Type { return TypePlayerCard }

// TeamCard is the payload for a single-team lookup.
type TeamCard struct {
	Entity    EntityRef  `json:"entity"`
	LeagueRef *EntityRef `json:"league_ref,omitempty"`
	Venue     string     `json:"venue,omitempty"`
	Position  Stat       `json:"position"`
	Played    Stat       `json:"played"`
	Won       Stat       `json:"won"`
	Drawn     Stat       `json:"drawn"`
	Lost      Stat       `json:"lost"`
	Points    Stat       `json:"points"`
	Form      string     `json:"form,omitempty"`
	LogoURL   string     `json:"logo_url,omitempty"`
}

func (TeamCard) PayloadType() Type { return TypeTeamCard }

// Metric is one row of a comparison.
type Metric struct {
	Label      string `json:"label"`
	LeftValue  Stat   `json:"left_value"`
	RightValue Stat   `json:"right_value"`
	WinnerSide string `json:"winner_side,omitempty"` // "left", "right", or "" for tie/unknown
}

// Comparison is the payload for side-by-side entity comparison. CrossLeague
// is set when the two entities do not share a competition, so the renderer
// can caveat the numbers.
type Comparison struct {
	Left        EntityRef  `json:"left"`
	Right       EntityRef  `json:"right"`
	LeftLeague  *EntityRef `json:"left_league,omitempty"`
	RightLeague *EntityRef `json:"right_league,omitempty"`
	Metrics     []Metric   `json:"metrics"`
	CrossLeague bool       `json:"cross_league"`
}

func (Comparison) PayloadType() Type { return TypeComparison }

// DisambiguationOption is one candidate offered to the caller.
type DisambiguationOption struct {
	Entity     EntityRef `json:"entity"`
	Confidence float64   `json:"confidence"`
}

// Disambiguation asks the caller to choose between plausible entities
// instead of guessing.
type Disambiguation struct {
	Question   string                 `json:"question"`
	Candidates []DisambiguationOption `json:"candidates"`
}

func (Disambiguation) PayloadType() Type { return TypeDisambiguation }

// ErrorKind classifies error payloads for the renderer.
type ErrorKind string

const (
	ErrEmptyQuery          ErrorKind = "empty_query"
	ErrUnsupportedQuery    ErrorKind = "unsupported_query"
	ErrNotFound            ErrorKind = "not_found"
	ErrUpstreamUnavailable ErrorKind = "upstream_unavailable"
	ErrInternal            ErrorKind = "internal"
)

// Error is the payload for every terminal failure. Suggestions carry
// near-miss entities when resolution found sub-threshold candidates.
type Error struct {
	Kind        ErrorKind   `json:"kind"`
	Message     string      `json:"message"`
	Suggestions []EntityRef `json:"suggestions,omitempty"`
	Examples    []string    `json:"examples,omitempty"`
}

func (Error) PayloadType() Type { return TypeError }
