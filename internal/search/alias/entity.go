// Package alias holds the canonical entity set and the alias index built
// over it. The index is constructed once at startup, is immutable afterward,
// and is safe for unsynchronized concurrent reads. It is passed into the
// pipeline explicitly so tests can swap in fixture data.
package alias

// Kind discriminates canonical entity types.
type Kind string

const (
	KindPlayer Kind = "player"
	KindTeam   Kind = "team"
	KindLeague Kind = "league"
)

// Entity is the single authoritative record for a player, team, or league.
// Immutable once loaded; owned by the Index for the process lifetime.
type Entity struct {
	ID       int    `json:"id"`
	Kind     Kind   `json:"kind"`
	Name     string `json:"name"` // display name, diacritics preserved
	LeagueID int    `json:"league_id,omitempty"`
	TeamID   int    `json:"team_id,omitempty"` // players only
}

// AliasKind records how an alias relates to its entity's canonical name.
type AliasKind string

const (
	AliasExact     AliasKind = "exact"
	AliasLastName  AliasKind = "last_name"
	AliasFirstName AliasKind = "first_name"
	AliasPartial   AliasKind = "partial"
)

// Entry maps one normalized alias text to one entity. Many entries map to
// the same entity; an alias text shared across entities of the same kind is
// a known collision and lookup returns every candidate.
type Entry struct {
	Alias     string
	EntityID  int
	Kind      Kind
	AliasKind AliasKind
}
