package alias

import (
	"sort"
	"strconv"
	"strings"

	"github.com/albapepper/scoracle-search/internal/search/normalize"
)

// Index is the read-only lookup structure over the canonical entity set.
type Index struct {
	entities  map[int]Entity
	byKind    map[Kind][]Entity
	normNames map[int]string // entity ID -> normalized canonical name

	// exact maps keys the form "<kind>|<alias>" to entity IDs. A key with
	// more than one ID is a known collision; lookup returns all of them.
	exact map[string][]int

	// lastName and firstName map single name components of player and team
	// canonical names to entity IDs.
	lastName  map[string][]int
	firstName map[string][]int

	version string
}

// Dataset is the on-disk / in-database shape an Index is built from.
type Dataset struct {
	Version  string              `json:"version"`
	Entities []Entity            `json:"entities"`
	Aliases  map[string][]string `json:"aliases"` // "<kind>:<id>" -> alias texts
}

// NewIndex builds an immutable index from a dataset. Alias texts and name
// components are normalized once here; request handling never mutates the
// result.
func NewIndex(ds Dataset) *Index {
	idx := &Index{
		entities:  make(map[int]Entity, len(ds.Entities)),
		byKind:    make(map[Kind][]Entity),
		normNames: make(map[int]string, len(ds.Entities)),
		exact:     make(map[string][]int),
		lastName:  make(map[string][]int),
		firstName: make(map[string][]int),
		version:   ds.Version,
	}

	for _, e := range ds.Entities {
		idx.entities[e.ID] = e
		idx.byKind[e.Kind] = append(idx.byKind[e.Kind], e)

		name := normalize.Normalize(e.Name)
		idx.normNames[e.ID] = name
		idx.addExact(e.Kind, name, e.ID)

		parts := strings.Fields(name)
		if len(parts) > 1 {
			idx.add(idx.lastName, parts[len(parts)-1], e.ID)
			idx.add(idx.firstName, parts[0], e.ID)
		}

		for _, a := range ds.Aliases[aliasKey(e.Kind, e.ID)] {
			idx.addExact(e.Kind, normalize.Normalize(a), e.ID)
		}
	}

	// Deterministic candidate order for collided names.
	for _, m := range []map[string][]int{idx.exact, idx.lastName, idx.firstName} {
		for _, ids := range m {
			sort.Ints(ids)
		}
	}
	return idx
}

func aliasKey(kind Kind, id int) string {
	return string(kind) + ":" + strconv.Itoa(id)
}

func (idx *Index) addExact(kind Kind, alias string, id int) {
	if alias == "" {
		return
	}
	idx.add(idx.exact, string(kind)+"|"+alias, id)
}

func (idx *Index) add(m map[string][]int, key string, id int) {
	for _, existing := range m[key] {
		if existing == id {
			return
		}
	}
	m[key] = append(m[key], id)
}

// Entity returns the canonical entity for an ID.
func (idx *Index) Entity(id int) (Entity, bool) {
	e, ok := idx.entities[id]
	return e, ok
}

// Entities returns all entities of a kind. The returned slice is shared;
// callers must not mutate it.
func (idx *Index) Entities(kind Kind) []Entity {
	return idx.byKind[kind]
}

// Version reports the dataset version the index was built from.
func (idx *Index) Version() string {
	return idx.version
}

// Len reports the number of canonical entities.
func (idx *Index) Len() int {
	return len(idx.entities)
}

// LookupExact returns the IDs of all entities of the given kind whose alias
// set contains the normalized text. Collided aliases return every candidate;
// disambiguation is the resolver's job.
func (idx *Index) LookupExact(normalized string, kind Kind) []int {
	return idx.exact[string(kind)+"|"+normalized]
}

// LookupLastName returns entities whose canonical last name equals the text.
func (idx *Index) LookupLastName(normalized string) []int {
	return idx.lastName[normalized]
}

// LookupFirstName returns entities whose canonical first name equals the text.
func (idx *Index) LookupFirstName(normalized string) []int {
	return idx.firstName[normalized]
}

// LookupComponent returns entries for entities of any kind whose normalized
// canonical name contains the text as a substring. Used as the partial tier
// of matching; minimum three characters to avoid noise.
func (idx *Index) LookupComponent(normalized string) []Entry {
	if len(normalized) < 3 {
		return nil
	}
	var entries []Entry
	for _, kind := range []Kind{KindPlayer, KindTeam, KindLeague} {
		for _, e := range idx.byKind[kind] {
			if strings.Contains(idx.normNames[e.ID], normalized) {
				entries = append(entries, Entry{
					Alias:     normalized,
					EntityID:  e.ID,
					Kind:      e.Kind,
					AliasKind: AliasPartial,
				})
			}
		}
	}
	return entries
}

// NormalizedName returns the precomputed normalized canonical name.
func (idx *Index) NormalizedName(id int) string {
	return idx.normNames[id]
}

// Collisions reports alias texts shared by more than one entity of the same
// kind. Used by the aliases CLI to surface intentional ambiguity.
func (idx *Index) Collisions() map[string][]int {
	out := make(map[string][]int)
	for key, ids := range idx.exact {
		if len(ids) > 1 {
			out[key] = ids
		}
	}
	return out
}

