// Package fuzzy scores candidate entities against a query token and returns
// ranked candidates with confidence. Matching runs in strict tier order:
// exact alias, last name, first name, substring containment, then an
// edit-distance hybrid gated by a length-banded threshold. Every constant
// comes from config.SearchConfig.
package fuzzy

import (
	"sort"

	"github.com/albapepper/scoracle-search/internal/config"
	"github.com/albapepper/scoracle-search/internal/search/alias"
	"github.com/albapepper/scoracle-search/internal/search/normalize"
)

// Reason records which tier produced a candidate.
type Reason string

const (
	ReasonExact     Reason = "alias_exact"
	ReasonLastName  Reason = "last_name"
	ReasonFirstName Reason = "first_name"
	ReasonPartial   Reason = "partial"
	ReasonFuzzy     Reason = "fuzzy"
)

// Candidate is one scored match for a query token. Ephemeral; produced per
// request and never persisted.
type Candidate struct {
	Entity     alias.Entity
	Confidence float64
	Reason     Reason
}

// Matcher scores query tokens against the alias index.
type Matcher struct {
	index *alias.Index
	cfg   config.SearchConfig
}

// NewMatcher creates a matcher over an immutable index.
func NewMatcher(index *alias.Index, cfg config.SearchConfig) *Matcher {
	return &Matcher{index: index, cfg: cfg}
}

// Match returns candidates for a query token, ordered by descending
// confidence. kinds bounds the entity kinds considered; nil means all.
// Empty query or empty pool yields an empty result, not an error.
func (m *Matcher) Match(query string, kinds ...alias.Kind) []Candidate {
	normalized := normalize.Normalize(query)
	if normalized == "" {
		return nil
	}
	if len(kinds) == 0 {
		kinds = []alias.Kind{alias.KindPlayer, alias.KindTeam, alias.KindLeague}
	}

	seen := make(map[int]bool)
	var out []Candidate
	add := func(id int, confidence float64, reason Reason) {
		if seen[id] {
			return
		}
		e, ok := m.index.Entity(id)
		if !ok || !kindAllowed(e.Kind, kinds) {
			return
		}
		seen[id] = true
		out = append(out, Candidate{Entity: e, Confidence: confidence, Reason: reason})
	}

	// Tier 1: exact alias match.
	for _, kind := range kinds {
		for _, id := range m.index.LookupExact(normalized, kind) {
			add(id, m.cfg.ExactConfidence, ReasonExact)
		}
	}

	// Tier 2/3: last-name then first-name component match. First names
	// collide more, hence the lower tier confidence.
	for _, id := range m.index.LookupLastName(normalized) {
		add(id, m.cfg.LastNameConfidence, ReasonLastName)
	}
	for _, id := range m.index.LookupFirstName(normalized) {
		add(id, m.cfg.FirstNameConfidence, ReasonFirstName)
	}

	// Tier 4: substring containment, confidence scaled by how much of the
	// candidate name the query covers.
	for _, entry := range m.index.LookupComponent(normalized) {
		name := m.index.NormalizedName(entry.EntityID)
		if name == "" || name == normalized {
			continue
		}
		ratio := float64(len(normalized)) / float64(len(name))
		conf := m.cfg.PartialFloor + (m.cfg.PartialCeil-m.cfg.PartialFloor)*ratio
		add(entry.EntityID, conf, ReasonPartial)
	}

	// Tier 5: edit-distance hybrid over the full candidate pool, gated by
	// the length-banded dynamic threshold.
	threshold := m.cfg.FuzzyThreshold(len(normalized))
	for _, kind := range kinds {
		for _, e := range m.index.Entities(kind) {
			if seen[e.ID] {
				continue
			}
			score := m.hybridScore(normalized, m.index.NormalizedName(e.ID))
			if score >= threshold {
				conf := score
				if conf > m.cfg.FuzzyCeil {
					conf = m.cfg.FuzzyCeil
				}
				add(e.ID, conf, ReasonFuzzy)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// hybridScore combines a normalized Levenshtein ratio with an LCS ratio.
// Levenshtein reacts well to typos, LCS to dropped or reordered characters.
func (m *Matcher) hybridScore(query, target string) float64 {
	if query == "" || target == "" {
		return 0
	}
	lev := levenshteinRatio(query, target)
	lcs := lcsRatio(query, target)
	return lev*m.cfg.LevenshteinWeight + lcs*m.cfg.LCSWeight
}

func kindAllowed(kind alias.Kind, kinds []alias.Kind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Top returns the highest-confidence candidate, or false for an empty set.
func Top(candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[0], true
}

// WithinMargin reports the candidates whose confidence is within margin of
// the best candidate. More than one means the match is ambiguous.
func WithinMargin(candidates []Candidate, margin float64) []Candidate {
	if len(candidates) == 0 {
		return nil
	}
	top := candidates[0].Confidence
	var out []Candidate
	for _, c := range candidates {
		if top-c.Confidence <= margin {
			out = append(out, c)
		}
	}
	return out
}

// --------------------------------------------------------------------------
// String distance primitives
// --------------------------------------------------------------------------

// levenshteinRatio is 1 - dist/maxLen, in [0,1].
func levenshteinRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// lcsRatio is 2*LCS/(len(a)+len(b)), the SequenceMatcher-style similarity.
func lcsRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(lcs(ra, rb)) / float64(total)
}

func lcs(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
