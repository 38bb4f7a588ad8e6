// Package normalize provides query text normalization: case and diacritic
// folding, punctuation stripping, abbreviation expansion, and filler-word
// removal. All functions are pure and idempotent.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// folder strips combining marks after NFD decomposition, so "Šeško" folds to
// "sesko" for matching while the display name keeps its accents.
var folder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// punctuation matches everything except word characters, whitespace, hyphens
// and apostrophes (kept for names like Saint-Maximin and O'Brien).
var punctuation = regexp.MustCompile(`[^\w\s\-']`)

var whitespace = regexp.MustCompile(`\s+`)

// Fold removes diacritics without touching case or punctuation.
func Fold(text string) string {
	folded, _, err := transform.String(folder, text)
	if err != nil {
		return text
	}
	return folded
}

// Normalize lower-cases, folds diacritics, strips punctuation (keeping
// in-name hyphens and apostrophes) and collapses whitespace.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = Fold(text)
	text = punctuation.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// --------------------------------------------------------------------------
// Abbreviation expansion
// --------------------------------------------------------------------------

// abbreviations maps common shorthand to the full form the alias dataset
// uses. Two-word keys are checked before single words.
var abbreviations = map[string]string{
	// Teams
	"man u":    "manchester united",
	"man utd":  "manchester united",
	"manu":     "manchester united",
	"mufc":     "manchester united",
	"man city": "manchester city",
	"mcfc":     "manchester city",
	"spurs":    "tottenham",
	"thfc":     "tottenham",
	"afc":      "arsenal",
	"lfc":      "liverpool",
	"cfc":      "chelsea",
	"nufc":     "newcastle",
	"whu":      "west ham",
	"avfc":     "aston villa",
	"bhafc":    "brighton",
	"nffc":     "nottingham forest",
	"lufc":     "leeds",
	// Competitions
	"prem": "premier league",
	"epl":  "premier league",
	"pl":   "premier league",
	"ucl":  "champions league",
	"cl":   "champions league",
	"uel":  "europa league",
	// Common terms
	"vs":  "versus",
	"v":   "versus",
	"vs.": "versus",
}

// fillerWords are stripped from the matching form of a query but preserved
// in the normalized form used for intent detection.
var fillerWords = map[string]bool{
	"the": true, "a": true, "an": true, "show": true, "me": true,
	"tell": true, "about": true, "what": true, "is": true, "are": true,
	"how": true, "did": true, "do": true, "does": true, "can": true,
	"could": true, "would": true, "please": true, "i": true,
	"want": true, "to": true, "see": true, "get": true, "find": true,
	"give": true,
}

// Expand replaces known abbreviations with their full forms.
// "man u vs chelsea" becomes "manchester united versus chelsea".
func Expand(text string) string {
	words := strings.Fields(strings.ToLower(text))
	result := make([]string, 0, len(words))

	for i := 0; i < len(words); i++ {
		if i < len(words)-1 {
			twoWord := words[i] + " " + words[i+1]
			if full, ok := abbreviations[twoWord]; ok {
				result = append(result, full)
				i++
				continue
			}
		}
		if full, ok := abbreviations[words[i]]; ok {
			result = append(result, full)
		} else {
			result = append(result, words[i])
		}
	}

	return strings.Join(result, " ")
}

// StripFiller removes filler words for entity matching.
// "show me the arsenal stats" becomes "arsenal stats".
func StripFiller(text string) string {
	words := strings.Fields(strings.ToLower(text))
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillerWords[w] {
			result = append(result, w)
		}
	}
	return strings.Join(result, " ")
}

// Query runs the full normalization pipeline for a raw query.
//
// Returns the normalized query (structure preserved for intent detection),
// the matching form (filler stripped), and any extracted time modifier.
func Query(raw string) (normalized, forMatching string, mod *TimeModifier) {
	normalized = Normalize(raw)
	normalized, mod = ExtractTime(normalized)
	normalized = Expand(normalized)
	forMatching = StripFiller(normalized)
	return normalized, forMatching, mod
}
