// Package bootstrap builds and imports the alias dataset the resolver runs
// on: every league, team, and squad member the engine should recognize,
// plus curated nicknames.
package bootstrap

import "fmt"

// Result tracks counts and errors from a dataset build or import.
type Result struct {
	Leagues int
	Teams   int
	Players int
	Aliases int
	Errors  []string
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the operation.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"leagues=%d teams=%d players=%d aliases=%d errors=%d",
		r.Leagues, r.Teams, r.Players, r.Aliases, len(r.Errors),
	)
}
