package kikgo

import (
	"fmt"
	"strings"
)

// Scope describes how many experimental and simulated patterns a metric
// compares in one call.
type Scope uint8

const (
	// ManyToMany compares a navigation grid of patterns with a dictionary.
	ManyToMany Scope = iota
	// OneToMany compares one pattern with a dictionary.
	OneToMany
	// ManyToOne compares a navigation grid with one simulated pattern.
	ManyToOne
	// OneToOne compares two patterns.
	OneToOne
)

var scopeNames = [...]string{
	ManyToMany: "many_to_many",
	OneToMany:  "one_to_many",
	ManyToOne:  "many_to_one",
	OneToOne:   "one_to_one",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return fmt.Sprintf("Scope(%d)", s)
}

// ParseScope returns the scope with the given name, e.g. "many_to_many".
func ParseScope(name string) (Scope, error) {
	n := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, v := range scopeNames {
		if v == n {
			return Scope(i), nil
		}
	}
	return 0, fmt.Errorf("kikgo: unknown scope %q", name)
}

// Layout tells whether a pattern keeps its two signal axes (Nested) or is
// merged into one (Flattened).
type Layout uint8

const (
	Nested Layout = iota
	Flattened
)

func (l Layout) String() string {
	if l == Flattened {
		return "flattened"
	}
	return "nested"
}

// RankPair holds the ranks of the experimental and simulated arrays.
type RankPair struct {
	Experimental int
	Simulated    int
}

func (r RankPair) String() string {
	return fmt.Sprintf("(%d, %d)", r.Experimental, r.Simulated)
}

// scopeRanks is the single rank table for both layouts. Flattened ranks are
// the nested ones with the two signal axes merged into one.
var scopeRanks = [2][4]RankPair{
	Nested: {
		ManyToMany: {4, 3},
		OneToMany:  {2, 3},
		ManyToOne:  {4, 2},
		OneToOne:   {2, 2},
	},
	Flattened: {
		ManyToMany: {2, 2},
		OneToMany:  {1, 2},
		ManyToOne:  {2, 1}, // FlattenedRanks(4, 2)
		OneToOne:   {1, 1},
	},
}

var lowerScopes = [4][]Scope{
	ManyToMany: {ManyToOne, OneToMany, OneToOne},
	OneToMany:  {OneToMany, OneToOne},
	ManyToOne:  {ManyToOne, OneToOne},
	OneToOne:   nil,
}

// Ranks returns the ranks the scope requires in the given layout.
func (s Scope) Ranks(layout Layout) RankPair {
	return scopeRanks[layout][s]
}

// LowerScopes returns the scopes whose inputs can be promoted to s.
func (s Scope) LowerScopes() []Scope {
	return append([]Scope(nil), lowerScopes[s]...)
}

// Admits reports whether inputs of the inferred scope are accepted by a
// metric declared with scope s and automatic promotion.
func (s Scope) Admits(inferred Scope) bool {
	for _, l := range lowerScopes[s] {
		if l == inferred {
			return true
		}
	}
	return false
}

// ScopeOf infers the scope from the ranks of the experimental and simulated
// arrays in the given layout.
func ScopeOf(layout Layout, exptRank, simRank int) (Scope, bool) {
	for s, r := range scopeRanks[layout] {
		if r.Experimental == exptRank && r.Simulated == simRank {
			return Scope(s), true
		}
	}
	return 0, false
}

// FlattenedRanks maps nested ranks to the ranks of the same arrays once their
// signal axes are merged: experimental 4→2 and 2→1, simulated 3→2 and 2→1.
func FlattenedRanks(exptRank, simRank int) RankPair {
	return RankPair{Experimental: exptRank / 2, Simulated: simRank - 1}
}
