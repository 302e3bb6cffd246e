// Package automaton holds the arena-backed, index-addressed state graphs
// used for both the DFA lexer (spec.md §3 "DFA state", §4.E) and the LALR
// driver's state/action table (§3 "LR state"/"LR action", §4.G). Per
// spec.md §9's Design Notes, both graphs may be cyclic; representing them
// as a flat arena of states addressed by integer index, with edges/
// actions holding arena indices rather than pointers, sidesteps any
// ownership-cycle concern a pointer-linked representation would raise.
package automaton

import "github.com/dekarrin/goldrun/internal/symbols"

// DFAEdge is one outgoing transition of a DFAState: the character class
// that must contain the next input rune, and the arena index of the state
// to move to if it does.
type DFAEdge struct {
	Class  symbols.CharacterClass
	Target int
}

// DFAState is one node of a DFA (spec.md §3). Terminal is non-nil iff the
// state is accepting. Edges are not required to be sorted or mutually
// exclusive as far as this type is concerned -- spec.md §4.E notes the
// source table is assumed deterministic, so at most one edge's class will
// ever contain a given input rune in practice.
type DFAState struct {
	Index    int
	Terminal *symbols.Symbol
	Edges    []DFAEdge
}

// DFA is the arena of all DFA states reachable from Start, addressed by
// their integer index (spec.md §3 "DFA state").
type DFA struct {
	States []*DFAState
	Start  int
}

// State returns the state at arena index i.
func (d *DFA) State(i int) *DFAState {
	return d.States[i]
}

// StartState returns the DFA's starting state.
func (d *DFA) StartState() *DFAState {
	return d.States[d.Start]
}
