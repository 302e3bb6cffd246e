// Package ggcache persists a linked grammar.Tables object graph to a
// compact binary blob using github.com/dekarrin/rezi, so an embedder that
// reloads the same grammar across process runs (an IDE extension, a
// linter) does not have to re-run the CGT loader and table linker every
// time (SPEC_FULL.md §11).
//
// rezi's reflective codec walks plain structs, slices, maps, and
// primitives; it has no notion of the pointer cycles and interface
// fields grammar.Tables actually contains (a Symbol's Group points back
// at Symbols that point at the Group, and CharacterClass is an
// interface). So this package first flattens Tables to an index-based
// shape with the cycles and interfaces resolved away -- the same
// technique internal/grammar's linker already uses in reverse -- and only
// then hands the result to rezi.
package ggcache

import (
	"fmt"

	"github.com/dekarrin/goldrun/internal/automaton"
	"github.com/dekarrin/goldrun/internal/grammar"
	"github.com/dekarrin/goldrun/internal/symbols"
	"github.com/dekarrin/goldrun/internal/util"
)

const noIndex = -1

type cachedCharClass struct {
	// Kind is 0 for an EnumeratedClass, 1 for a RangeClass.
	Kind     uint8
	Enum     string
	Codepage uint16
	Starts   []int32
	Ends     []int32
}

type cachedDFAEdge struct {
	ClassIdx int32
	Target   int32
}

type cachedDFAState struct {
	// Terminal is the accepting state's symbol, identified by mangled
	// name ("" if the state is not accepting) rather than arena index,
	// since the symbol arena isn't addressable from inside the DFA.
	Terminal string
	Edges    []cachedDFAEdge
}

type cachedDFA struct {
	Start   int32
	Classes []cachedCharClass
	States  []cachedDFAState
}

type cachedAction struct {
	Kind    uint8
	Target  int32
	RuleIdx int32
}

type cachedLRState struct {
	EdgeKeys []string
	EdgeVals []cachedAction
	GotoKeys []string
	GotoVals []cachedAction
}

type cachedLR struct {
	Start  int32
	States []cachedLRState
}

type cachedRule struct {
	Produces int32
	Consumes []int32
}

type cachedSymbol struct {
	Name     string
	Kind     uint8
	GroupIdx int32
}

type cachedGroup struct {
	Name       string
	SymbolIdx  int32
	StartIdx   int32
	EndIdx     int32
	Advance    uint8
	Ending     uint8
	NestableOf []string
}

// cachedTables is the flat, cycle-free, reflection-safe shape persisted by
// rezi. Every cross-reference that is a pointer in grammar.Tables becomes
// an int32 arena index here.
type cachedTables struct {
	ParamKeys []string
	ParamVals []string

	Symbols []cachedSymbol
	Rules   []cachedRule
	Groups  []cachedGroup

	DFA  cachedDFA
	LALR cachedLR
}

// flatten converts a linked grammar.Tables into its cache shape.
func flatten(t *grammar.Tables) (*cachedTables, error) {
	symIdx := make(map[*symbols.Symbol]int32, len(t.Symbols))
	for i, s := range t.Symbols {
		symIdx[s] = int32(i)
	}
	grpIdx := make(map[*symbols.Group]int32, len(t.Groups))
	for i, g := range t.Groups {
		grpIdx[g] = int32(i)
	}

	indexOfSymbol := func(s *symbols.Symbol) (int32, error) {
		if s == nil {
			return noIndex, nil
		}
		i, ok := symIdx[s]
		if !ok {
			return 0, fmt.Errorf("symbol %q not found in grammar's symbol table", s.Mangled)
		}
		return i, nil
	}

	ct := &cachedTables{}

	for k, v := range t.Params {
		ct.ParamKeys = append(ct.ParamKeys, k)
		ct.ParamVals = append(ct.ParamVals, v)
	}

	ct.Symbols = make([]cachedSymbol, len(t.Symbols))
	for i, s := range t.Symbols {
		gi := int32(noIndex)
		if s.Group != nil {
			idx, ok := grpIdx[s.Group]
			if !ok {
				return nil, fmt.Errorf("symbol %q references an unknown group", s.Mangled)
			}
			gi = idx
		}
		ct.Symbols[i] = cachedSymbol{Name: s.Name, Kind: uint8(s.Kind), GroupIdx: gi}
	}

	ct.Rules = make([]cachedRule, len(t.Rules))
	for i, r := range t.Rules {
		produces, err := indexOfSymbol(r.Produces)
		if err != nil {
			return nil, err
		}
		consumes := make([]int32, len(r.Consumes))
		for j, c := range r.Consumes {
			ci, err := indexOfSymbol(c)
			if err != nil {
				return nil, err
			}
			consumes[j] = ci
		}
		ct.Rules[i] = cachedRule{Produces: produces, Consumes: consumes}
	}

	ct.Groups = make([]cachedGroup, len(t.Groups))
	for i, g := range t.Groups {
		symI, err := indexOfSymbol(g.Symbol)
		if err != nil {
			return nil, err
		}
		startI, err := indexOfSymbol(g.StartSymbol)
		if err != nil {
			return nil, err
		}
		endI, err := indexOfSymbol(g.EndSymbol)
		if err != nil {
			return nil, err
		}
		var nestable []string
		if g.Nestable != nil {
			nestable = util.SortedStrings(g.Nestable)
		}
		ct.Groups[i] = cachedGroup{
			Name:       g.Name,
			SymbolIdx:  symI,
			StartIdx:   startI,
			EndIdx:     endI,
			Advance:    uint8(g.Advance),
			Ending:     uint8(g.Ending),
			NestableOf: nestable,
		}
	}

	dfa, err := flattenDFA(t.DFA)
	if err != nil {
		return nil, err
	}
	ct.DFA = dfa

	lr, err := flattenLR(t.LALR)
	if err != nil {
		return nil, err
	}
	ct.LALR = lr

	return ct, nil
}

func flattenDFA(d *automaton.DFA) (cachedDFA, error) {
	if d == nil {
		return cachedDFA{Start: noIndex}, nil
	}

	classIdx := make(map[symbols.CharacterClass]int32)
	var classes []cachedCharClass

	classIndexFor := func(c symbols.CharacterClass) (int32, error) {
		if idx, ok := classIdx[c]; ok {
			return idx, nil
		}
		cc, err := flattenCharClass(c)
		if err != nil {
			return 0, err
		}
		idx := int32(len(classes))
		classes = append(classes, cc)
		classIdx[c] = idx
		return idx, nil
	}

	states := make([]cachedDFAState, len(d.States))
	for i, st := range d.States {
		var term string
		if st.Terminal != nil {
			term = st.Terminal.Mangled
		}

		edges := make([]cachedDFAEdge, len(st.Edges))
		for j, e := range st.Edges {
			ci, err := classIndexFor(e.Class)
			if err != nil {
				return cachedDFA{}, err
			}
			edges[j] = cachedDFAEdge{ClassIdx: ci, Target: int32(e.Target)}
		}
		states[i] = cachedDFAState{Terminal: term, Edges: edges}
	}

	return cachedDFA{Start: int32(d.Start), Classes: classes, States: states}, nil
}

func flattenCharClass(c symbols.CharacterClass) (cachedCharClass, error) {
	switch cc := c.(type) {
	case *symbols.EnumeratedClass:
		return cachedCharClass{Kind: 0, Enum: cc.Members()}, nil
	case *symbols.RangeClass:
		starts := make([]int32, len(cc.Ranges))
		ends := make([]int32, len(cc.Ranges))
		for i, r := range cc.Ranges {
			starts[i] = int32(r.Start)
			ends[i] = int32(r.End)
		}
		return cachedCharClass{Kind: 1, Codepage: cc.Codepage, Starts: starts, Ends: ends}, nil
	default:
		return cachedCharClass{}, fmt.Errorf("unknown character class implementation %T", c)
	}
}

func flattenLR(l *automaton.LR) (cachedLR, error) {
	if l == nil {
		return cachedLR{Start: noIndex}, nil
	}

	states := make([]cachedLRState, len(l.States))
	for i, st := range l.States {
		cs := cachedLRState{}
		for k, a := range st.Edges {
			act, err := flattenAction(a)
			if err != nil {
				return cachedLR{}, err
			}
			cs.EdgeKeys = append(cs.EdgeKeys, k)
			cs.EdgeVals = append(cs.EdgeVals, act)
		}
		for k, a := range st.Goto {
			act, err := flattenAction(a)
			if err != nil {
				return cachedLR{}, err
			}
			cs.GotoKeys = append(cs.GotoKeys, k)
			cs.GotoVals = append(cs.GotoVals, act)
		}
		states[i] = cs
	}

	return cachedLR{Start: int32(l.Start), States: states}, nil
}

func flattenAction(a automaton.Action) (cachedAction, error) {
	ca := cachedAction{Kind: uint8(a.Kind), Target: int32(a.Target), RuleIdx: noIndex}
	if a.Rule != nil {
		ca.RuleIdx = int32(a.Rule.Index)
	}
	return ca, nil
}
