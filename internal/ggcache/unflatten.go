package ggcache

import (
	"fmt"

	"github.com/dekarrin/goldrun/internal/automaton"
	"github.com/dekarrin/goldrun/internal/grammar"
	"github.com/dekarrin/goldrun/internal/symbols"
	"github.com/dekarrin/goldrun/internal/util"
)

// unflatten rebuilds a linked grammar.Tables from its cache shape,
// re-establishing the pointer cycles flatten removed.
func unflatten(ct *cachedTables) (*grammar.Tables, error) {
	syms := make([]*symbols.Symbol, len(ct.Symbols))
	for i, cs := range ct.Symbols {
		kind := symbols.Kind(cs.Kind)
		syms[i] = &symbols.Symbol{
			Name:    cs.Name,
			Mangled: symbols.Mangle(cs.Name, kind),
			Kind:    kind,
		}
	}

	symAt := func(idx int32) (*symbols.Symbol, error) {
		if idx == noIndex {
			return nil, nil
		}
		if idx < 0 || int(idx) >= len(syms) {
			return nil, fmt.Errorf("symbol index %d out of range", idx)
		}
		return syms[idx], nil
	}

	groups := make([]*symbols.Group, len(ct.Groups))
	for i, cg := range ct.Groups {
		groups[i] = &symbols.Group{
			Name:    cg.Name,
			Advance: symbols.AdvanceMode(cg.Advance),
			Ending:  symbols.EndingMode(cg.Ending),
		}
		if len(cg.NestableOf) > 0 {
			groups[i].Nestable = util.KeySetOf(cg.NestableOf)
		}
	}
	for i, cg := range ct.Groups {
		g := groups[i]
		var err error
		if g.Symbol, err = symAt(cg.SymbolIdx); err != nil {
			return nil, err
		}
		if g.StartSymbol, err = symAt(cg.StartIdx); err != nil {
			return nil, err
		}
		if g.EndSymbol, err = symAt(cg.EndIdx); err != nil {
			return nil, err
		}
		if g.StartSymbol != nil {
			g.StartSymbol.Group = g
		}
		if g.EndSymbol != nil {
			g.EndSymbol.Group = g
		}
	}
	for i, cs := range ct.Symbols {
		if cs.GroupIdx == noIndex {
			continue
		}
		if int(cs.GroupIdx) >= len(groups) {
			return nil, fmt.Errorf("symbol %q references out-of-range group %d", syms[i].Mangled, cs.GroupIdx)
		}
		syms[i].Group = groups[cs.GroupIdx]
	}

	rules := make([]*automaton.Rule, len(ct.Rules))
	for i, cr := range ct.Rules {
		produces, err := symAt(cr.Produces)
		if err != nil {
			return nil, err
		}
		consumes := make([]*symbols.Symbol, len(cr.Consumes))
		for j, ci := range cr.Consumes {
			sym, err := symAt(ci)
			if err != nil {
				return nil, err
			}
			consumes[j] = sym
		}
		rules[i] = &automaton.Rule{Index: i, Produces: produces, Consumes: consumes}
	}

	mangledIdx := make(map[string]*symbols.Symbol, len(syms))
	for _, s := range syms {
		mangledIdx[s.Mangled] = s
	}

	dfa, err := unflattenDFA(&ct.DFA, mangledIdx)
	if err != nil {
		return nil, err
	}

	lalr, err := unflattenLR(&ct.LALR, rules)
	if err != nil {
		return nil, err
	}

	params := make(map[string]string, len(ct.ParamKeys))
	for i, k := range ct.ParamKeys {
		params[k] = ct.ParamVals[i]
	}

	return &grammar.Tables{
		Params:  params,
		Symbols: syms,
		Rules:   rules,
		Groups:  groups,
		DFA:     dfa,
		LALR:    lalr,
	}, nil
}

func unflattenDFA(cd *cachedDFA, mangledIdx map[string]*symbols.Symbol) (*automaton.DFA, error) {
	if cd.Start == noIndex && len(cd.States) == 0 {
		return nil, nil
	}

	classes := make([]symbols.CharacterClass, len(cd.Classes))
	for i, cc := range cd.Classes {
		switch cc.Kind {
		case 0:
			classes[i] = symbols.NewEnumeratedClass(cc.Enum)
		case 1:
			ranges := make([]symbols.CodepointRange, len(cc.Starts))
			for j := range cc.Starts {
				ranges[j] = symbols.CodepointRange{Start: rune(cc.Starts[j]), End: rune(cc.Ends[j])}
			}
			classes[i] = symbols.NewRangeClass(cc.Codepage, ranges)
		default:
			return nil, fmt.Errorf("unknown cached character class kind %d", cc.Kind)
		}
	}

	states := make([]*automaton.DFAState, len(cd.States))
	for i, cs := range cd.States {
		var term *symbols.Symbol
		if cs.Terminal != "" {
			term = mangledIdx[cs.Terminal]
			if term == nil {
				return nil, fmt.Errorf("cached DFA state %d references unknown terminal %q", i, cs.Terminal)
			}
		}
		edges := make([]automaton.DFAEdge, len(cs.Edges))
		for j, e := range cs.Edges {
			if int(e.ClassIdx) >= len(classes) {
				return nil, fmt.Errorf("cached DFA state %d edge %d references out-of-range class %d", i, j, e.ClassIdx)
			}
			edges[j] = automaton.DFAEdge{Class: classes[e.ClassIdx], Target: int(e.Target)}
		}
		states[i] = &automaton.DFAState{Index: i, Terminal: term, Edges: edges}
	}

	return &automaton.DFA{States: states, Start: int(cd.Start)}, nil
}

func unflattenLR(cl *cachedLR, rules []*automaton.Rule) (*automaton.LR, error) {
	if cl.Start == noIndex && len(cl.States) == 0 {
		return nil, nil
	}

	ruleAt := func(idx int32) (*automaton.Rule, error) {
		if idx == noIndex {
			return nil, nil
		}
		if idx < 0 || int(idx) >= len(rules) {
			return nil, fmt.Errorf("rule index %d out of range", idx)
		}
		return rules[idx], nil
	}

	unflattenAction := func(ca cachedAction) (automaton.Action, error) {
		rule, err := ruleAt(ca.RuleIdx)
		if err != nil {
			return automaton.Action{}, err
		}
		return automaton.Action{Kind: automaton.ActionKind(ca.Kind), Target: int(ca.Target), Rule: rule}, nil
	}

	states := make([]*automaton.LRState, len(cl.States))
	for i, cs := range cl.States {
		st := &automaton.LRState{Index: i, Edges: make(map[string]automaton.Action, len(cs.EdgeKeys)), Goto: make(map[string]automaton.Action, len(cs.GotoKeys))}
		for j, k := range cs.EdgeKeys {
			a, err := unflattenAction(cs.EdgeVals[j])
			if err != nil {
				return nil, err
			}
			st.Edges[k] = a
		}
		for j, k := range cs.GotoKeys {
			a, err := unflattenAction(cs.GotoVals[j])
			if err != nil {
				return nil, err
			}
			st.Goto[k] = a
		}
		states[i] = st
	}

	return &automaton.LR{States: states, Start: int(cl.Start)}, nil
}
