package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/goldrun/internal/automaton"
	"github.com/dekarrin/goldrun/internal/cgt"
	"github.com/dekarrin/goldrun/internal/golderr"
	"github.com/dekarrin/goldrun/internal/symbols"
	"github.com/dekarrin/goldrun/internal/util"
)

// the integer encoding of symbols.Kind as it appears in a CGT "S" record's
// kind field.
const (
	kindNonTerminal = 0
	kindTerminal    = 1
	kindSkippable   = 2
	kindEof         = 3
	kindGroupStart  = 4
	kindGroupEnd    = 5
	kindCommentLine = 6
	kindError       = 7
)

func mapKind(raw uint16) (symbols.Kind, error) {
	switch raw {
	case kindNonTerminal:
		return symbols.NonTerminal, nil
	case kindTerminal:
		return symbols.Terminal, nil
	case kindSkippable:
		return symbols.Skippable, nil
	case kindEof:
		return symbols.Eof, nil
	case kindGroupStart:
		return symbols.GroupStart, nil
	case kindGroupEnd:
		return symbols.GroupEnd, nil
	case kindCommentLine:
		return symbols.CommentLine, nil
	case kindError:
		return symbols.Error, nil
	default:
		return 0, golderr.New(fmt.Sprintf("unrecognized symbol kind %d", raw), golderr.ErrUnresolvedIndex)
	}
}

const (
	lrActionShift  = 1
	lrActionReduce = 2
	lrActionGoto   = 3
	lrActionAccept = 4
)

// Link resolves a RawTables' flat index tables into the cross-linked
// grammar object graph (spec.md §4.C).
func Link(raw *cgt.RawTables) (*Tables, error) {
	syms, err := linkSymbols(raw)
	if err != nil {
		return nil, err
	}

	groups, err := linkGroups(raw, syms)
	if err != nil {
		return nil, err
	}

	if raw.FormatVersion == cgt.V1 {
		syms, groups, err = applyV1CompatShim(syms, groups)
		if err != nil {
			return nil, err
		}
	}

	rules, err := linkRules(raw, syms)
	if err != nil {
		return nil, err
	}

	dfa, err := linkDFA(raw, syms)
	if err != nil {
		return nil, err
	}

	lalr, err := linkLALR(raw, syms, rules)
	if err != nil {
		return nil, err
	}

	return &Tables{
		Params:  raw.Params,
		Symbols: syms,
		Rules:   rules,
		Groups:  groups,
		DFA:     dfa,
		LALR:    lalr,
	}, nil
}

func linkSymbols(raw *cgt.RawTables) ([]*symbols.Symbol, error) {
	syms := make([]*symbols.Symbol, len(raw.Symbols))
	for i, rs := range raw.Symbols {
		kind, err := mapKind(rs.Kind)
		if err != nil {
			return nil, golderr.New(fmt.Sprintf("symbol %d %q", i, rs.Name), err)
		}
		syms[i] = symbols.NewSymbol(rs.Name, kind)
	}
	return syms, nil
}

func resolveSymbol(syms []*symbols.Symbol, idx uint16) (*symbols.Symbol, error) {
	if int(idx) >= len(syms) {
		return nil, golderr.New(fmt.Sprintf("symbol index %d out of range (have %d symbols)", idx, len(syms)), golderr.ErrUnresolvedIndex)
	}
	return syms[idx], nil
}

func linkGroups(raw *cgt.RawTables, syms []*symbols.Symbol) ([]*symbols.Group, error) {
	groups := make([]*symbols.Group, len(raw.Groups))
	for i, rg := range raw.Groups {
		sym, err := resolveSymbol(syms, rg.Symbol)
		if err != nil {
			return nil, golderr.New(fmt.Sprintf("group %d %q symbol", i, rg.Name), err)
		}
		start, err := resolveSymbol(syms, rg.Start)
		if err != nil {
			return nil, golderr.New(fmt.Sprintf("group %d %q start symbol", i, rg.Name), err)
		}
		end, err := resolveSymbol(syms, rg.End)
		if err != nil {
			return nil, golderr.New(fmt.Sprintf("group %d %q end symbol", i, rg.Name), err)
		}

		advance := symbols.AdvanceToken
		if rg.Advance == 1 {
			advance = symbols.AdvanceChar
		}
		ending := symbols.EndingOpen
		if rg.Ending == 1 {
			ending = symbols.EndingClosed
		}

		nestable := util.NewKeySet[string]()
		for _, gIdx := range rg.Nestable {
			if int(gIdx) >= len(raw.Groups) {
				return nil, golderr.New(fmt.Sprintf("group %d %q nestable reference %d out of range", i, rg.Name, gIdx), golderr.ErrUnresolvedIndex)
			}
			nestable.Add(raw.Groups[gIdx].Name)
		}

		g := &symbols.Group{
			Name:        rg.Name,
			Symbol:      sym,
			StartSymbol: start,
			EndSymbol:   end,
			Advance:     advance,
			Ending:      ending,
			Nestable:    nestable,
		}
		start.Group = g
		end.Group = g
		groups[i] = g
	}
	return groups, nil
}

// applyV1CompatShim synthesizes the comment groups spec.md §4.C step 3
// describes for v1 tables, which predate the "g" record.
func applyV1CompatShim(syms []*symbols.Symbol, groups []*symbols.Group) ([]*symbols.Symbol, []*symbols.Group, error) {
	var groupStart, groupEnd, commentLine, newline *symbols.Symbol
	var commentSkip *symbols.Symbol

	for _, s := range syms {
		switch {
		case s.Kind == symbols.GroupStart && groupStart == nil:
			groupStart = s
		case s.Kind == symbols.GroupEnd && groupEnd == nil:
			groupEnd = s
		case s.Kind == symbols.CommentLine && commentLine == nil:
			commentLine = s
		case s.Kind == symbols.Terminal && strings.EqualFold(s.Name, "newline") && newline == nil:
			newline = s
		case s.Kind == symbols.Skippable && strings.EqualFold(s.Name, "comment") && commentSkip == nil:
			commentSkip = s
		}
	}

	needsBlockGroup := groupStart != nil && groupEnd != nil
	needsLineGroup := commentLine != nil && newline != nil

	if !needsBlockGroup && !needsLineGroup {
		return syms, groups, nil
	}

	if commentSkip == nil {
		commentSkip = symbols.NewSymbol("Comment", symbols.Skippable)
		syms = append(syms, commentSkip)
	}

	if needsBlockGroup {
		g := &symbols.Group{
			Name:        "Comment Block",
			Symbol:      commentSkip,
			StartSymbol: groupStart,
			EndSymbol:   groupEnd,
			Advance:     symbols.AdvanceChar,
			Ending:      symbols.EndingClosed,
		}
		groupStart.Group = g
		groupEnd.Group = g
		groups = append(groups, g)
	}

	if needsLineGroup {
		commentLine.Kind = symbols.GroupStart
		commentLine.Mangled = symbols.Mangle(commentLine.Name, symbols.GroupStart)

		g := &symbols.Group{
			Name:        "Comment Line",
			Symbol:      commentSkip,
			StartSymbol: commentLine,
			EndSymbol:   newline,
			Advance:     symbols.AdvanceChar,
			Ending:      symbols.EndingOpen,
		}
		commentLine.Group = g
		newline.Group = g
		groups = append(groups, g)
	}

	return syms, groups, nil
}

func linkRules(raw *cgt.RawTables, syms []*symbols.Symbol) ([]*automaton.Rule, error) {
	rules := make([]*automaton.Rule, len(raw.Rules))
	for i, rr := range raw.Rules {
		produces, err := resolveSymbol(syms, rr.Produces)
		if err != nil {
			return nil, golderr.New(fmt.Sprintf("rule %d produces", i), err)
		}
		if produces.Kind != symbols.NonTerminal {
			return nil, golderr.New(fmt.Sprintf("rule %d produces %s, which is not a NonTerminal", i, produces.Mangled), golderr.ErrUnresolvedIndex)
		}

		consumes := make([]*symbols.Symbol, len(rr.Consumes))
		for j, cIdx := range rr.Consumes {
			sym, err := resolveSymbol(syms, cIdx)
			if err != nil {
				return nil, golderr.New(fmt.Sprintf("rule %d consumes[%d]", i, j), err)
			}
			consumes[j] = sym
		}

		rules[i] = &automaton.Rule{Index: i, Produces: produces, Consumes: consumes}
	}
	return rules, nil
}

func linkDFA(raw *cgt.RawTables, syms []*symbols.Symbol) (*automaton.DFA, error) {
	if len(raw.DFAStates) == 0 {
		return &automaton.DFA{}, nil
	}

	states := make([]*automaton.DFAState, len(raw.DFAStates))
	for i, rs := range raw.DFAStates {
		states[i] = &automaton.DFAState{Index: i}
		if rs.IsFinal {
			sym, err := resolveSymbol(syms, rs.ResultSymbol)
			if err != nil {
				return nil, golderr.New(fmt.Sprintf("DFA state %d terminal symbol", i), err)
			}
			if !sym.Kind.IsLexeme() {
				return nil, golderr.New(fmt.Sprintf("DFA state %d terminal symbol %s is a NonTerminal", i, sym.Mangled), golderr.ErrUnresolvedIndex)
			}
			states[i].Terminal = sym
		}
	}

	for i, rs := range raw.DFAStates {
		edges := make([]automaton.DFAEdge, len(rs.Edges))
		for j, re := range rs.Edges {
			if int(re.CharsetIndex) >= len(raw.Charsets) {
				return nil, golderr.New(fmt.Sprintf("DFA state %d edge %d charset index out of range", i, j), golderr.ErrUnresolvedIndex)
			}
			if int(re.Target) >= len(states) {
				return nil, golderr.New(fmt.Sprintf("DFA state %d edge %d target index out of range", i, j), golderr.ErrUnresolvedIndex)
			}
			edges[j] = automaton.DFAEdge{Class: raw.Charsets[re.CharsetIndex], Target: int(re.Target)}
		}
		states[i].Edges = edges
	}

	if int(raw.DFAStart) >= len(states) {
		return nil, golderr.New("DFA start state index out of range", golderr.ErrUnresolvedIndex)
	}

	return &automaton.DFA{States: states, Start: int(raw.DFAStart)}, nil
}

func linkLALR(raw *cgt.RawTables, syms []*symbols.Symbol, rules []*automaton.Rule) (*automaton.LR, error) {
	if len(raw.LRStates) == 0 {
		return &automaton.LR{}, nil
	}

	states := make([]*automaton.LRState, len(raw.LRStates))
	for i := range raw.LRStates {
		states[i] = &automaton.LRState{
			Index: i,
			Edges: make(map[string]automaton.Action),
			Goto:  make(map[string]automaton.Action),
		}
	}

	for i, rs := range raw.LRStates {
		for j, ra := range rs.Actions {
			sym, err := resolveSymbol(syms, ra.LookAhead)
			if err != nil {
				return nil, golderr.New(fmt.Sprintf("LR state %d action %d look-ahead", i, j), err)
			}

			var act automaton.Action
			switch ra.ActionType {
			case lrActionShift:
				if int(ra.Value) >= len(states) {
					return nil, golderr.New(fmt.Sprintf("LR state %d action %d shift target out of range", i, j), golderr.ErrUnresolvedIndex)
				}
				act = automaton.Action{Kind: automaton.Shift, Target: int(ra.Value)}
			case lrActionReduce:
				if int(ra.Value) >= len(rules) {
					return nil, golderr.New(fmt.Sprintf("LR state %d action %d reduce rule out of range", i, j), golderr.ErrUnresolvedIndex)
				}
				act = automaton.Action{Kind: automaton.Reduce, Rule: rules[ra.Value]}
			case lrActionGoto:
				if int(ra.Value) >= len(states) {
					return nil, golderr.New(fmt.Sprintf("LR state %d action %d goto target out of range", i, j), golderr.ErrUnresolvedIndex)
				}
				act = automaton.Action{Kind: automaton.Goto, Target: int(ra.Value)}
			case lrActionAccept:
				act = automaton.Action{Kind: automaton.Accept}
			default:
				return nil, golderr.New(fmt.Sprintf("LR state %d action %d has action type %d", i, j, ra.ActionType), golderr.ErrUnknownActionType)
			}

			if act.Kind == automaton.Goto {
				states[i].Goto[sym.Mangled] = act
			} else {
				states[i].Edges[sym.Mangled] = act
			}
		}
	}

	if int(raw.LRStart) >= len(states) {
		return nil, golderr.New("LALR start state index out of range", golderr.ErrUnresolvedIndex)
	}

	return &automaton.LR{States: states, Start: int(raw.LRStart)}, nil
}
