// Package grammar implements the table linker (spec.md §4.C): it takes
// the flat, index-based RawTables produced by the cgt package and
// produces the cross-linked grammar object graph the rest of the engine
// runs against.
package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dekarrin/goldrun/internal/automaton"
	"github.com/dekarrin/goldrun/internal/symbols"
)

// Tables is the immutable, linked grammar object graph (spec.md §3
// "Grammar tables"). It is safe to share read-only across concurrent
// parses (spec.md §5, the teacher's shared-only-after-construction
// convention).
type Tables struct {
	Params  map[string]string
	Symbols []*symbols.Symbol
	Rules   []*automaton.Rule
	Groups  []*symbols.Group

	DFA  *automaton.DFA
	LALR *automaton.LR
}

// String renders a short diagnostic dump of the linked grammar:
// symbol/rule/state counts and the grammar's declared name, grounded on
// the teacher's LRParseTable.String() convention (SPEC_FULL.md §12.2).
func (t *Tables) String() string {
	var sb strings.Builder
	name := t.Params["Name"]
	if name == "" {
		name = "(unnamed grammar)"
	}
	fmt.Fprintf(&sb, "Grammar %q\n", name)
	fmt.Fprintf(&sb, "  symbols: %d\n", len(t.Symbols))
	fmt.Fprintf(&sb, "  rules:   %d\n", len(t.Rules))
	fmt.Fprintf(&sb, "  groups:  %d\n", len(t.Groups))
	if t.DFA != nil {
		fmt.Fprintf(&sb, "  DFA states:  %d\n", len(t.DFA.States))
	}
	if t.LALR != nil {
		fmt.Fprintf(&sb, "  LALR states: %d\n", len(t.LALR.States))
	}

	keys := make([]string, 0, len(t.Params))
	for k := range t.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  param %s = %q\n", k, t.Params[k])
	}

	return sb.String()
}
