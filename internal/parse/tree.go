// Package parse implements the LALR(1) shift-reduce driver (spec.md §4.G)
// and the observer hooks it invokes along the way (§4.H). It is the
// consumer of internal/lex's token stream and internal/grammar's linked
// Tables.
package parse

import (
	"fmt"
	"strings"

	"github.com/dekarrin/goldrun/internal/lex"
	"github.com/dekarrin/goldrun/internal/symbols"
)

// Tree is a parse tree node (spec.md §3 "Parse tree node"). A leaf has a
// nil Children slice and a non-nil Token; an inner node has a nil Token
// and one Child per symbol its rule consumes (none for an epsilon rule).
type Tree struct {
	Symbol   *symbols.Symbol
	Token    *lex.Token
	Children []*Tree
	Start    int
	End      int
}

// IsLeaf reports whether this node carries a token directly rather than
// deriving its span from children.
func (t *Tree) IsLeaf() bool {
	return t.Token != nil
}

// String renders an indented tree dump, grounded on the teacher's
// ParseTree.String() convention (SPEC_FULL.md §12.1).
func (t *Tree) String() string {
	var sb strings.Builder
	t.writeIndented(&sb, 0)
	return sb.String()
}

func (t *Tree) writeIndented(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if t.IsLeaf() {
		fmt.Fprintf(sb, "%s %q [%d,%d]\n", t.Symbol.Mangled, t.Token.Value, t.Start, t.End)
		return
	}
	fmt.Fprintf(sb, "%s [%d,%d]\n", t.Symbol.Mangled, t.Start, t.End)
	for _, c := range t.Children {
		c.writeIndented(sb, depth+1)
	}
}

// Equal reports structural equality: same symbol, same span, and (for
// leaves) same token value, recursively.
func (t *Tree) Equal(other *Tree) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Symbol != other.Symbol || t.Start != other.Start || t.End != other.End {
		return false
	}
	if t.IsLeaf() != other.IsLeaf() {
		return false
	}
	if t.IsLeaf() {
		return t.Token.Value == other.Token.Value
	}
	if len(t.Children) != len(other.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}
