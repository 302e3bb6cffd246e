package symbols

import "github.com/dekarrin/goldrun/internal/util"

// AdvanceMode controls how a Group consumes input while looking for its
// terminator (spec.md §3, §4.F).
type AdvanceMode int

const (
	AdvanceChar AdvanceMode = iota
	AdvanceToken
)

func (m AdvanceMode) String() string {
	if m == AdvanceChar {
		return "Char"
	}
	return "Token"
}

// EndingMode controls whether a Group's end lexeme is consumed into its
// synthesized token or left for the next lex (spec.md §3, §4.F).
type EndingMode int

const (
	EndingOpen EndingMode = iota
	EndingClosed
)

func (m EndingMode) String() string {
	if m == EndingOpen {
		return "Open"
	}
	return "Closed"
}

// Group is a lexical group: a block/line-comment-like construct that
// consumes a span of input and emits it as a single synthesized token.
type Group struct {
	Name string

	// Symbol is the token class synthesized for the group's full span.
	Symbol *Symbol

	// StartSymbol and EndSymbol are the lexemes that open and close the
	// group. StartSymbol.Group and EndSymbol.Group are both back-linked to
	// this Group by the table linker.
	StartSymbol *Symbol
	EndSymbol   *Symbol

	Advance AdvanceMode
	Ending  EndingMode

	// Nestable is the set of group names that, if encountered as a start
	// symbol while already inside this group, trigger recursive
	// consumption rather than being treated as raw text.
	Nestable util.KeySet[string]
}

// IsNestable reports whether a group of the given name may recursively
// nest inside this one.
func (g *Group) IsNestable(name string) bool {
	return g.Nestable != nil && g.Nestable.Has(name)
}
