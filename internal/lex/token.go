// Package lex implements the DFA lexer and lexical group engine (spec.md
// §4.E, §4.F): longest-match tokenization over a character-class
// alphabet, plus nested group consumption for block/line comments and
// string-like lexemes.
package lex

import (
	"fmt"

	"github.com/dekarrin/goldrun/internal/symbols"
)

// Token is a lexeme recognized from input text, combined with the symbol
// it was recognized as and its byte-offset span (spec.md §4.E).
type Token struct {
	Symbol *symbols.Symbol
	Value  string
	Start  int
	End    int
}

func (t Token) String() string {
	if t.Symbol == nil {
		return "Token(<nil>)"
	}
	return fmt.Sprintf("Token(%s %q @%d-%d)", t.Symbol.Mangled, t.Value, t.Start, t.End)
}

// LexError is returned when no DFA edge matches and no prior accepting
// state exists (spec.md §7). It carries only a position, per §6's result
// discriminator convention.
type LexError struct {
	Position int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("no viable token at byte offset %d", e.Position)
}

// GroupError is returned when a Closed lexical group is not terminated
// before the input ends, or when group nesting exceeds the configured
// depth limit (spec.md §7, SPEC_FULL.md §10.5).
type GroupError struct {
	Position     int
	Group        string
	Unterminated bool
}

func (e *GroupError) Error() string {
	if e.Unterminated {
		return fmt.Sprintf("unterminated group %q starting at byte offset %d", e.Group, e.Position)
	}
	return fmt.Sprintf("group %q at byte offset %d exceeded maximum nesting depth", e.Group, e.Position)
}
