package lex

import (
	"unicode/utf8"

	"github.com/dekarrin/goldrun/internal/automaton"
	"github.com/dekarrin/goldrun/internal/symbols"
)

// Lexer performs longest-match DFA recognition over a byte slice,
// tracking byte offsets (spec.md §4.E). It does not know about lexical
// groups; see GroupEngine for that layer.
type Lexer struct {
	dfa   *automaton.DFA
	eof   *symbols.Symbol
	input []byte
}

// NewLexer builds a Lexer over input using dfa for recognition. eof is the
// grammar's Eof symbol (spec.md §4.E step 4 synthesizes an Eof token
// directly; it is not itself a DFA accepting result).
func NewLexer(dfa *automaton.DFA, eof *symbols.Symbol, input []byte) *Lexer {
	return &Lexer{dfa: dfa, eof: eof, input: input}
}

// Input returns the underlying byte slice being lexed.
func (lx *Lexer) Input() []byte {
	return lx.input
}

// Next recognizes the next token starting at byte offset pos, per spec.md
// §4.E's four-step longest-match algorithm.
func (lx *Lexer) Next(pos int) (Token, error) {
	if len(lx.dfa.States) == 0 {
		return lx.atEOF(pos)
	}

	cur := lx.dfa.StartState()

	type accepted struct {
		state *automaton.DFAState
		pos   int
	}
	var last *accepted
	if cur.Terminal != nil {
		last = &accepted{cur, pos}
	}

	walk := pos
	for walk < len(lx.input) {
		r, size := utf8.DecodeRune(lx.input[walk:])

		var next *automaton.DFAState
		for _, e := range cur.Edges {
			if e.Class.Contains(r) {
				next = lx.dfa.State(e.Target)
				break
			}
		}
		if next == nil {
			break
		}

		walk += size
		cur = next
		if cur.Terminal != nil {
			last = &accepted{cur, walk}
		}
	}

	if last != nil {
		return Token{
			Symbol: last.state.Terminal,
			Value:  string(lx.input[pos:last.pos]),
			Start:  pos,
			End:    last.pos,
		}, nil
	}

	return lx.atEOF(pos)
}

func (lx *Lexer) atEOF(pos int) (Token, error) {
	if pos >= len(lx.input) {
		return Token{Symbol: lx.eof, Value: "", Start: pos, End: pos}, nil
	}
	return Token{}, &LexError{Position: pos}
}
