package lex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/goldrun/internal/automaton"
	"github.com/dekarrin/goldrun/internal/symbols"
)

// ab/abcd DFA per spec.md §8 property 4: a DFA that accepts "ab" at
// state 2 and "abcd" at state 4. Longest match must prefer "abcd".
func abAbcdDFA() (*automaton.DFA, *symbols.Symbol, *symbols.Symbol) {
	shortSym := symbols.NewSymbol("AB", symbols.Terminal)
	longSym := symbols.NewSymbol("ABCD", symbols.Terminal)

	a := symbols.NewEnumeratedClass("a")
	b := symbols.NewEnumeratedClass("b")
	c := symbols.NewEnumeratedClass("c")
	d := symbols.NewEnumeratedClass("d")

	dfa := &automaton.DFA{
		Start: 0,
		States: []*automaton.DFAState{
			{Index: 0, Edges: []automaton.DFAEdge{{Class: a, Target: 1}}},
			{Index: 1, Edges: []automaton.DFAEdge{{Class: b, Target: 2}}},
			{Index: 2, Terminal: shortSym, Edges: []automaton.DFAEdge{{Class: c, Target: 3}}},
			{Index: 3, Edges: []automaton.DFAEdge{{Class: d, Target: 4}}},
			{Index: 4, Terminal: longSym},
		},
	}
	return dfa, shortSym, longSym
}

func TestLexer_LongestMatch(t *testing.T) {
	dfa, _, longSym := abAbcdDFA()
	eof := symbols.NewSymbol("", symbols.Eof)

	lx := NewLexer(dfa, eof, []byte("abcd"))
	tok, err := lx.Next(0)
	require.NoError(t, err)

	assert.Equal(t, longSym, tok.Symbol)
	assert.Equal(t, "abcd", tok.Value)
	assert.Equal(t, 0, tok.Start)
	assert.Equal(t, 4, tok.End)
}

func TestLexer_StopsAtShorterMatchWhenNoMoreProgress(t *testing.T) {
	dfa, shortSym, _ := abAbcdDFA()
	eof := symbols.NewSymbol("", symbols.Eof)

	lx := NewLexer(dfa, eof, []byte("abx"))
	tok, err := lx.Next(0)
	require.NoError(t, err)

	assert.Equal(t, shortSym, tok.Symbol)
	assert.Equal(t, "ab", tok.Value)
	assert.Equal(t, 2, tok.End)
}

func TestLexer_EmitsEofAtEndOfInput(t *testing.T) {
	dfa, _, _ := abAbcdDFA()
	eof := symbols.NewSymbol("", symbols.Eof)

	lx := NewLexer(dfa, eof, []byte("ab"))
	tok, err := lx.Next(2)
	require.NoError(t, err)
	assert.Equal(t, symbols.Eof, tok.Symbol.Kind)
	assert.Equal(t, "", tok.Value)
}

func TestLexer_UnknownCharacterIsLexError(t *testing.T) {
	dfa, _, _ := abAbcdDFA()
	eof := symbols.NewSymbol("", symbols.Eof)

	lx := NewLexer(dfa, eof, []byte("@"))
	_, err := lx.Next(0)
	require.Error(t, err)

	lexErr, ok := err.(*LexError)
	require.True(t, ok)
	assert.Equal(t, 0, lexErr.Position)
}
