package goldrun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/goldrun/internal/automaton"
	"github.com/dekarrin/goldrun/internal/lex"
	"github.com/dekarrin/goldrun/internal/parse"
	"github.com/dekarrin/goldrun/internal/symbols"
)

// arithmeticTables hand-builds a linked Tables for
//
//	expr -> expr '+' expr
//	expr -> NUM
//
// bypassing CGT loading entirely, to exercise Engine.ParseString and the
// cache round trip at the package's public surface. The CGT wire format
// itself is covered field-for-field in internal/cgt's tests; this test's
// job is the facade, not the loader.
func arithmeticTables() *Tables {
	exprSym := symbols.NewSymbol("expr", symbols.NonTerminal)
	plusSym := symbols.NewSymbol("+", symbols.Terminal)
	numSym := symbols.NewSymbol("NUM", symbols.Terminal)
	eofSym := symbols.NewSymbol("", symbols.Eof)
	wsSym := symbols.NewSymbol("Whitespace", symbols.Skippable)

	digits := symbols.NewEnumeratedClass("0123456789")
	plus := symbols.NewEnumeratedClass("+")
	space := symbols.NewEnumeratedClass(" ")

	dfa := &automaton.DFA{
		Start: 0,
		States: []*automaton.DFAState{
			{Index: 0, Edges: []automaton.DFAEdge{
				{Class: digits, Target: 1},
				{Class: plus, Target: 2},
				{Class: space, Target: 3},
			}},
			{Index: 1, Terminal: numSym, Edges: []automaton.DFAEdge{{Class: digits, Target: 1}}},
			{Index: 2, Terminal: plusSym},
			{Index: 3, Terminal: wsSym, Edges: []automaton.DFAEdge{{Class: space, Target: 3}}},
		},
	}

	ruleNum := &automaton.Rule{Index: 0, Produces: exprSym, Consumes: []*symbols.Symbol{numSym}}
	ruleBin := &automaton.Rule{Index: 1, Produces: exprSym, Consumes: []*symbols.Symbol{exprSym, plusSym, exprSym}}

	// States: 0 start; 1 after shifting any NUM; 2 after reducing the
	// first expr (also the accepting state, LALR-merged since
	// "start -> expr ." and "expr -> expr . + expr" share a core here);
	// 3 after shifting '+'; 4 after the goto on the second expr.
	lr := &automaton.LR{
		Start: 0,
		States: []*automaton.LRState{
			{Index: 0,
				Edges: map[string]automaton.Action{"'NUM'": {Kind: automaton.Shift, Target: 1}},
				Goto:  map[string]automaton.Action{"<expr>": {Kind: automaton.Goto, Target: 2}},
			},
			{Index: 1,
				Edges: map[string]automaton.Action{
					"'+'":   {Kind: automaton.Reduce, Rule: ruleNum},
					"(EOF)": {Kind: automaton.Reduce, Rule: ruleNum},
				},
				Goto: map[string]automaton.Action{},
			},
			{Index: 2,
				Edges: map[string]automaton.Action{
					"'+'":   {Kind: automaton.Shift, Target: 3},
					"(EOF)": {Kind: automaton.Accept},
				},
				Goto: map[string]automaton.Action{},
			},
			{Index: 3,
				Edges: map[string]automaton.Action{"'NUM'": {Kind: automaton.Shift, Target: 1}},
				Goto:  map[string]automaton.Action{"<expr>": {Kind: automaton.Goto, Target: 4}},
			},
			{Index: 4,
				Edges: map[string]automaton.Action{
					"'+'":   {Kind: automaton.Reduce, Rule: ruleBin},
					"(EOF)": {Kind: automaton.Reduce, Rule: ruleBin},
				},
				Goto: map[string]automaton.Action{},
			},
		},
	}

	return &Tables{
		Params:  map[string]string{"Name": "Arithmetic"},
		Symbols: []*symbols.Symbol{exprSym, plusSym, numSym, eofSym, wsSym},
		Rules:   []*automaton.Rule{ruleNum, ruleBin},
		DFA:     dfa,
		LALR:    lr,
	}
}

func TestEngine_ParseString_ArithmeticExpr(t *testing.T) {
	tables := arithmeticTables()
	engine := NewEngine(tables, DefaultOptions(), nil)

	var shiftCount, reduceCount int
	obs := &Observer{
		OnShift:  func(int, lex.Token, parse.StackSnapshot) { shiftCount++ },
		OnReduce: func(int, lex.Token, parse.StackSnapshot) { reduceCount++ },
	}

	tree, err := engine.ParseString([]byte("1 + 2"), obs)
	require.NoError(t, err)
	require.NotNil(t, tree)
	assert.Equal(t, "<expr>", tree.Symbol.Mangled)
	require.Len(t, tree.Children, 3)
	assert.Equal(t, 3, shiftCount)
	assert.Equal(t, 3, reduceCount)
}

func TestEngine_ParseString_UnexpectedTokenReturnsParserError(t *testing.T) {
	tables := arithmeticTables()
	engine := NewEngine(tables, DefaultOptions(), nil)

	_, err := engine.ParseString([]byte("1 +"), nil)
	require.Error(t, err)

	_, ok := err.(*ParserError)
	assert.True(t, ok)
}

func TestSaveAndLoadTablesCache_RoundTrip(t *testing.T) {
	tables := arithmeticTables()

	data, err := SaveTablesCache(tables)
	require.NoError(t, err)

	got, err := LoadTablesCache(data)
	require.NoError(t, err)

	engine := NewEngine(got, DefaultOptions(), nil)
	tree, err := engine.ParseString([]byte("3+4"), nil)
	require.NoError(t, err)
	assert.Equal(t, "<expr>", tree.Symbol.Mangled)
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, 64, opts.MaxGroupDepth)
	assert.Greater(t, opts.MaxRecordCount, 0)
}

func TestLoadOptionsFile_MissingFile(t *testing.T) {
	_, err := LoadOptionsFile("/nonexistent/path/goldrun.toml")
	require.Error(t, err)
}
