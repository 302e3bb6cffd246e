package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/goldrun/internal/cgt"
	"github.com/dekarrin/goldrun/internal/symbols"
)

func simpleRaw() *cgt.RawTables {
	digits := symbols.NewEnumeratedClass("0123456789")

	return &cgt.RawTables{
		FormatVersion: cgt.V5,
		Symbols: []cgt.RawSymbol{
			{Index: 0, Name: "expr", Kind: 0},  // NonTerminal
			{Index: 1, Name: "NUM", Kind: 1},   // Terminal
			{Index: 2, Name: "", Kind: 3},      // Eof
		},
		Rules: []cgt.RawRule{
			{Index: 0, Produces: 0, Consumes: []uint16{1}},
		},
		Charsets: []symbols.CharacterClass{digits},
		DFAStates: []cgt.RawDFAState{
			{Index: 0, Edges: []cgt.RawDFAEdge{{CharsetIndex: 0, Target: 1}}},
			{Index: 1, IsFinal: true, ResultSymbol: 1, Edges: []cgt.RawDFAEdge{{CharsetIndex: 0, Target: 1}}},
		},
		LRStates: []cgt.RawLRState{
			{Index: 0, Actions: []cgt.RawLRAction{{LookAhead: 1, ActionType: 1, Value: 1}}},
			{Index: 1, Actions: []cgt.RawLRAction{{LookAhead: 2, ActionType: 2, Value: 0}}},
		},
		DFAStart: 0,
		LRStart:  0,
		Params:   map[string]string{"Name": "Simple"},
	}
}

func TestLink_ResolvesAllIndices(t *testing.T) {
	tables, err := Link(simpleRaw())
	require.NoError(t, err)

	require.Len(t, tables.Symbols, 3)
	assert.Equal(t, "<expr>", tables.Symbols[0].Mangled)
	assert.Equal(t, "'NUM'", tables.Symbols[1].Mangled)
	assert.Equal(t, "(EOF)", tables.Symbols[2].Mangled)

	require.Len(t, tables.Rules, 1)
	assert.Same(t, tables.Symbols[0], tables.Rules[0].Produces)
	assert.Same(t, tables.Symbols[1], tables.Rules[0].Consumes[0])

	require.Len(t, tables.DFA.States, 2)
	assert.Same(t, tables.Symbols[1], tables.DFA.States[1].Terminal)

	shiftAct, ok := tables.LALR.Action(0, "'NUM'")
	require.True(t, ok)
	assert.Equal(t, 1, shiftAct.Target)

	reduceAct, ok := tables.LALR.Action(1, "(EOF)")
	require.True(t, ok)
	assert.Same(t, tables.Rules[0], reduceAct.Rule)
}

func TestLink_RuleMustProduceNonTerminal(t *testing.T) {
	raw := simpleRaw()
	raw.Rules[0].Produces = 1 // NUM, a Terminal

	_, err := Link(raw)
	assert.Error(t, err)
}

func TestLink_OutOfRangeSymbolIndex(t *testing.T) {
	raw := simpleRaw()
	raw.Rules[0].Consumes = []uint16{99}

	_, err := Link(raw)
	assert.Error(t, err)
}

// TestLink_V1CompatShim covers spec.md §8 S5: a v1 table with no "g"
// record but with GroupStart/GroupEnd symbols gets a synthesized
// "Comment Block" group.
func TestLink_V1CompatShim(t *testing.T) {
	raw := simpleRaw()
	raw.FormatVersion = cgt.V1
	raw.Symbols = append(raw.Symbols,
		cgt.RawSymbol{Index: 3, Name: "Comment Start", Kind: 4}, // GroupStart
		cgt.RawSymbol{Index: 4, Name: "Comment End", Kind: 5},   // GroupEnd
	)

	tables, err := Link(raw)
	require.NoError(t, err)

	require.Len(t, tables.Groups, 1)
	group := tables.Groups[0]
	assert.Equal(t, "Comment Block", group.Name)
	assert.Equal(t, symbols.AdvanceChar, group.Advance)
	assert.Equal(t, symbols.EndingClosed, group.Ending)
	assert.Equal(t, symbols.Skippable, group.Symbol.Kind)
	assert.Same(t, group, group.StartSymbol.Group)
	assert.Same(t, group, group.EndSymbol.Group)
}

func TestLink_NoCompatShimWhenNoGroupMarkers(t *testing.T) {
	tables, err := Link(simpleRaw())
	require.NoError(t, err)
	assert.Empty(t, tables.Groups)
}
