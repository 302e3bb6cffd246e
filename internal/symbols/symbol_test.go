package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMangle_DistinctByKind(t *testing.T) {
	kinds := []Kind{NonTerminal, Terminal, Skippable, Eof, GroupStart, GroupEnd, CommentLine, Error}

	seen := make(map[string]Kind)
	for _, k := range kinds {
		mangled := Mangle("thing", k)
		if existing, ok := seen[mangled]; ok {
			t.Fatalf("kinds %v and %v both mangle %q to %q", existing, k, "thing", mangled)
		}
		seen[mangled] = k
	}
}

func TestMangle_KnownForms(t *testing.T) {
	assert.Equal(t, "'plus'", Mangle("plus", Terminal))
	assert.Equal(t, "<expr>", Mangle("expr", NonTerminal))
	assert.Equal(t, "(EOF)", Mangle("anything", Eof))
	assert.Equal(t, "[Whitespace]", Mangle("Whitespace", Skippable))
	assert.Equal(t, "/Comment Start/", Mangle("Comment Start", GroupStart))
	assert.Equal(t, `\Comment End\`, Mangle("Comment End", GroupEnd))
}

func TestNewSymbol_SetsMangledName(t *testing.T) {
	s := NewSymbol("NUM", Terminal)
	assert.Equal(t, "NUM", s.Name)
	assert.Equal(t, "'NUM'", s.Mangled)
	assert.Equal(t, Terminal, s.Kind)
}

func TestKind_IsLexeme(t *testing.T) {
	assert.False(t, NonTerminal.IsLexeme())
	for _, k := range []Kind{Terminal, Skippable, Eof, GroupStart, GroupEnd, CommentLine, Error} {
		assert.True(t, k.IsLexeme(), "expected %v to be a lexeme kind", k)
	}
}
