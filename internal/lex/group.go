package lex

import (
	"unicode/utf8"

	"github.com/dekarrin/goldrun/internal/symbols"
)

// DefaultMaxGroupDepth is the nesting-depth cap used when the embedder
// does not supply one via EngineOptions (SPEC_FULL.md §10.5).
const DefaultMaxGroupDepth = 64

// GroupEngine consumes nested lexical groups (spec.md §4.F) on top of a
// Lexer's longest-match recognition.
type GroupEngine struct {
	lx       *Lexer
	maxDepth int
}

// NewGroupEngine wraps lx with group-consumption logic. A maxDepth of 0
// or less uses DefaultMaxGroupDepth.
func NewGroupEngine(lx *Lexer, maxDepth int) *GroupEngine {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxGroupDepth
	}
	return &GroupEngine{lx: lx, maxDepth: maxDepth}
}

// Consume takes the GroupStart token start and consumes input to form the
// single synthesized token its group (start.Symbol.Group) describes.
func (ge *GroupEngine) Consume(start Token) (Token, error) {
	return ge.consume(start.Symbol.Group, start, 0)
}

func (ge *GroupEngine) consume(g *symbols.Group, start Token, depth int) (Token, error) {
	if depth >= ge.maxDepth {
		return Token{}, &GroupError{Position: start.Start, Group: g.Name}
	}

	input := ge.lx.Input()
	pos := start.End

	for {
		if g.Advance == symbols.AdvanceChar {
			tok, lerr := ge.lx.Next(pos)
			if lerr == nil && tok.Symbol != nil {
				if tok.Symbol == g.EndSymbol {
					return ge.close(g, start, pos, tok)
				}
				if sub := ge.nestableGroupOf(g, tok.Symbol); sub != nil {
					nested, err := ge.consume(sub, tok, depth+1)
					if err != nil {
						return Token{}, err
					}
					pos = nested.End
					continue
				}
			}

			if pos >= len(input) {
				return ge.atEOF(g, start, pos)
			}
			_, size := utf8.DecodeRune(input[pos:])
			pos += size
		} else {
			tok, lerr := ge.lx.Next(pos)
			if lerr != nil {
				return Token{}, lerr
			}
			if tok.Symbol.Kind == symbols.Eof {
				return ge.atEOF(g, start, pos)
			}
			if tok.Symbol == g.EndSymbol {
				return ge.close(g, start, pos, tok)
			}
			if sub := ge.nestableGroupOf(g, tok.Symbol); sub != nil {
				nested, err := ge.consume(sub, tok, depth+1)
				if err != nil {
					return Token{}, err
				}
				pos = nested.End
				continue
			}
			pos = tok.End
		}
	}
}

// nestableGroupOf returns the group that sym starts, if sym is a
// GroupStart symbol whose group is listed in g's nestable set.
func (ge *GroupEngine) nestableGroupOf(g *symbols.Group, sym *symbols.Symbol) *symbols.Group {
	if sym.Kind != symbols.GroupStart || sym.Group == nil {
		return nil
	}
	if g.IsNestable(sym.Group.Name) {
		return sym.Group
	}
	return nil
}

func (ge *GroupEngine) close(g *symbols.Group, start Token, pos int, end Token) (Token, error) {
	input := ge.lx.Input()
	if g.Ending == symbols.EndingClosed {
		return Token{Symbol: g.Symbol, Value: string(input[start.Start:end.End]), Start: start.Start, End: end.End}, nil
	}
	return Token{Symbol: g.Symbol, Value: string(input[start.Start:pos]), Start: start.Start, End: pos}, nil
}

func (ge *GroupEngine) atEOF(g *symbols.Group, start Token, pos int) (Token, error) {
	if g.Ending == symbols.EndingClosed {
		return Token{}, &GroupError{Position: start.Start, Group: g.Name, Unterminated: true}
	}
	input := ge.lx.Input()
	return Token{Symbol: g.Symbol, Value: string(input[start.Start:pos]), Start: start.Start, End: pos}, nil
}
