// Package symbols holds the grammar's alphabet: Symbol, its Kind, and the
// name-mangling rule (spec.md §3) that makes a Symbol's mangled name the
// canonical lookup key used everywhere above the loader -- DFA accepting
// states, LR action tables, and rule heads/bodies all key off it rather
// than the raw unmangled name.
package symbols

import "fmt"

// Kind classifies what role a Symbol plays in the grammar.
type Kind int

const (
	NonTerminal Kind = iota
	Terminal
	Skippable
	Eof
	GroupStart
	GroupEnd
	CommentLine
	Error
)

func (k Kind) String() string {
	switch k {
	case NonTerminal:
		return "NonTerminal"
	case Terminal:
		return "Terminal"
	case Skippable:
		return "Skippable"
	case Eof:
		return "Eof"
	case GroupStart:
		return "GroupStart"
	case GroupEnd:
		return "GroupEnd"
	case CommentLine:
		return "CommentLine"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Symbol is a single entry in a grammar's alphabet. Name is the raw,
// undecorated name as it appeared in the CGT; Mangled is the bracket-
// decorated identity used for all downstream lookups. Group is set only
// when this symbol was installed as a group's start or end marker during
// linking (spec.md §4.C step 2); it is nil otherwise.
type Symbol struct {
	Name    string
	Mangled string
	Kind    Kind

	// Group is a back-reference to the lexical group this symbol opens or
	// closes, if any. Set by the table linker, never by the CGT parser.
	Group *Group
}

// Mangle decorates a raw symbol name by kind per spec.md §3, producing the
// canonical identifier used for all LR/DFA lookups.
func Mangle(name string, kind Kind) string {
	switch kind {
	case Terminal:
		return "'" + name + "'"
	case NonTerminal:
		return "<" + name + ">"
	case Eof:
		return "(EOF)"
	case Skippable:
		return "[" + name + "]"
	case GroupStart:
		return "/" + name + "/"
	case GroupEnd:
		return `\` + name + `\`
	case CommentLine:
		return "#" + name + "#"
	case Error:
		return "!" + name + "!"
	default:
		return name
	}
}

// NewSymbol builds a Symbol with its mangled name already computed.
func NewSymbol(name string, kind Kind) *Symbol {
	return &Symbol{Name: name, Mangled: Mangle(name, kind), Kind: kind}
}

// IsLexeme returns whether a Kind is legal as the terminal_symbol of an
// accepting DFA state (spec.md §3 invariants): anything but NonTerminal.
func (k Kind) IsLexeme() bool {
	return k != NonTerminal
}
