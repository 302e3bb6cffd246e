package cgt

import "github.com/dekarrin/goldrun/internal/symbols"

// Version identifies which CGT format revision a table was built from
// (spec.md §4.B step 1).
type Version int

const (
	V1 Version = iota
	V5
)

func (v Version) String() string {
	if v == V1 {
		return "v1"
	}
	return "v5"
}

// RawDFAEdge is one (charset, target state) transition of a "D" record.
type RawDFAEdge struct {
	CharsetIndex uint16
	Target       uint16
}

// RawDFAState is a decoded "D" record: spec.md §4.B.
type RawDFAState struct {
	Index        uint16
	IsFinal      bool
	ResultSymbol uint16
	Edges        []RawDFAEdge
}

// RawLRAction is one look-ahead transition of an "L" record. ActionType is
// 1=Shift, 2=Reduce, 3=Goto, 4=Accept per spec.md §4.B.
type RawLRAction struct {
	LookAhead  uint16
	ActionType uint16
	Value      uint16
}

// RawLRState is a decoded "L" record.
type RawLRState struct {
	Index   uint16
	Actions []RawLRAction
}

// RawRule is a decoded "R" record.
type RawRule struct {
	Index    uint16
	Produces uint16
	Consumes []uint16
}

// RawSymbol is a decoded "S" record.
type RawSymbol struct {
	Index uint16
	Name  string
	Kind  uint16
}

// RawGroup is a decoded v5 "g" record.
type RawGroup struct {
	Index    uint16
	Name     string
	Symbol   uint16
	Start    uint16
	End      uint16
	Advance  uint16
	Ending   uint16
	Nestable []uint16
}

// RawParams is the decoded v1 "P" record.
type RawParams struct {
	Name         string
	Version      string
	Author       string
	About        string
	CaseSenitive bool
	StartSymbol  uint16
}

// RawTables is the flat, index-based intermediate form produced by the CGT
// record parser (spec.md §4.B), before the table linker (§4.C) resolves
// indices into a cross-linked object graph.
type RawTables struct {
	FormatVersion Version

	Charsets  []symbols.CharacterClass
	DFAStates []RawDFAState
	LRStates  []RawLRState
	Rules     []RawRule
	Symbols   []RawSymbol
	Groups    []RawGroup

	DFAStart uint16
	LRStart  uint16

	// Params holds grammar metadata. For v1 tables this is populated from
	// the single "P" record (name/version/author/about/case-sensitivity);
	// for v5 tables it is the accumulation of every "p" property record.
	Params map[string]string

	// StartSymbol is the v1 "P" record's designated start symbol index. v5
	// tables carry no equivalent record; nil for those.
	StartSymbol *uint16

	sawInitial bool
}
