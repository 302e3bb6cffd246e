// Package goldrun is a runtime engine for the GOLD Parsing System: it loads
// a compiled CGT grammar table, lexes input against the table's DFA
// (honoring nested lexical groups such as block comments), and drives the
// table's LALR(1) automaton to produce a concrete parse tree.
//
// This package does not compile grammars. The CGT file it loads is the
// output of an external grammar builder (GOLD Parser Builder or
// compatible); goldrun only consumes the compiled result.
package goldrun

import (
	"log"

	"github.com/dekarrin/goldrun/internal/cgt"
	"github.com/dekarrin/goldrun/internal/config"
	"github.com/dekarrin/goldrun/internal/ggcache"
	"github.com/dekarrin/goldrun/internal/grammar"
	"github.com/dekarrin/goldrun/internal/parse"
)

// Re-exported so callers never need to import the internal packages
// directly to name these types.
type (
	// Tables is a fully linked grammar, ready to drive a parse.
	Tables = grammar.Tables

	// Tree is a concrete parse tree node.
	Tree = parse.Tree

	// Observer is the set of optional parse-progress callbacks.
	Observer = parse.Observer

	// ParserError reports a parse that failed because no LALR action was
	// defined for the current state/look-ahead pair.
	ParserError = parse.ParserError

	// Options tunes defensive limits and trace verbosity for an Engine.
	Options = config.EngineOptions

	// TraceFunc receives one free-text line per driver trace event.
	TraceFunc = parse.TraceFunc
)

// DefaultOptions returns the Options used when none are supplied to
// NewEngine.
func DefaultOptions() Options {
	return config.Defaults()
}

// LoadOptionsFile reads an Options from a TOML file, filling in defaults
// for any field the file leaves unset.
func LoadOptionsFile(path string) (Options, error) {
	return config.Load(path)
}

// LoadTables reads a CGT byte stream (v1 or v5) and links it into a ready-
// to-run Tables. This is the normal entry point for turning a .cgt/.egt
// file's contents into something an Engine can parse against.
func LoadTables(cgtData []byte, opts Options) (*Tables, error) {
	raw, err := cgt.Load(cgtData, cgt.LoadOptions{MaxRecords: opts.MaxRecordCount})
	if err != nil {
		return nil, err
	}
	return grammar.Link(raw)
}

// SaveTablesCache serializes an already-linked Tables into a compact
// binary form suitable for storing alongside or in place of the original
// CGT file, so a long-lived process can skip re-parsing and re-linking it
// on every restart.
func SaveTablesCache(t *Tables) ([]byte, error) {
	return ggcache.Save(t)
}

// LoadTablesCache reverses SaveTablesCache.
func LoadTablesCache(data []byte) (*Tables, error) {
	return ggcache.Load(data)
}

// Engine parses input text against a single linked Tables. It holds no
// per-parse state itself; ParseString may be called concurrently from
// multiple goroutines so long as the Tables it was built from is not
// mutated (grammar.Tables is never mutated after linking).
type Engine struct {
	driver *parse.Driver
}

// NewEngine builds an Engine bound to tables. If trace is non-nil, it
// receives one free-text line per shift/reduce/goto decision the driver
// makes; this is intended for debugging a grammar, not for production use.
// If trace is nil and opts.TraceVerbose is set, those lines go to the
// standard library's default logger instead.
func NewEngine(tables *Tables, opts Options, trace TraceFunc) *Engine {
	if trace == nil && opts.TraceVerbose {
		trace = func(line string) { log.Print(line) }
	}
	d := parse.NewDriver(tables, opts)
	d.Trace = trace
	return &Engine{driver: d}
}

// ParseString lexes and parses input in one pass, returning the root of
// the resulting concrete parse tree. observer may be nil.
func (e *Engine) ParseString(input []byte, observer *Observer) (*Tree, error) {
	return e.driver.ParseString(input, observer)
}
