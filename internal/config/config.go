// Package config loads the defensive-limit knobs an embedder can tune
// without recompiling (SPEC_FULL.md §10.2), the way the teacher's server
// config loads its own limits from a TOML file.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/dekarrin/goldrun/internal/golderr"
)

// Default values for EngineOptions (SPEC_FULL.md §10.5).
const (
	DefaultMaxGroupDepth  = 64
	DefaultMaxRecordCount = 1 << 20
)

// EngineOptions are the tunable resource limits and trace verbosity
// level for an engine instance. The zero value is not valid to run
// with directly; use Defaults() or Load.
type EngineOptions struct {
	// TraceVerbose enables the engine's free-text TraceFunc hook being
	// wired to a default logger when no explicit TraceFunc is set by
	// the embedder (SPEC_FULL.md §10.3).
	TraceVerbose bool `toml:"trace_verbose"`

	// MaxGroupDepth bounds lexical group nesting (spec.md §4.F).
	MaxGroupDepth int `toml:"max_group_depth"`

	// MaxRecordCount bounds the number of records read from a single
	// CGT file (spec.md §4.B).
	MaxRecordCount int `toml:"max_record_count"`
}

// Defaults returns the EngineOptions used when no config file is
// supplied.
func Defaults() EngineOptions {
	return EngineOptions{
		TraceVerbose:   false,
		MaxGroupDepth:  DefaultMaxGroupDepth,
		MaxRecordCount: DefaultMaxRecordCount,
	}
}

// Load reads an EngineOptions from a TOML file at path. Fields absent
// from the file keep their Defaults() values.
func Load(path string) (EngineOptions, error) {
	opts := Defaults()
	meta, err := toml.DecodeFile(path, &opts)
	if err != nil {
		return EngineOptions{}, golderr.New("load engine config", err)
	}
	if undec := meta.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		return EngineOptions{}, golderr.New("unknown config keys: " + joinComma(keys))
	}

	if opts.MaxGroupDepth <= 0 {
		opts.MaxGroupDepth = DefaultMaxGroupDepth
	}
	if opts.MaxRecordCount <= 0 {
		opts.MaxRecordCount = DefaultMaxRecordCount
	}

	return opts, nil
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
