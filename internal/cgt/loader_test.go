package cgt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordBuilder struct {
	fields []byte
	count  uint16
}

func newRecord() *recordBuilder {
	return &recordBuilder{}
}

func (r *recordBuilder) u16(v uint16) *recordBuilder {
	r.fields = append(r.fields, tagU16)
	r.fields = append(r.fields, u16le(v)...)
	r.count++
	return r
}

func (r *recordBuilder) b(v byte) *recordBuilder {
	r.fields = append(r.fields, tagByte, v)
	r.count++
	return r
}

func (r *recordBuilder) boolean(v bool) *recordBuilder {
	bv := byte(0)
	if v {
		bv = 1
	}
	r.fields = append(r.fields, tagBool, bv)
	r.count++
	return r
}

func (r *recordBuilder) empty() *recordBuilder {
	r.fields = append(r.fields, tagEmpty)
	r.count++
	return r
}

func (r *recordBuilder) str(s string) *recordBuilder {
	r.fields = append(r.fields, utf16zField(s)...)
	r.count++
	return r
}

func (r *recordBuilder) bytes() []byte {
	out := []byte{tagMultiRecord}
	out = append(out, u16le(r.count)...)
	return append(out, r.fields...)
}

func header(version string) []byte {
	var data []byte
	for _, ch := range "GOLD Parser Tables/" + version {
		data = append(data, u16le(uint16(ch))...)
	}
	return append(data, 0, 0)
}

// buildV5Fixture builds a minimal v5 CGT byte stream for a two-state DFA
// and a two-state LALR table (shift NUM, then reduce on Eof), exercising
// the "S", "C", "D", "R", "L", "I", "p" and "t" record types.
func buildV5Fixture() []byte {
	data := header("v5.0")

	// symbols: 0=expr(NonTerminal), 1=NUM(Terminal), 2=Eof
	data = append(data, newRecord().b('S').u16(0).str("expr").u16(0).bytes()...)
	data = append(data, newRecord().b('S').u16(1).str("NUM").u16(1).bytes()...)
	data = append(data, newRecord().b('S').u16(2).str("").u16(3).bytes()...)

	// charset 0: digits, as an enumerated "C" record (v1 style charsets
	// are legal inside v5 tables too -- spec.md §4.B's table does not
	// restrict "C" to v1 files, only "c" ranges to v5).
	data = append(data, newRecord().b('C').u16(0).str("0123456789").bytes()...)

	// DFA: state0 --digits--> state1(final, NUM), state1 --digits--> state1
	data = append(data, newRecord().b('D').u16(0).boolean(false).u16(0).empty().
		u16(0).u16(1).empty().bytes()...)
	data = append(data, newRecord().b('D').u16(1).boolean(true).u16(1).empty().
		u16(0).u16(1).empty().bytes()...)

	// rule 0: expr -> NUM
	data = append(data, newRecord().b('R').u16(0).u16(0).empty().u16(1).bytes()...)

	// LR: state0 shift NUM->1; state1 reduce rule0 on Eof
	data = append(data, newRecord().b('L').u16(0).empty().
		u16(1).u16(1).u16(1).empty().bytes()...)
	data = append(data, newRecord().b('L').u16(1).empty().
		u16(2).u16(2).u16(0).empty().bytes()...)

	// initial states
	data = append(data, newRecord().b('I').u16(0).u16(0).bytes()...)

	// a v5 property and an ignored-count record, to exercise "p"/"t".
	data = append(data, newRecord().b('p').empty().str("Case Sensitive").str("True").bytes()...)
	data = append(data, newRecord().b('t').u16(0).bytes()...)

	return data
}

func TestLoad_V5Fixture(t *testing.T) {
	raw, err := Load(buildV5Fixture(), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, V5, raw.FormatVersion)
	require.Len(t, raw.Symbols, 3)
	assert.Equal(t, "expr", raw.Symbols[0].Name)
	require.Len(t, raw.DFAStates, 2)
	assert.True(t, raw.DFAStates[1].IsFinal)
	require.Len(t, raw.Rules, 1)
	require.Len(t, raw.LRStates, 2)
	assert.Equal(t, "True", raw.Params["Case Sensitive"])
	assert.Equal(t, uint16(0), raw.DFAStart)
	assert.Equal(t, uint16(0), raw.LRStart)
}

func TestLoad_BadHeaderIsFatal(t *testing.T) {
	data := header("v9.9")
	_, err := Load(data, LoadOptions{})
	assert.Error(t, err)
}

func TestLoad_IndexOutOfOrderIsFatal(t *testing.T) {
	data := header("v5.0")
	data = append(data, newRecord().b('S').u16(1).str("oops").u16(0).bytes()...)

	_, err := Load(data, LoadOptions{})
	assert.Error(t, err)
}

func TestLoad_MaxRecordsEnforced(t *testing.T) {
	data := header("v5.0")
	for i := 0; i < 5; i++ {
		data = append(data, newRecord().b('t').u16(0).bytes()...)
	}

	_, err := Load(data, LoadOptions{MaxRecords: 2})
	assert.Error(t, err)
}
