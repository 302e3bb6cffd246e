package cgt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/goldrun/internal/golderr"
)

func u16le(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func utf16zField(s string) []byte {
	out := []byte{tagString}
	for _, r := range s {
		out = append(out, u16le(uint16(r))...)
	}
	return append(out, 0, 0)
}

func TestCursor_ReadUTF16String(t *testing.T) {
	data := utf16zField("hi")
	c := NewCursor(data)

	s, err := c.ReadUTF16String()
	require.NoError(t, err)
	assert.Equal(t, "hi", s)
	assert.True(t, c.EOF())
}

func TestCursor_ReadRawUTF16ZString(t *testing.T) {
	var data []byte
	for _, r := range "GOLD Parser Tables/v5.0" {
		data = append(data, u16le(uint16(r))...)
	}
	data = append(data, 0, 0)

	c := NewCursor(data)
	s, err := c.ReadRawUTF16ZString()
	require.NoError(t, err)
	assert.Equal(t, "GOLD Parser Tables/v5.0", s)
}

func TestCursor_TagMismatchRewinds(t *testing.T) {
	data := []byte{tagBool, 1}
	c := NewCursor(data)

	_, err := c.ReadU16()
	assert.Error(t, err)

	tag, ok := c.PeekTag()
	require.True(t, ok)
	assert.Equal(t, byte(tagBool), tag)

	v, err := c.ReadBool()
	require.NoError(t, err)
	assert.True(t, v)
}

func TestCursor_StartRecordAndTypedReads(t *testing.T) {
	var data []byte
	data = append(data, tagMultiRecord)
	data = append(data, u16le(2)...)
	data = append(data, tagU16)
	data = append(data, u16le(42)...)
	data = append(data, tagByte, 7)

	c := NewCursor(data)
	count, err := c.StartRecord()
	require.NoError(t, err)
	assert.Equal(t, uint16(2), count)
	assert.False(t, c.RecordFinished())

	v, err := c.ReadU16()
	require.NoError(t, err)
	assert.Equal(t, uint16(42), v)
	assert.False(t, c.RecordFinished())

	b, err := c.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(7), b)
	assert.True(t, c.RecordFinished())

	require.NoError(t, c.EndRecord())
}

func TestCursor_OvershotRecordIsFatal(t *testing.T) {
	var data []byte
	data = append(data, tagMultiRecord)
	data = append(data, u16le(1)...)
	data = append(data, tagU16)
	data = append(data, u16le(1)...)
	data = append(data, tagByte, 9)

	c := NewCursor(data)
	_, err := c.StartRecord()
	require.NoError(t, err)

	_, err = c.ReadU16()
	require.NoError(t, err)

	_, err = c.ReadByte()
	assert.ErrorIs(t, err, golderr.ErrOvershotRecord)
}

func TestCursor_IncompleteRecordIsFatal(t *testing.T) {
	var data []byte
	data = append(data, tagMultiRecord)
	data = append(data, u16le(2)...)
	data = append(data, tagByte, 1)

	c := NewCursor(data)
	_, err := c.StartRecord()
	require.NoError(t, err)

	_, err = c.ReadByte()
	require.NoError(t, err)

	err = c.EndRecord()
	assert.Error(t, err)
}

func TestCursor_SkipField(t *testing.T) {
	var data []byte
	data = append(data, tagMultiRecord)
	data = append(data, u16le(2)...)
	data = append(data, tagEmpty)
	data = append(data, utf16zField("skip me")...)

	c := NewCursor(data)
	_, err := c.StartRecord()
	require.NoError(t, err)

	require.NoError(t, c.SkipField())
	require.NoError(t, c.SkipField())
	require.NoError(t, c.EndRecord())
}
