// Package cgt implements the binary record reader and record parser for
// GOLD Compiled Grammar Table files (spec.md §4.A, §4.B): a self-
// describing, tagged, record-oriented format produced by an external
// grammar builder and consumed here, never written.
package cgt

import (
	"golang.org/x/text/encoding/unicode"

	"github.com/dekarrin/goldrun/internal/golderr"
)

// field tags, one byte each, preceding every field's payload.
const (
	tagBool        = 'B'
	tagEmpty       = 'E'
	tagU16         = 'I'
	tagString      = 'S'
	tagByte        = 'b'
	tagMultiRecord = 'M'
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Cursor is a typed field-stream reader over raw CGT bytes, per spec.md
// §4.A. All typed reads consume the leading tag byte and payload; on a tag
// mismatch the tag byte is left unconsumed so callers may Peek without
// committing to a read.
type Cursor struct {
	data       []byte
	pos        int
	inRecord   bool
	fieldsLeft int
}

// NewCursor wraps raw CGT bytes for reading from offset 0.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// EOF reports whether the cursor has consumed the entire buffer.
func (c *Cursor) EOF() bool {
	return c.pos >= len(c.data)
}

// PeekTag returns the byte at the current position without consuming it,
// along with whether one was available at all.
func (c *Cursor) PeekTag() (byte, bool) {
	if c.pos >= len(c.data) {
		return 0, false
	}
	return c.data[c.pos], true
}

func (c *Cursor) expectTag(want byte) error {
	tag, ok := c.PeekTag()
	if !ok || tag != want {
		return golderr.New("field tag mismatch", golderr.ErrUnexpectedDataType)
	}
	c.pos++
	return nil
}

// checkOvershoot is called before consuming any field's payload while
// inside a record frame; reading past a record's declared field count is
// the OvershotRecord fatal condition of spec.md §4.A.
func (c *Cursor) checkOvershoot() error {
	if c.inRecord && c.fieldsLeft <= 0 {
		return golderr.New("read past declared record field count", golderr.ErrOvershotRecord)
	}
	return nil
}

func (c *Cursor) takeField() {
	if c.inRecord {
		c.fieldsLeft--
	}
}

// ReadRawUTF16ZString reads a null-terminated UTF-16LE string that is NOT
// wrapped in a field tag -- used only for the magic-number header at
// offset 0, which precedes any record framing (spec.md §4.A, §4.B step 1).
func (c *Cursor) ReadRawUTF16ZString() (string, error) {
	raw, err := c.readUTF16ZBytes()
	if err != nil {
		return "", err
	}
	decoded, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", golderr.New("malformed UTF-16 string", err)
	}
	return string(decoded), nil
}

// readUTF16ZBytes consumes u16 code units up to and including the
// terminating 0x0000, returning the raw little-endian bytes preceding it
// (not including the terminator).
func (c *Cursor) readUTF16ZBytes() ([]byte, error) {
	var raw []byte
	for {
		if c.pos+2 > len(c.data) {
			return nil, golderr.New("truncated UTF-16 string", golderr.ErrUnexpectedDataType)
		}
		lo, hi := c.data[c.pos], c.data[c.pos+1]
		c.pos += 2
		if lo == 0 && hi == 0 {
			return raw, nil
		}
		raw = append(raw, lo, hi)
	}
}

// StartRecord requires the next tag be 'M' (multi-record header), reads
// the u16 count of fields that follow it, and arms the field counter used
// by RecordFinished/the typed reads/SkipField.
func (c *Cursor) StartRecord() (count uint16, err error) {
	if err := c.expectTag(tagMultiRecord); err != nil {
		return 0, err
	}
	if c.pos+2 > len(c.data) {
		return 0, golderr.New("truncated record header", golderr.ErrUnexpectedDataType)
	}
	count = uint16(c.data[c.pos]) | uint16(c.data[c.pos+1])<<8
	c.pos += 2
	c.inRecord = true
	c.fieldsLeft = int(count)
	return count, nil
}

// RecordFinished reports whether the current record's field counter has
// reached zero.
func (c *Cursor) RecordFinished() bool {
	return !c.inRecord || c.fieldsLeft == 0
}

// EndRecord requires RecordFinished to hold and clears record-framing
// state; a record for which this does not hold is the IncompleteRecord
// fatal condition of spec.md §4.B.
func (c *Cursor) EndRecord() error {
	if !c.RecordFinished() {
		return golderr.New("record fields remain unread", golderr.ErrIncompleteRecord)
	}
	c.inRecord = false
	return nil
}

// ReadBool reads a 'B' field: a tag byte followed by a single bool-payload
// byte, zero meaning false.
func (c *Cursor) ReadBool() (bool, error) {
	if err := c.checkOvershoot(); err != nil {
		return false, err
	}
	if err := c.expectTag(tagBool); err != nil {
		return false, err
	}
	if c.pos >= len(c.data) {
		return false, golderr.New("truncated bool field", golderr.ErrUnexpectedDataType)
	}
	v := c.data[c.pos] != 0
	c.pos++
	c.takeField()
	return v, nil
}

// ReadEmpty reads an 'E' field: a tag byte with no payload.
func (c *Cursor) ReadEmpty() error {
	if err := c.checkOvershoot(); err != nil {
		return err
	}
	if err := c.expectTag(tagEmpty); err != nil {
		return err
	}
	c.takeField()
	return nil
}

// ReadU16 reads an 'I' field: a tag byte followed by a little-endian u16.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.checkOvershoot(); err != nil {
		return 0, err
	}
	if err := c.expectTag(tagU16); err != nil {
		return 0, err
	}
	if c.pos+2 > len(c.data) {
		return 0, golderr.New("truncated u16 field", golderr.ErrUnexpectedDataType)
	}
	v := uint16(c.data[c.pos]) | uint16(c.data[c.pos+1])<<8
	c.pos += 2
	c.takeField()
	return v, nil
}

// ReadUTF16String reads an 'S' field: a tag byte followed by a null-
// terminated UTF-16LE string.
func (c *Cursor) ReadUTF16String() (string, error) {
	if err := c.checkOvershoot(); err != nil {
		return "", err
	}
	if err := c.expectTag(tagString); err != nil {
		return "", err
	}
	raw, err := c.readUTF16ZBytes()
	if err != nil {
		return "", err
	}
	decoded, err := utf16le.NewDecoder().Bytes(raw)
	if err != nil {
		return "", golderr.New("malformed UTF-16 string", err)
	}
	c.takeField()
	return string(decoded), nil
}

// ReadByte reads a 'b' field: a tag byte followed by a single raw byte.
func (c *Cursor) ReadByte() (byte, error) {
	if err := c.checkOvershoot(); err != nil {
		return 0, err
	}
	if err := c.expectTag(tagByte); err != nil {
		return 0, err
	}
	if c.pos >= len(c.data) {
		return 0, golderr.New("truncated byte field", golderr.ErrUnexpectedDataType)
	}
	v := c.data[c.pos]
	c.pos++
	c.takeField()
	return v, nil
}

// SkipField consumes exactly one field of any tag and decrements the
// field counter, without interpreting its payload.
func (c *Cursor) SkipField() error {
	tag, ok := c.PeekTag()
	if !ok {
		return golderr.New("no field to skip", golderr.ErrUnexpectedDataType)
	}
	switch tag {
	case tagBool:
		_, err := c.ReadBool()
		return err
	case tagEmpty:
		return c.ReadEmpty()
	case tagU16:
		_, err := c.ReadU16()
		return err
	case tagString:
		_, err := c.ReadUTF16String()
		return err
	case tagByte:
		_, err := c.ReadByte()
		return err
	default:
		return golderr.New("unrecognized field tag for skip", golderr.ErrUnexpectedDataType)
	}
}
