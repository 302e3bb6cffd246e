package cgt

import (
	"fmt"

	"github.com/dekarrin/goldrun/internal/golderr"
	"github.com/dekarrin/goldrun/internal/symbols"
)

const (
	headerV1 = "GOLD Parser Tables/v1.0"
	headerV5 = "GOLD Parser Tables/v5.0"
)

// LoadOptions tunes the record-parsing loop. The zero value is usable;
// MaxRecords of 0 means unlimited, and a nil OnUnknownRecord is a silent
// no-op per spec.md §9's "forward-compatible" treatment of unknown tags.
type LoadOptions struct {
	// MaxRecords bounds the number of records the loop will accept before
	// failing, guarding against a corrupt or adversarial length field that
	// would otherwise make the loop run unbounded (SPEC_FULL.md §10.5).
	MaxRecords int

	// OnUnknownRecord, if set, is called with the one-byte tag of any
	// record type not recognized by this version's table (spec.md §9 open
	// question: forward-compatible tags are skipped, not rejected, but an
	// embedder may want to know about them).
	OnUnknownRecord func(tag byte)
}

// Load decodes raw CGT bytes into a RawTables, per spec.md §4.B. It does
// not resolve any cross-references; see the grammar package's Link for
// that.
func Load(data []byte, opts LoadOptions) (*RawTables, error) {
	cur := NewCursor(data)

	magic, err := cur.ReadRawUTF16ZString()
	if err != nil {
		return nil, golderr.New("reading CGT header", err)
	}

	var version Version
	switch magic {
	case headerV1:
		version = V1
	case headerV5:
		version = V5
	default:
		return nil, golderr.New(fmt.Sprintf("unrecognized header %q", magic), golderr.ErrNotAGoldTable)
	}

	raw := &RawTables{FormatVersion: version, Params: make(map[string]string)}

	records := 0
	for !cur.EOF() {
		if opts.MaxRecords > 0 && records >= opts.MaxRecords {
			return nil, golderr.New("too many records in CGT", golderr.ErrOvershotRecord)
		}
		records++

		if _, err := cur.StartRecord(); err != nil {
			return nil, golderr.New("starting record", err)
		}

		recType, err := cur.ReadByte()
		if err != nil {
			return nil, golderr.New("reading record type", err)
		}

		if err := dispatchRecord(cur, raw, recType, opts); err != nil {
			return nil, err
		}

		if err := cur.EndRecord(); err != nil {
			return nil, golderr.New(fmt.Sprintf("record type %q", string(recType)), err)
		}
	}

	return raw, nil
}

func dispatchRecord(cur *Cursor, raw *RawTables, recType byte, opts LoadOptions) error {
	switch recType {
	case 'C':
		return readCharsetEnum(cur, raw)
	case 'c':
		return readCharsetRange(cur, raw)
	case 'D':
		return readDFAState(cur, raw)
	case 'L':
		return readLRState(cur, raw)
	case 'R':
		return readRule(cur, raw)
	case 'S':
		return readSymbol(cur, raw)
	case 'I':
		return readInitial(cur, raw)
	case 'P':
		return readParams(cur, raw)
	case 'p':
		return readProperty(cur, raw)
	case 'T', 't':
		return skipRemaining(cur)
	case 'g':
		return readGroup(cur, raw)
	default:
		if opts.OnUnknownRecord != nil {
			opts.OnUnknownRecord(recType)
		}
		return skipRemaining(cur)
	}
}

func skipRemaining(cur *Cursor) error {
	for !cur.RecordFinished() {
		if err := cur.SkipField(); err != nil {
			return golderr.New("skipping unknown record field", err)
		}
	}
	return nil
}

func checkIndex(kind string, want uint16, got int) error {
	if int(want) != got {
		return golderr.New(fmt.Sprintf("%s record index %d out of order, expected %d", kind, want, got), golderr.ErrIndexOutOfOrder)
	}
	return nil
}

func readCharsetEnum(cur *Cursor, raw *RawTables) error {
	idx, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := checkIndex("charset", idx, len(raw.Charsets)); err != nil {
		return err
	}
	members, err := cur.ReadUTF16String()
	if err != nil {
		return err
	}
	raw.Charsets = append(raw.Charsets, symbols.NewEnumeratedClass(members))
	return nil
}

func readCharsetRange(cur *Cursor, raw *RawTables) error {
	idx, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := checkIndex("charset", idx, len(raw.Charsets)); err != nil {
		return err
	}
	codepage, err := cur.ReadU16()
	if err != nil {
		return err
	}
	rangeCount, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := cur.ReadEmpty(); err != nil {
		return err
	}
	ranges := make([]symbols.CodepointRange, 0, rangeCount)
	for i := uint16(0); i < rangeCount; i++ {
		start, err := cur.ReadU16()
		if err != nil {
			return err
		}
		end, err := cur.ReadU16()
		if err != nil {
			return err
		}
		ranges = append(ranges, symbols.CodepointRange{Start: rune(start), End: rune(end)})
	}
	raw.Charsets = append(raw.Charsets, symbols.NewRangeClass(codepage, ranges))
	return nil
}

func readDFAState(cur *Cursor, raw *RawTables) error {
	idx, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := checkIndex("DFA state", idx, len(raw.DFAStates)); err != nil {
		return err
	}
	isFinal, err := cur.ReadBool()
	if err != nil {
		return err
	}
	resultSymbol, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := cur.ReadEmpty(); err != nil {
		return err
	}

	var edges []RawDFAEdge
	for !cur.RecordFinished() {
		charsetIdx, err := cur.ReadU16()
		if err != nil {
			return err
		}
		target, err := cur.ReadU16()
		if err != nil {
			return err
		}
		if err := cur.ReadEmpty(); err != nil {
			return err
		}
		edges = append(edges, RawDFAEdge{CharsetIndex: charsetIdx, Target: target})
	}

	raw.DFAStates = append(raw.DFAStates, RawDFAState{
		Index:        idx,
		IsFinal:      isFinal,
		ResultSymbol: resultSymbol,
		Edges:        edges,
	})
	return nil
}

func readLRState(cur *Cursor, raw *RawTables) error {
	idx, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := checkIndex("LR state", idx, len(raw.LRStates)); err != nil {
		return err
	}
	if err := cur.ReadEmpty(); err != nil {
		return err
	}

	var actions []RawLRAction
	for !cur.RecordFinished() {
		lookAhead, err := cur.ReadU16()
		if err != nil {
			return err
		}
		actionType, err := cur.ReadU16()
		if err != nil {
			return err
		}
		value, err := cur.ReadU16()
		if err != nil {
			return err
		}
		if err := cur.ReadEmpty(); err != nil {
			return err
		}
		actions = append(actions, RawLRAction{LookAhead: lookAhead, ActionType: actionType, Value: value})
	}

	raw.LRStates = append(raw.LRStates, RawLRState{Index: idx, Actions: actions})
	return nil
}

func readRule(cur *Cursor, raw *RawTables) error {
	idx, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := checkIndex("rule", idx, len(raw.Rules)); err != nil {
		return err
	}
	produces, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := cur.ReadEmpty(); err != nil {
		return err
	}

	var consumes []uint16
	for !cur.RecordFinished() {
		sym, err := cur.ReadU16()
		if err != nil {
			return err
		}
		consumes = append(consumes, sym)
	}

	raw.Rules = append(raw.Rules, RawRule{Index: idx, Produces: produces, Consumes: consumes})
	return nil
}

func readSymbol(cur *Cursor, raw *RawTables) error {
	idx, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := checkIndex("symbol", idx, len(raw.Symbols)); err != nil {
		return err
	}
	name, err := cur.ReadUTF16String()
	if err != nil {
		return err
	}
	kind, err := cur.ReadU16()
	if err != nil {
		return err
	}
	raw.Symbols = append(raw.Symbols, RawSymbol{Index: idx, Name: name, Kind: kind})
	return nil
}

func readInitial(cur *Cursor, raw *RawTables) error {
	dfaStart, err := cur.ReadU16()
	if err != nil {
		return err
	}
	lrStart, err := cur.ReadU16()
	if err != nil {
		return err
	}
	raw.DFAStart = dfaStart
	raw.LRStart = lrStart
	raw.sawInitial = true
	return nil
}

func readParams(cur *Cursor, raw *RawTables) error {
	name, err := cur.ReadUTF16String()
	if err != nil {
		return err
	}
	version, err := cur.ReadUTF16String()
	if err != nil {
		return err
	}
	author, err := cur.ReadUTF16String()
	if err != nil {
		return err
	}
	about, err := cur.ReadUTF16String()
	if err != nil {
		return err
	}
	caseSensitive, err := cur.ReadBool()
	if err != nil {
		return err
	}
	startSymbol, err := cur.ReadU16()
	if err != nil {
		return err
	}

	raw.Params["Name"] = name
	raw.Params["Version"] = version
	raw.Params["Author"] = author
	raw.Params["About"] = about
	if caseSensitive {
		raw.Params["Case Sensitive"] = "True"
	} else {
		raw.Params["Case Sensitive"] = "False"
	}
	raw.StartSymbol = &startSymbol
	return nil
}

func readProperty(cur *Cursor, raw *RawTables) error {
	if err := cur.ReadEmpty(); err != nil {
		return err
	}
	name, err := cur.ReadUTF16String()
	if err != nil {
		return err
	}
	value, err := cur.ReadUTF16String()
	if err != nil {
		return err
	}
	raw.Params[name] = value
	return nil
}

func readGroup(cur *Cursor, raw *RawTables) error {
	idx, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := checkIndex("group", idx, len(raw.Groups)); err != nil {
		return err
	}
	name, err := cur.ReadUTF16String()
	if err != nil {
		return err
	}
	symbolIdx, err := cur.ReadU16()
	if err != nil {
		return err
	}
	startSym, err := cur.ReadU16()
	if err != nil {
		return err
	}
	endSym, err := cur.ReadU16()
	if err != nil {
		return err
	}
	advance, err := cur.ReadU16()
	if err != nil {
		return err
	}
	ending, err := cur.ReadU16()
	if err != nil {
		return err
	}
	if err := cur.ReadEmpty(); err != nil {
		return err
	}
	nestableCount, err := cur.ReadU16()
	if err != nil {
		return err
	}

	nestable := make([]uint16, 0, nestableCount)
	for i := uint16(0); i < nestableCount; i++ {
		g, err := cur.ReadU16()
		if err != nil {
			return err
		}
		nestable = append(nestable, g)
	}

	raw.Groups = append(raw.Groups, RawGroup{
		Index:    idx,
		Name:     name,
		Symbol:   symbolIdx,
		Start:    startSym,
		End:      endSym,
		Advance:  advance,
		Ending:   ending,
		Nestable: nestable,
	})
	return nil
}
