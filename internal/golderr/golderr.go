// Package golderr holds the fatal error sentinels shared by the CGT loader,
// table linker, and LALR driver, plus the typed Error used to attach
// context to one of those sentinels without losing errors.Is/errors.As
// compatibility.
package golderr

import "errors"

var (
	// ErrNotAGoldTable means the byte buffer handed to the loader did not
	// begin with a recognized "GOLD Parser Tables/..." header.
	ErrNotAGoldTable = errors.New("not a GOLD parser table")

	// ErrUnexpectedDataType means a field read did not match the tag the
	// caller expected.
	ErrUnexpectedDataType = errors.New("unexpected field data type")

	// ErrIndexOutOfOrder means an indexed record's declared index did not
	// equal the number of records of that kind already read.
	ErrIndexOutOfOrder = errors.New("record index out of order")

	// ErrOvershotRecord means more fields were read from a record than the
	// record's own header declared it has.
	ErrOvershotRecord = errors.New("overshot record field count")

	// ErrIncompleteRecord means a record was dispatched but its field
	// counter did not reach zero.
	ErrIncompleteRecord = errors.New("incomplete record")

	// ErrUnknownActionType means an LR transition's action_type field held
	// a value other than 1 (Shift), 2 (Reduce), 3 (Goto), or 4 (Accept).
	ErrUnknownActionType = errors.New("unknown LR action type")

	// ErrUnresolvedIndex means a cross-reference (symbol, state, rule, or
	// group index) found during linking did not resolve to a defined
	// entry.
	ErrUnresolvedIndex = errors.New("unresolved index")

	// ErrStateMismatch means the LALR driver was asked to pop more frames
	// off its stack than remained -- a corrupt table or a bug in the
	// driver, never a property of the input text.
	ErrStateMismatch = errors.New("parser stack underflow")

	// ErrGotoNotFound means a reduce's goto lookup found no entry for the
	// produced nonterminal in the post-pop state -- also always a table or
	// driver bug, never a property of the input text.
	ErrGotoNotFound = errors.New("no goto entry for reduced symbol")
)

// Error is a message optionally wrapping one or more causes. Calling
// errors.Is on an Error with any of its causes as the target returns true.
type Error struct {
	msg   string
	cause []error
}

// New creates an Error with the given message and, optionally, one or more
// causes it should report true for via errors.Is.
func New(msg string, causes ...error) Error {
	e := Error{msg: msg}
	if len(causes) > 0 {
		e.cause = make([]error, len(causes))
		copy(e.cause, causes)
	}
	return e
}

// Error returns the message, followed by the first cause's own message if
// one is set.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap exposes all causes to the errors package.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is reports whether target is this exact Error or one of its causes.
func (e Error) Is(target error) bool {
	if other, ok := target.(Error); ok {
		if e.msg != other.msg || len(e.cause) != len(other.cause) {
			return false
		}
		for i := range e.cause {
			if e.cause[i] != other.cause[i] {
				return false
			}
		}
		return true
	}
	for _, c := range e.cause {
		if c == target {
			return true
		}
	}
	return false
}
