package parse

import "github.com/dekarrin/goldrun/internal/lex"

// Observer is the set of optional callbacks the driver invokes at the
// points defined by spec.md §4.H. Any field may be left nil.
type Observer struct {
	// OnToken fires after every lexed token, including skippables and
	// group-synthesized tokens, before the driver decides what to do
	// with it.
	OnToken func(tok lex.Token)

	// OnShift fires after a successful shift decision but before the
	// look-ahead is cleared.
	OnShift func(originState int, lookAhead lex.Token, stack StackSnapshot)

	// OnReduce fires after a successful reduce has modified the stack.
	OnReduce func(originState int, lookAhead lex.Token, stack StackSnapshot)
}

func (o *Observer) notifyToken(tok lex.Token) {
	if o != nil && o.OnToken != nil {
		o.OnToken(tok)
	}
}

func (o *Observer) notifyShift(originState int, lookAhead lex.Token, stack StackSnapshot) {
	if o != nil && o.OnShift != nil {
		o.OnShift(originState, lookAhead, stack)
	}
}

func (o *Observer) notifyReduce(originState int, lookAhead lex.Token, stack StackSnapshot) {
	if o != nil && o.OnReduce != nil {
		o.OnReduce(originState, lookAhead, stack)
	}
}
