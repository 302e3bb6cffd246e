package parse

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/dekarrin/goldrun/internal/automaton"
	"github.com/dekarrin/goldrun/internal/config"
	"github.com/dekarrin/goldrun/internal/golderr"
	"github.com/dekarrin/goldrun/internal/grammar"
	"github.com/dekarrin/goldrun/internal/lex"
	"github.com/dekarrin/goldrun/internal/symbols"
	"github.com/dekarrin/goldrun/internal/util"
)

// TraceFunc receives a free-text debugging line for every stack push/pop
// and action taken by the driver, independent of the three semantic
// Observer hooks (SPEC_FULL.md §10.3). Each line is prefixed with the
// correlation ID of the ParseString call that produced it.
type TraceFunc func(line string)

// Driver runs the LALR(1) shift-reduce loop (spec.md §4.G) against a
// linked grammar.Tables.
type Driver struct {
	Tables  *grammar.Tables
	Options config.EngineOptions
	Trace   TraceFunc

	eof *symbols.Symbol
}

// NewDriver builds a Driver for tables, using opts for its defensive
// limits. It locates the grammar's Eof symbol once up front; a grammar
// with no Eof symbol is a linking bug, and ParseString will return a
// golderr.ErrUnresolvedIndex-wrapped error rather than panic.
func NewDriver(tables *grammar.Tables, opts config.EngineOptions) *Driver {
	var eof *symbols.Symbol
	for _, s := range tables.Symbols {
		if s.Kind == symbols.Eof {
			eof = s
			break
		}
	}
	return &Driver{Tables: tables, Options: opts, eof: eof}
}

func (d *Driver) trace(traceID string, format string, args ...interface{}) {
	if d.Trace == nil {
		return
	}
	d.Trace(traceID + ": " + fmt.Sprintf(format, args...))
}

// ParseString runs the shift-reduce loop over input from byte offset 0,
// invoking observer's hooks as defined in spec.md §4.H, and returns the
// resulting parse tree rooted at the grammar's start symbol.
func (d *Driver) ParseString(input []byte, observer *Observer) (*Tree, error) {
	if d.eof == nil {
		return nil, golderr.New("grammar has no Eof symbol", golderr.ErrUnresolvedIndex)
	}

	traceID := uuid.NewString()

	lx := lex.NewLexer(d.Tables.DFA, d.eof, input)
	ge := lex.NewGroupEngine(lx, d.Options.MaxGroupDepth)

	sentinel := &Tree{
		Symbol: symbols.NewSymbol("INITIAL_STATE", symbols.Error),
		Start:  0,
		End:    0,
	}

	var stack util.Stack[Frame]
	stack.Push(Frame{State: d.Tables.LALR.Start, Tree: sentinel})
	d.trace(traceID, "push initial state %d", d.Tables.LALR.Start)

	pos := 0
	var lookAhead *lex.Token

	for {
		if lookAhead == nil {
			tok, newPos, err := d.nextSignificantToken(lx, ge, observer, pos)
			if err != nil {
				return nil, err
			}
			pos = newPos
			lookAhead = &tok
			d.trace(traceID, "look-ahead: %s", tok.String())
		}

		top := stack.Peek()
		lookAheadName := lookAheadKey(*lookAhead)

		action, ok := d.Tables.LALR.Action(top.State, lookAheadName)
		if !ok {
			return nil, &ParserError{
				LastToken: lookAheadName,
				Expected:  expectedAt(d.Tables.LALR, top.State),
				Stack:     snapshot(stack.Of),
			}
		}

		switch action.Kind {
		case automaton.Accept:
			result := stack.Peek().Tree
			d.trace(traceID, "accept")
			return result, nil

		case automaton.Shift:
			leaf := &Tree{
				Symbol: lookAhead.Symbol,
				Token:  lookAhead,
				Start:  lookAhead.Start,
				End:    lookAhead.End,
			}
			stack.Push(Frame{State: action.Target, Tree: leaf})
			d.trace(traceID, "shift to state %d on %s", action.Target, lookAheadName)
			observer.notifyShift(top.State, *lookAhead, snapshot(stack.Of))
			lookAhead = nil

		case automaton.Reduce:
			rule := action.Rule
			n := len(rule.Consumes)
			if stack.Len() < n {
				return nil, stateMismatch(rule, stack.Len(), n)
			}

			children := make([]*Tree, n)
			for i := n - 1; i >= 0; i-- {
				children[i] = stack.Pop().Tree
			}

			node := &Tree{Symbol: rule.Produces, Children: children}
			if n == 0 {
				afterPopEnd := stack.Peek().Tree.End
				node.Start, node.End = afterPopEnd, afterPopEnd
			} else {
				node.Start = children[0].Start
				node.End = children[n-1].End
			}

			newTop := stack.Peek()
			gotoAction, ok := d.Tables.LALR.GotoState(newTop.State, rule.Produces.Mangled)
			if !ok {
				return nil, gotoNotFound(newTop.State, rule.Produces.Mangled)
			}

			stack.Push(Frame{State: gotoAction.Target, Tree: node})
			d.trace(traceID, "reduce rule %d -> %s, goto state %d", rule.Index, rule.Produces.Mangled, gotoAction.Target)
			observer.notifyReduce(top.State, *lookAhead, snapshot(stack.Of))

		default:
			return nil, golderr.New("unexpected LALR action kind", golderr.ErrUnknownActionType)
		}
	}
}

func lookAheadKey(tok lex.Token) string {
	return tok.Symbol.Mangled
}

func snapshot(stack []Frame) StackSnapshot {
	cp := make(StackSnapshot, len(stack))
	copy(cp, stack)
	return cp
}

// expectedAt lists the mangled look-ahead names state has an action for,
// sorted for deterministic error messages.
func expectedAt(lr *automaton.LR, state int) []string {
	st := lr.State(state)
	names := make([]string, 0, len(st.Edges))
	for name := range st.Edges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// nextSignificantToken pulls tokens from the lexer/group engine pair,
// notifying the observer of and dropping skippables, until it has a
// token the LALR table can act on (spec.md §4.G step 1).
func (d *Driver) nextSignificantToken(lx *lex.Lexer, ge *lex.GroupEngine, observer *Observer, pos int) (lex.Token, int, error) {
	for {
		tok, err := lx.Next(pos)
		if err != nil {
			return lex.Token{}, 0, err
		}

		if tok.Symbol != nil && tok.Symbol.Kind == symbols.GroupStart {
			synth, err := ge.Consume(tok)
			if err != nil {
				return lex.Token{}, 0, err
			}
			observer.notifyToken(synth)
			pos = synth.End
			if synth.Symbol.Kind == symbols.Skippable {
				continue
			}
			return synth, pos, nil
		}

		observer.notifyToken(tok)
		pos = tok.End
		if tok.Symbol.Kind == symbols.Skippable {
			continue
		}
		return tok, pos, nil
	}
}
