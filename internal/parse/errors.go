package parse

import (
	"fmt"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/goldrun/internal/automaton"
	"github.com/dekarrin/goldrun/internal/golderr"
	"github.com/dekarrin/goldrun/internal/util"
)

// Frame is one entry of the driver's stack: the LALR state the driver was
// in when the frame was pushed, paired with the parse tree node built (or
// shifted) at that point (spec.md §4.G). StackSnapshot values observers
// receive are read-only copies of a []Frame.
type Frame struct {
	State int
	Tree  *Tree
}

// StackSnapshot is the read-only view of the driver's stack an Observer
// receives (spec.md §4.H). Mutating it has no effect on the driver.
type StackSnapshot []Frame

// ParserError is returned when no LR action exists for the current
// look-ahead (spec.md §4.G step 3, §7). LastToken is "(EOF)" when parsing
// ran out of input without an Accept. Expected lists the mangled names the
// driver would have accepted in this state instead, sorted for
// deterministic messages.
type ParserError struct {
	LastToken string
	Expected  []string
	Stack     StackSnapshot
}

func (e *ParserError) Error() string {
	msg := fmt.Sprintf("no action for look-ahead %s (stack depth %d)", e.LastToken, len(e.Stack))
	if len(e.Expected) > 0 {
		msg += fmt.Sprintf("; expected %s instead", util.MakeTextList(e.Expected))
	}
	return rosed.Edit(msg).Wrap(100).String()
}

// Verbose renders a table of the full stack at the point of failure,
// grounded on the teacher's LALR table-dump convention.
func (e *ParserError) Verbose() string {
	data := [][]string{{"depth", "state", "symbol", "span"}}
	for i, f := range e.Stack {
		sym := "(none)"
		span := "-"
		if f.Tree != nil && f.Tree.Symbol != nil {
			sym = f.Tree.Symbol.Mangled
			span = fmt.Sprintf("[%d,%d]", f.Tree.Start, f.Tree.End)
		}
		data = append(data, []string{fmt.Sprintf("%d", i), fmt.Sprintf("%d", f.State), sym, span})
	}

	return rosed.Edit(e.Error() + "\n").
		InsertTableOpts(0, data, 100, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}

// stateMismatch and gotoNotFound build the driver's two fatal bug/
// corrupt-table conditions (spec.md §7), as golderr.Error values wrapping
// the matching sentinel so callers can test them with errors.Is.
func stateMismatch(rule *automaton.Rule, have, want int) golderr.Error {
	return golderr.New(fmt.Sprintf("reducing rule %d: stack has %d frames, need %d", rule.Index, have, want), golderr.ErrStateMismatch)
}

func gotoNotFound(state int, nonTerminal string) golderr.Error {
	return golderr.New(fmt.Sprintf("no goto entry for %s in state %d", nonTerminal, state), golderr.ErrGotoNotFound)
}
