// Package session holds the interactive selection state machine: the live
// query, the current ranked results, and the selection cursor. It has no
// terminal coupling; the TUI translates key events into calls on it.
package session

import (
	"github.com/mvp-joe/symseek/internal/rank"
	"github.com/mvp-joe/symseek/internal/symbols"
)

// State is the controller's lifecycle state.
type State int

const (
	// StateEditing accepts query edits and cursor movement.
	StateEditing State = iota
	// StateConfirmed is terminal and carries the chosen record.
	StateConfirmed
	// StateCancelled is terminal with no record.
	StateCancelled
)

// Controller owns the query, the ranked result set, and the cursor. All
// methods are called from the single event loop; no locking is needed.
type Controller struct {
	index   *symbols.Index
	query   []rune
	results []rank.Result
	cursor  int
	state   State
	chosen  symbols.Record
}

// New creates a controller in Editing state with the full index ranked
// under the empty query.
func New(index *symbols.Index) *Controller {
	c := &Controller{index: index}
	c.rerank()
	return c
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	return c.state
}

// Query returns the current query text.
func (c *Controller) Query() string {
	return string(c.query)
}

// Results returns the ranked results for the current query.
func (c *Controller) Results() []rank.Result {
	return c.results
}

// Cursor returns the selection index into the current results. It is only
// meaningful while results are non-empty.
func (c *Controller) Cursor() int {
	return c.cursor
}

// Chosen returns the record carried by a Confirmed controller.
func (c *Controller) Chosen() (symbols.Record, bool) {
	if c.state != StateConfirmed {
		return symbols.Record{}, false
	}
	return c.chosen, true
}

// InsertRune appends one character to the query and re-ranks.
func (c *Controller) InsertRune(r rune) {
	if c.state != StateEditing {
		return
	}
	c.query = append(c.query, r)
	c.rerank()
}

// Backspace removes the last query character and re-ranks. No-op on an
// empty query.
func (c *Controller) Backspace() {
	if c.state != StateEditing || len(c.query) == 0 {
		return
	}
	c.query = c.query[:len(c.query)-1]
	c.rerank()
}

// MoveUp shifts the cursor one result up, saturating at the top.
func (c *Controller) MoveUp() {
	if c.state != StateEditing {
		return
	}
	if c.cursor > 0 {
		c.cursor--
	}
}

// MoveDown shifts the cursor one result down, saturating at the bottom.
func (c *Controller) MoveDown() {
	if c.state != StateEditing {
		return
	}
	if c.cursor < len(c.results)-1 {
		c.cursor++
	}
}

// Confirm transitions to Confirmed carrying the record under the cursor.
// With no results it is a no-op and reports false.
func (c *Controller) Confirm() bool {
	if c.state != StateEditing || len(c.results) == 0 {
		return false
	}
	c.chosen = c.results[c.cursor].Record
	c.state = StateConfirmed
	return true
}

// Cancel transitions to Cancelled unconditionally.
func (c *Controller) Cancel() {
	if c.state != StateEditing {
		return
	}
	c.state = StateCancelled
}

// rerank recomputes the result set from scratch and clamps the cursor so
// it never points past the end. The cursor clamps to the last valid index
// when the set shrinks, and to zero when the set is empty.
func (c *Controller) rerank() {
	c.results = rank.Rank(c.index, string(c.query))

	if len(c.results) == 0 {
		c.cursor = 0
		return
	}
	if c.cursor >= len(c.results) {
		c.cursor = len(c.results) - 1
	}
	if c.cursor < 0 {
		c.cursor = 0
	}
}
