// Package selection owns the launcher's keystroke-driven state: the
// query text, the ranked candidate list and the highlighted entry. Each
// handled event produces a whole new state value; the event loop holds
// the only live reference, so no partial updates can leak to the
// renderer.
package selection

import (
	"dmitri/internal/rank"
	"dmitri/internal/store"
)

// EventKind identifies a keyboard event.
type EventKind int

const (
	EventRune EventKind = iota
	EventBackspace
	EventTab
	EventShiftTab
	EventEnter
	EventEscape
)

// Event is one keyboard event fed to the machine.
type Event struct {
	Kind EventKind
	Rune rune // set for EventRune only
}

// Signal is the machine's instruction to the caller after an event.
// The zero value means "keep going".
type Signal int

const (
	SignalNone Signal = iota
	// SignalAbort: terminate with no action taken.
	SignalAbort
	// SignalCommit: spawn State.Invocation and terminate.
	SignalCommit
)

// State is the render-ready launcher state. It is replaced wholesale on
// every event; the renderer must never mutate it.
type State struct {
	Query       string
	Ranked      rank.RankedList
	Highlighted int // 0 <= Highlighted < len(Ranked) whenever Ranked is non-empty
	TabCycle    int

	// Invocation carries the commit value once SignalCommit is returned.
	Invocation string

	tabMoved bool // Tab or Shift+Tab used since the last query change
}

// TabMoved reports whether the cursor was moved with Tab or Shift+Tab
// since the last query change. The renderer uses it to decide whether
// the input line or the highlighted match carries the accent color.
func (s State) TabMoved() bool {
	return s.tabMoved
}

// Machine turns keyboard events into successive states. It holds the
// immutable collaborators only; all mutable state travels in State.
type Machine struct {
	store  *store.CandidateStore
	weight float64
}

// NewMachine creates a machine over the given store. weight is the
// configured subtext boost passed through to the ranking engine.
func NewMachine(s *store.CandidateStore, weight float64) *Machine {
	return &Machine{store: s, weight: weight}
}

// Initial returns the state before any keystroke: empty query, the full
// store in enumeration order, first entry highlighted.
func (m *Machine) Initial() State {
	return State{Ranked: rank.Rank("", m.store, m.weight)}
}

// Handle consumes one keyboard event and returns the next state plus a
// signal for the caller. Recomputation never fails: an empty ranked
// list is a valid state, not an error.
func (m *Machine) Handle(st State, ev Event) (State, Signal) {
	switch ev.Kind {
	case EventRune:
		return m.requery(st, st.Query+string(ev.Rune)), SignalNone

	case EventBackspace:
		if st.Query == "" {
			return st, SignalNone
		}
		q := []rune(st.Query)
		return m.requery(st, string(q[:len(q)-1])), SignalNone

	case EventTab:
		return m.cycle(st, 1), SignalNone

	case EventShiftTab:
		return m.cycle(st, -1), SignalNone

	case EventEscape:
		return st, SignalAbort

	case EventEnter:
		st.Invocation = m.commitValue(st)
		return st, SignalCommit
	}

	return st, SignalNone
}

// requery replaces the query text, re-ranks and resets the cursor to
// the best match. The returned state is always consistent with the new
// query; no stale list survives a query mutation.
func (m *Machine) requery(st State, query string) State {
	return State{
		Query:       query,
		Ranked:      rank.Rank(query, m.store, m.weight),
		Highlighted: 0,
		TabCycle:    0,
	}
}

// cycle steps the tab index through the ranked list, wrapping at both
// ends. The query text is untouched.
func (m *Machine) cycle(st State, dir int) State {
	n := len(st.Ranked)
	if n == 0 {
		return st
	}
	st.TabCycle = (st.TabCycle + dir + n) % n
	st.Highlighted = st.TabCycle
	st.tabMoved = true
	return st
}

// commitValue resolves what Enter should launch. The highlighted
// candidate wins when the user cycled to it or typed an exact name;
// otherwise the literal query runs as-is, so commands outside the
// candidate list stay reachable.
func (m *Machine) commitValue(st State) string {
	if len(st.Ranked) > 0 {
		_, exact := m.store.FindByName(st.Query)
		if st.tabMoved || exact {
			return st.Ranked[st.Highlighted].Candidate.Invocation
		}
	}
	return st.Query
}
