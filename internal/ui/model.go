// Package ui renders the launcher strip: the input line followed by the
// ranked matches, highlighted entry in the accent color. All state
// transitions go through the selection machine; the model only maps
// terminal events to machine events and draws the result.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"dmitri/internal/selection"
)

// Outcome is how the launcher session ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAborted
	OutcomeCommitted
)

// Model represents the UI state
type Model struct {
	machine *selection.Machine
	state   selection.State
	styles  *Styles
	keys    KeyMap
	input   textinput.Model
	width   int

	outcome    Outcome
	invocation string
}

// NewModel creates a new UI model over a ready selection machine.
func NewModel(machine *selection.Machine, styles *Styles) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Focus()

	return Model{
		machine: machine,
		state:   machine.Initial(),
		styles:  styles,
		keys:    DefaultKeyMap(),
		input:   ti,
		width:   80,
	}
}

// Outcome reports how the session ended, once the program has quit.
func (m Model) Outcome() Outcome {
	return m.outcome
}

// Invocation returns the committed invocation, valid for
// OutcomeCommitted only.
func (m Model) Invocation() string {
	return m.invocation
}

// State exposes the current selection state, for tests.
func (m Model) State() selection.State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Everything else (cursor blink) belongs to the text input.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Abort):
		return m.apply(selection.Event{Kind: selection.EventEscape})

	case key.Matches(msg, m.keys.Commit):
		return m.apply(selection.Event{Kind: selection.EventEnter})

	case key.Matches(msg, m.keys.NextMatch):
		return m.apply(selection.Event{Kind: selection.EventTab})

	case key.Matches(msg, m.keys.PrevMatch):
		return m.apply(selection.Event{Kind: selection.EventShiftTab})

	case key.Matches(msg, m.keys.Erase):
		return m.apply(selection.Event{Kind: selection.EventBackspace})
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		runes := msg.Runes
		if msg.Type == tea.KeySpace {
			runes = []rune{' '}
		}
		var model tea.Model = m
		var cmd tea.Cmd
		for _, r := range runes {
			model, cmd = model.(Model).apply(selection.Event{Kind: selection.EventRune, Rune: r})
		}
		return model, cmd
	}

	return m, nil
}

// apply feeds one event to the machine and reacts to its signal. The
// returned model always carries a state consistent with the query.
func (m Model) apply(ev selection.Event) (tea.Model, tea.Cmd) {
	st, sig := m.machine.Handle(m.state, ev)
	m.state = st

	// Keep the display input in sync with the authoritative query.
	m.input.SetValue(st.Query)
	m.input.CursorEnd()

	switch sig {
	case selection.SignalAbort:
		m.outcome = OutcomeAborted
		return m, tea.Quit
	case selection.SignalCommit:
		m.outcome = OutcomeCommitted
		m.invocation = st.Invocation
		return m, tea.Quit
	}

	return m, nil
}

// View draws the single launcher strip: input on the left, ranked
// matches to the right, cut off at the window edge.
func (m Model) View() string {
	var b strings.Builder

	inputStyle := m.styles.Input
	if m.state.TabMoved() {
		// Enter will pick the highlighted match, not the typed text.
		inputStyle = m.styles.InputDim
	}
	b.WriteString(m.styles.Prompt.Render("> "))
	b.WriteString(inputStyle.Render(m.state.Query))
	b.WriteString(m.input.Cursor.View())

	used := 2 + len([]rune(m.state.Query)) + 1
	for i, res := range m.state.Ranked {
		name := res.Candidate.Name
		used += 1 + len([]rune(name))
		if m.width > 0 && used > m.width {
			break
		}
		b.WriteString(" ")
		if i == m.state.Highlighted && m.state.TabMoved() {
			b.WriteString(m.renderHighlighted(name, res.Positions))
		} else {
			b.WriteString(m.styles.MatchDim.Render(name))
		}
	}

	return m.styles.Strip.Render(b.String())
}

// renderHighlighted draws the selected candidate with its matched runes
// underlined.
func (m Model) renderHighlighted(name string, positions []int) string {
	matched := make(map[int]bool, len(positions))
	for _, p := range positions {
		matched[p] = true
	}

	var b strings.Builder
	for i, r := range []rune(name) {
		if matched[i] {
			b.WriteString(m.styles.Matched.Render(string(r)))
		} else {
			b.WriteString(m.styles.Match.Render(string(r)))
		}
	}
	return b.String()
}
