// Package tui renders a running picker.Widget as an interactive terminal
// country search.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hightemp/countrypick/internal/countries"
	"github.com/hightemp/countrypick/internal/picker"
)

type (
	stateMsg  picker.State
	closedMsg struct{}
)

func waitForState(updates <-chan picker.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-updates
		if !ok {
			return closedMsg{}
		}
		return stateMsg(s)
	}
}

// Model is the bubbletea model of the picker.
type Model struct {
	widget *picker.Widget
	input  textinput.Model
	state  picker.State
	cursor int
	styles Styles

	chosen  *countries.Country
	aborted bool
	err     error
}

// New creates a model over w. w.Run must be running or about to run.
func New(w *picker.Widget) Model {
	ti := textinput.New()
	ti.Placeholder = "Start typing a country name..."
	ti.Prompt = "> "
	ti.CharLimit = 64
	ti.Width = 40
	ti.Focus()

	return Model{
		widget: w,
		input:  ti,
		styles: DefaultStyles(),
	}
}

// Chosen returns the committed country, if any.
func (m Model) Chosen() (countries.Country, bool) {
	if m.chosen == nil {
		return countries.Country{}, false
	}
	return *m.chosen, true
}

// Aborted reports whether the user left without choosing.
func (m Model) Aborted() bool {
	return m.aborted
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

// Init starts the cursor blink and the snapshot subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitForState(m.widget.Updates()))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.state = picker.State(msg)
		m.clampCursor()
		return m, waitForState(m.widget.Updates())

	case closedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyUp, tea.KeyCtrlP, tea.KeyShiftTab:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown, tea.KeyCtrlN, tea.KeyTab:
			if m.cursor < len(m.state.Suggestions)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyEnter:
			return m.commit()
		}
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != prev {
		if err := m.widget.Input(value); err != nil {
			m.err = err
			return m, tea.Quit
		}
	}
	return m, cmd
}

func (m Model) commit() (tea.Model, tea.Cmd) {
	if len(m.state.Suggestions) == 0 {
		return m, nil
	}
	entry := m.state.Suggestions[m.cursor]
	if err := m.widget.Select(entry); err != nil {
		m.err = err
		return m, tea.Quit
	}

	// Written to the field directly; never forwarded as input.
	m.input.SetValue(entry.Name)
	m.input.CursorEnd()
	m.state.Suggestions = nil
	m.cursor = 0
	m.chosen = &entry
	return m, tea.Quit
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.state.Suggestions) {
		m.cursor = len(m.state.Suggestions) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Select a country"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.chosen != nil {
		b.WriteString(m.styles.Selected.Render(fmt.Sprintf("Selected %s (%s)", m.chosen.Name, m.chosen.CountryCode)))
		b.WriteString("\n")
		return b.String()
	}

	if !m.state.Loaded {
		b.WriteString(m.styles.Hint.Render("Loading countries..."))
		b.WriteString("\n")
	}

	for i, c := range m.state.Suggestions {
		line := fmt.Sprintf("%s %s", c.Name, m.styles.Code.Render(c.CountryCode))
		if i == m.cursor {
			b.WriteString(m.styles.Cursor.Render("> ") + line)
		} else {
			b.WriteString(m.styles.Item.Render(line))
		}
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(m.styles.Error.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Hint.Render("↑/↓ move • enter select • esc quit"))
	b.WriteString("\n")
	return b.String()
}
