package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Choose    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Choose: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "q"),
		key.WithHelp("esc", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
	),
}

// Update handles all state updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		if h := GetMaxHeight(msg.Height); h < m.list.Height() {
			m.list.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		if model, cmd, handled := m.handleKeyPress(msg); handled {
			return model, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeyPress handles the keys the picker owns. Everything else,
// including all typing while the filter is open, goes to the list.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if key.Matches(msg, keys.ForceQuit) {
		m.aborted = true
		m.quitting = true
		return m, tea.Quit, true
	}

	switch m.list.FilterState() {
	case list.Filtering:
		return m, nil, false
	case list.FilterApplied:
		// First esc clears the filter
		if msg.String() == "esc" {
			return m, nil, false
		}
	}

	switch {
	case key.Matches(msg, keys.Quit):
		m.aborted = true
		m.quitting = true
		return m, tea.Quit, true

	case key.Matches(msg, keys.Choose):
		item, ok := m.list.SelectedItem().(option)
		if !ok {
			return m, nil, true
		}
		m.choice = string(item)
		m.quitting = true
		return m, tea.Quit, true
	}

	return m, nil, false
}
