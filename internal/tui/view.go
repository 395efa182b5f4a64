package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
)

// View renders the picker
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(RenderTitle("ecs exec", m.title))
	b.WriteString("\n")
	b.WriteString(m.list.View())
	b.WriteString("\n")

	if m.list.FilterState() == list.Filtering {
		b.WriteString(RenderHelp("enter apply filter  esc clear"))
	} else {
		b.WriteString(RenderHelp("↑/↓ move  / filter  enter select  esc quit"))
	}

	return b.String()
}
