package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

const (
	defaultWidth     = 60
	maxVisibleHeight = 20
)

// Model is a single-choice picker over a list of strings
type Model struct {
	list  list.Model
	title string

	// Result
	choice   string
	aborted  bool
	quitting bool
}

// option adapts a plain string to list.Item
type option string

func (o option) FilterValue() string {
	return string(o)
}

// NewModel creates a picker for options
func NewModel(title string, options []string) Model {
	items := make([]list.Item, len(options))
	for i, opt := range options {
		items[i] = option(opt)
	}

	height := len(options) + 4 // filter bar and pagination
	if height > maxVisibleHeight {
		height = maxVisibleHeight
	}

	l := list.New(items, optionDelegate{}, defaultWidth, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Filter = fuzzyFilter
	l.FilterInput.Prompt = "filter: "
	l.FilterInput.PromptStyle = selectedStyle
	l.FilterInput.Cursor.Style = selectedStyle

	// Quitting without a choice is handled by the picker itself
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	return Model{
		list:  l,
		title: title,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Choice returns the selected option, empty until one is picked
func (m Model) Choice() string {
	return m.choice
}

// Aborted reports whether the picker was dismissed without a choice
func (m Model) Aborted() bool {
	return m.aborted
}

// fuzzyFilter ranks targets by fuzzy score, best first
func fuzzyFilter(term string, targets []string) []list.Rank {
	matches := fuzzy.Find(term, targets)
	sort.Stable(matches)

	ranks := make([]list.Rank, len(matches))
	for i, match := range matches {
		ranks[i] = list.Rank{
			Index:          match.Index,
			MatchedIndexes: match.MatchedIndexes,
		}
	}
	return ranks
}

// optionDelegate renders one option per line with fuzzy matches highlighted
type optionDelegate struct{}

func (d optionDelegate) Height() int                             { return 1 }
func (d optionDelegate) Spacing() int                            { return 0 }
func (d optionDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d optionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	opt, ok := item.(option)
	if !ok {
		return
	}

	text := string(opt)
	base := normalStyle
	cursor := "  "
	if index == m.Index() {
		base = selectedStyle
		cursor = selectedStyle.Render("❯ ")
	}

	var rendered string
	if matches := m.MatchesForItem(index); len(matches) > 0 {
		rendered = lipgloss.StyleRunes(text, matches, matchStyle.Inherit(base), base)
	} else {
		rendered = base.Render(text)
	}

	fmt.Fprint(w, cursor+strings.TrimRight(rendered, " "))
}
