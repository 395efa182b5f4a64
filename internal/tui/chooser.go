// Package tui renders the interactive pickers and progress indicators.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tapcraft-io/ecsexec/internal/resolve"
)

// Chooser prompts on the terminal, one picker per question
type Chooser struct {
	in  io.Reader
	out io.Writer
}

// ChooserOption configures a Chooser
type ChooserOption func(*Chooser)

// WithInput sets where key presses are read from
func WithInput(r io.Reader) ChooserOption {
	return func(c *Chooser) {
		c.in = r
	}
}

// WithOutput sets where the picker is drawn. Stdout is left alone so the
// session that follows owns it.
func WithOutput(w io.Writer) ChooserOption {
	return func(c *Chooser) {
		c.out = w
	}
}

// NewChooser creates a chooser reading stdin and drawing on stderr
func NewChooser(opts ...ChooserOption) *Chooser {
	c := &Chooser{
		in:  os.Stdin,
		out: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Choose shows options under title and returns the one picked
func (c *Chooser) Choose(ctx context.Context, title string, options []string) (string, error) {
	if len(options) == 0 {
		return "", resolve.ErrEmptyCandidates
	}

	p := tea.NewProgram(
		NewModel(title, options),
		tea.WithContext(ctx),
		tea.WithInput(c.in),
		tea.WithOutput(c.out),
	)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("run picker: %w", err)
	}

	m, ok := final.(Model)
	if !ok || m.Aborted() || m.Choice() == "" {
		return "", resolve.ErrPromptAborted
	}
	return m.Choice(), nil
}
