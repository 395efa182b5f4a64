package tui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tapcraft-io/ecsexec/internal/resolve"
	"github.com/tapcraft-io/ecsexec/pkg/types"
)

type (
	// spinModel shows a spinner until doneCh closes
	spinModel struct {
		title   string
		spinner spinner.Model
		doneCh  <-chan struct{}
	}

	spinDoneMsg struct{}
)

func newSpinModel(title string, doneCh <-chan struct{}) spinModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return spinModel{
		title:   title,
		spinner: s,
		doneCh:  doneCh,
	}
}

func (m spinModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForSpinDone(m.doneCh),
	)
}

func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case spinDoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m spinModel) View() string {
	select {
	case <-m.doneCh:
		return ""
	default:
	}
	return m.spinner.View() + " " + m.title
}

func waitForSpinDone(doneCh <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-doneCh
		return spinDoneMsg{}
	}
}

// Spin draws a spinner on out while action runs. It always waits for
// action to return, so results captured by action are safe to read after.
func Spin(ctx context.Context, out io.Writer, title string, action func()) error {
	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		action()
	}()

	p := tea.NewProgram(
		newSpinModel(title, doneCh),
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(out),
	)
	_, err := p.Run()

	<-doneCh
	return err
}

// SpinningLister shows a spinner while each listing is fetched
type SpinningLister struct {
	inner resolve.Lister
	out   io.Writer
}

// NewSpinningLister wraps inner, drawing on out
func NewSpinningLister(inner resolve.Lister, out io.Writer) *SpinningLister {
	return &SpinningLister{
		inner: inner,
		out:   out,
	}
}

func (s *SpinningLister) ListProfiles(ctx context.Context) ([]string, error) {
	return s.spin(ctx, "Loading profiles...", func() ([]string, error) {
		return s.inner.ListProfiles(ctx)
	})
}

func (s *SpinningLister) ListRegions(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return s.spin(ctx, "Loading regions...", func() ([]string, error) {
		return s.inner.ListRegions(ctx, path)
	})
}

func (s *SpinningLister) ListClusters(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return s.spin(ctx, "Loading clusters in "+path.Region+"...", func() ([]string, error) {
		return s.inner.ListClusters(ctx, path)
	})
}

func (s *SpinningLister) ListServices(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return s.spin(ctx, "Loading services...", func() ([]string, error) {
		return s.inner.ListServices(ctx, path)
	})
}

func (s *SpinningLister) ListTasks(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return s.spin(ctx, "Loading tasks for "+path.Service+"...", func() ([]string, error) {
		return s.inner.ListTasks(ctx, path)
	})
}

func (s *SpinningLister) ListContainers(ctx context.Context, path types.ResourcePath) ([]string, error) {
	return s.spin(ctx, "Loading containers...", func() ([]string, error) {
		return s.inner.ListContainers(ctx, path)
	})
}

func (s *SpinningLister) spin(ctx context.Context, title string, fetch func() ([]string, error)) ([]string, error) {
	var (
		items    []string
		fetchErr error
	)
	// Draw failures are ignored
	_ = Spin(ctx, s.out, title, func() {
		items, fetchErr = fetch()
	})
	return items, fetchErr
}
