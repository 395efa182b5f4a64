package tui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/tapcraft-io/ecsexec/internal/resolve"
	"github.com/tapcraft-io/ecsexec/pkg/types"
)

var containers = []string{"app", "envoy", "log-router"}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		if !ok {
			t.Fatalf("Update returned %T, want Model", next)
		}
	}
	return m
}

func TestModel_SelectsHighlightedOption(t *testing.T) {
	m := NewModel("Choose a container", containers)

	m = send(t, m,
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	if m.Aborted() {
		t.Fatal("Expected a choice, got abort")
	}
	if m.Choice() != "envoy" {
		t.Errorf("Expected envoy, got %q", m.Choice())
	}
}

func TestModel_EnterWithoutMovingPicksFirst(t *testing.T) {
	m := send(t, NewModel("Choose a container", containers), tea.KeyMsg{Type: tea.KeyEnter})

	if m.Choice() != "app" {
		t.Errorf("Expected app, got %q", m.Choice())
	}
}

func TestModel_Abort(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
	}{
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
		{"q", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := send(t, NewModel("Choose a container", containers), tt.key)

			if !m.Aborted() {
				t.Error("Expected picker to be aborted")
			}
			if m.Choice() != "" {
				t.Errorf("Expected no choice, got %q", m.Choice())
			}
			if m.View() != "" {
				t.Error("Expected empty view after quitting")
			}
		})
	}
}

func TestModel_TypingWhileFilteringDoesNotQuit(t *testing.T) {
	m := send(t, NewModel("Choose a container", containers),
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}},
	)

	if m.list.FilterState() != list.Filtering {
		t.Fatalf("Expected filtering state, got %v", m.list.FilterState())
	}
	if m.Aborted() {
		t.Error("Expected q to be typed into the filter, not quit")
	}

	// ctrl+c always gets out
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.Aborted() {
		t.Error("Expected ctrl+c to abort while filtering")
	}
}

func TestModel_View(t *testing.T) {
	m := NewModel("Choose a container", containers)
	view := m.View()

	if !strings.Contains(view, "Choose a container") {
		t.Error("Expected title in view")
	}
	for _, c := range containers {
		if !strings.Contains(view, c) {
			t.Errorf("Expected %s in view", c)
		}
	}
}

func TestFuzzyFilter(t *testing.T) {
	ranks := fuzzyFilter("env", containers)

	if len(ranks) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(ranks))
	}
	if ranks[0].Index != 1 {
		t.Errorf("Expected envoy (index 1), got index %d", ranks[0].Index)
	}
	if len(ranks[0].MatchedIndexes) != 3 {
		t.Errorf("Expected 3 matched runes, got %v", ranks[0].MatchedIndexes)
	}

	if got := fuzzyFilter("zzz", containers); len(got) != 0 {
		t.Errorf("Expected no matches, got %v", got)
	}
}

func TestChooser_Choose(t *testing.T) {
	var out bytes.Buffer
	c := NewChooser(WithInput(strings.NewReader("\r")), WithOutput(&out))

	choice, err := c.Choose(context.Background(), "Choose a container", containers)
	if err != nil {
		t.Fatalf("Choose failed: %v", err)
	}
	if choice != "app" {
		t.Errorf("Expected app, got %q", choice)
	}
}

func TestChooser_EmptyOptions(t *testing.T) {
	c := NewChooser(WithInput(strings.NewReader("")), WithOutput(&bytes.Buffer{}))

	_, err := c.Choose(context.Background(), "Choose a task", nil)
	if !errors.Is(err, resolve.ErrEmptyCandidates) {
		t.Errorf("Expected ErrEmptyCandidates, got %v", err)
	}
}

type staticLister struct {
	calls int
}

func (s *staticLister) ListProfiles(ctx context.Context) ([]string, error) {
	s.calls++
	return []string{"default", "prod"}, nil
}

func (s *staticLister) ListRegions(ctx context.Context, path types.ResourcePath) ([]string, error) {
	s.calls++
	return []string{"us-west-2"}, nil
}

func (s *staticLister) ListClusters(ctx context.Context, path types.ResourcePath) ([]string, error) {
	s.calls++
	return nil, errors.New("access denied")
}

func (s *staticLister) ListServices(ctx context.Context, path types.ResourcePath) ([]string, error) {
	s.calls++
	return nil, nil
}

func (s *staticLister) ListTasks(ctx context.Context, path types.ResourcePath) ([]string, error) {
	s.calls++
	return nil, nil
}

func (s *staticLister) ListContainers(ctx context.Context, path types.ResourcePath) ([]string, error) {
	s.calls++
	return nil, nil
}

func TestSpinningLister_PassesThrough(t *testing.T) {
	inner := &staticLister{}
	s := NewSpinningLister(inner, &bytes.Buffer{})
	ctx := context.Background()

	profiles, err := s.ListProfiles(ctx)
	if err != nil {
		t.Fatalf("ListProfiles failed: %v", err)
	}
	if strings.Join(profiles, ",") != "default,prod" {
		t.Errorf("Unexpected profiles %v", profiles)
	}

	_, err = s.ListClusters(ctx, types.ResourcePath{Profile: "prod", Region: "us-west-2"})
	if err == nil || err.Error() != "access denied" {
		t.Errorf("Expected inner error, got %v", err)
	}

	if inner.calls != 2 {
		t.Errorf("Expected 2 inner calls, got %d", inner.calls)
	}
}

func TestSpin_WaitsForAction(t *testing.T) {
	ran := false
	if err := Spin(context.Background(), &bytes.Buffer{}, "Working...", func() { ran = true }); err != nil {
		t.Fatalf("Spin failed: %v", err)
	}
	if !ran {
		t.Error("Expected action to have run")
	}
}
