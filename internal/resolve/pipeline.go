// Package resolve narrows the ECS resource hierarchy one level at a time,
// from credential profile down to a single container.
package resolve

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tapcraft-io/ecsexec/pkg/types"
)

// Lister returns the identifiers available at one level of the hierarchy,
// given the levels above it.
type Lister interface {
	ListProfiles(ctx context.Context) ([]string, error)
	ListRegions(ctx context.Context, path types.ResourcePath) ([]string, error)
	ListClusters(ctx context.Context, path types.ResourcePath) ([]string, error)
	ListServices(ctx context.Context, path types.ResourcePath) ([]string, error)
	ListTasks(ctx context.Context, path types.ResourcePath) ([]string, error)
	ListContainers(ctx context.Context, path types.ResourcePath) ([]string, error)
}

// Prompter asks a human to pick exactly one of options.
// It is only called with two or more options.
type Prompter interface {
	Choose(ctx context.Context, title string, options []string) (string, error)
}

// FetchFunc lists the candidates for a step given the resolved prefix
type FetchFunc func(ctx context.Context, l Lister, path types.ResourcePath) ([]string, error)

// Step is one fixed stage of the pipeline
type Step struct {
	Level types.Level
	Title string
	Fetch FetchFunc
}

// DefaultSteps returns the six steps in resolution order
func DefaultSteps() []Step {
	return []Step{
		{
			Level: types.LevelProfile,
			Title: "Choose an AWS CLI profile",
			Fetch: func(ctx context.Context, l Lister, _ types.ResourcePath) ([]string, error) {
				return l.ListProfiles(ctx)
			},
		},
		{
			Level: types.LevelRegion,
			Title: "Choose a region",
			Fetch: func(ctx context.Context, l Lister, p types.ResourcePath) ([]string, error) {
				return l.ListRegions(ctx, p)
			},
		},
		{
			Level: types.LevelCluster,
			Title: "Choose a cluster",
			Fetch: func(ctx context.Context, l Lister, p types.ResourcePath) ([]string, error) {
				return l.ListClusters(ctx, p)
			},
		},
		{
			Level: types.LevelService,
			Title: "Choose a service",
			Fetch: func(ctx context.Context, l Lister, p types.ResourcePath) ([]string, error) {
				return l.ListServices(ctx, p)
			},
		},
		{
			Level: types.LevelTask,
			Title: "Choose a task",
			Fetch: func(ctx context.Context, l Lister, p types.ResourcePath) ([]string, error) {
				return l.ListTasks(ctx, p)
			},
		},
		{
			Level: types.LevelContainer,
			Title: "Choose a container",
			Fetch: func(ctx context.Context, l Lister, p types.ResourcePath) ([]string, error) {
				return l.ListContainers(ctx, p)
			},
		},
	}
}

// overridable lists the levels a caller may pre-fill
var overridable = []types.Level{types.LevelProfile, types.LevelRegion, types.LevelCluster}

// Pipeline resolves a ResourcePath top-down
type Pipeline struct {
	steps    []Step
	lister   Lister
	prompter Prompter
	logger   *log.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger used for per-step diagnostics
func WithLogger(logger *log.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithSteps replaces the default steps
func WithSteps(steps []Step) Option {
	return func(p *Pipeline) {
		p.steps = steps
	}
}

// New creates a pipeline over the given collaborators
func New(lister Lister, prompter Prompter, opts ...Option) *Pipeline {
	p := &Pipeline{
		steps:    DefaultSteps(),
		lister:   lister,
		prompter: prompter,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Resolve binds every level of the path. Profile, region and cluster may be
// supplied in overrides, which skips their steps; any other override field
// is ignored.
func (p *Pipeline) Resolve(ctx context.Context, overrides types.ResourcePath) (types.ResourcePath, error) {
	var path types.ResourcePath
	for _, l := range overridable {
		path = path.With(l, overrides.Get(l))
	}

	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return types.ResourcePath{}, err
		}

		if v := path.Get(step.Level); v != "" {
			p.logger.Debug("using supplied value", "level", step.Level, "value", v)
			continue
		}

		value, err := p.resolveStep(ctx, step, path)
		if err != nil {
			return types.ResourcePath{}, err
		}
		path = path.With(step.Level, value)
		p.logger.Debug("resolved", "level", step.Level, "value", value, "state", Stage(path))
	}

	return path, nil
}

func (p *Pipeline) resolveStep(ctx context.Context, step Step, path types.ResourcePath) (string, error) {
	candidates, err := step.Fetch(ctx, p.lister, path)
	if err != nil {
		return "", fmt.Errorf("list %ss: %w", step.Level, err)
	}
	// A blank identifier can never be bound
	candidates = slices.DeleteFunc(slices.Clone(candidates), func(c string) bool {
		return strings.TrimSpace(c) == ""
	})

	switch len(candidates) {
	case 0:
		return "", &EmptyCandidatesError{Level: step.Level, Path: path}
	case 1:
		// Don't ask redundant questions
		p.logger.Debug("single candidate", "level", step.Level)
		return candidates[0], nil
	}

	choice, err := p.prompter.Choose(ctx, step.Title, candidates)
	if err != nil {
		return "", fmt.Errorf("choose %s: %w", step.Level, err)
	}
	if !slices.Contains(candidates, choice) {
		return "", fmt.Errorf("choose %s: %q: %w", step.Level, choice, ErrInvalidChoice)
	}
	return choice, nil
}

// Stage names the state a path has reached
func Stage(path types.ResourcePath) string {
	missing := path.Missing()
	if len(missing) == 0 {
		return "Complete"
	}
	first := missing[0]
	if first == types.LevelProfile {
		return "Unresolved"
	}
	prev := first - 1
	return stateNames[prev]
}

var stateNames = map[types.Level]string{
	types.LevelProfile:   "ProfileResolved",
	types.LevelRegion:    "RegionResolved",
	types.LevelCluster:   "ClusterResolved",
	types.LevelService:   "ServiceResolved",
	types.LevelTask:      "TaskResolved",
	types.LevelContainer: "ContainerResolved",
}
