// Package session opens an interactive execute-command session into an ECS
// container once the full resource path is known.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/tapcraft-io/ecsexec/pkg/types"
)

// DefaultRemoteCommand is the shell started inside the container
const DefaultRemoteCommand = "/bin/bash"

var (
	// ErrIncompletePath is returned when a launch is attempted before every level is bound
	ErrIncompletePath = errors.New("resource path is incomplete")

	// ErrLaunch is wrapped by LaunchError
	ErrLaunch = errors.New("could not start session")
)

// LaunchError means the external process never ran. It is distinct from a
// session that ran and exited non-zero.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() []error {
	return []error{ErrLaunch, e.Err}
}

// Runner invokes an external interactive process with the operator's
// terminal attached and returns its exit status.
type Runner interface {
	Run(ctx context.Context, name string, args []string) (int, error)
}

// Launcher builds and runs the aws ecs execute-command invocation
type Launcher struct {
	runner        Runner
	awsPath       string
	remoteCommand string
	logger        *log.Logger
}

// Option configures a Launcher
type Option func(*Launcher)

// WithAWSPath sets the aws binary
func WithAWSPath(path string) Option {
	return func(l *Launcher) {
		if path != "" {
			l.awsPath = path
		}
	}
}

// WithRemoteCommand sets the command run inside the container
func WithRemoteCommand(cmd string) Option {
	return func(l *Launcher) {
		if cmd != "" {
			l.remoteCommand = cmd
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLauncher creates a launcher that runs sessions through runner
func NewLauncher(runner Runner, opts ...Option) *Launcher {
	l := &Launcher{
		runner:        runner,
		awsPath:       "aws",
		remoteCommand: DefaultRemoteCommand,
		logger:        log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BuildArgs returns the aws CLI arguments for an interactive session into
// the container named by path.
func BuildArgs(path types.ResourcePath, remoteCommand string) ([]string, error) {
	if missing := path.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %v", ErrIncompletePath, missing)
	}
	if remoteCommand == "" {
		remoteCommand = DefaultRemoteCommand
	}

	return []string{
		"--profile", path.Profile,
		"--region", path.Region,
		"ecs", "execute-command",
		"--cluster", path.Cluster,
		"--task", path.Task,
		"--container", path.Container,
		"--command", remoteCommand,
		"--interactive",
	}, nil
}

// Launch runs the session once and forwards its exit status unchanged
func (l *Launcher) Launch(ctx context.Context, path types.ResourcePath) (int, error) {
	args, err := BuildArgs(path, l.remoteCommand)
	if err != nil {
		return 0, err
	}

	l.logger.Info("starting session", "cluster", path.Cluster, "task", path.Task, "container", path.Container)
	code, err := l.runner.Run(ctx, l.awsPath, args)
	if err != nil {
		var launchErr *LaunchError
		if errors.As(err, &launchErr) {
			return 0, err
		}
		return 0, &LaunchError{Command: l.awsPath, Err: err}
	}

	l.logger.Debug("session ended", "exit_code", code)
	return code, nil
}
