package aws

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrCommandFailed is wrapped by every CommandError
var ErrCommandFailed = errors.New("aws command failed")

// Executor executes aws CLI commands
type Executor struct {
	awsPath string
}

// CommandError is returned when an aws CLI call fails to start or exits non-zero
type CommandError struct {
	Args     []string
	Stderr   string
	ExitCode int
	Err      error
}

func (e *CommandError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	return fmt.Sprintf("aws %s: %s", strings.Join(e.Args, " "), msg)
}

func (e *CommandError) Unwrap() []error {
	return []error{ErrCommandFailed, e.Err}
}

// NewExecutor locates the aws binary. name may be a bare command or a path.
func NewExecutor(name string) (*Executor, error) {
	if name == "" {
		name = "aws"
	}
	awsPath, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", name, err)
	}

	return &Executor{
		awsPath: awsPath,
	}, nil
}

// Path returns the resolved binary path
func (e *Executor) Path() string {
	return e.awsPath
}

// Run executes args and returns stdout, or a CommandError carrying stderr.
// A command that never started reports exit code -1.
func (e *Executor) Run(ctx context.Context, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.awsPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return nil, &CommandError{
			Args:     args,
			Stderr:   stderr.String(),
			ExitCode: code,
			Err:      err,
		}
	}
	return stdout.Bytes(), nil
}
