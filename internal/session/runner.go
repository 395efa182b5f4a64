package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"mvdan.cc/sh/v3/syntax"
)

// ScriptPrefix names the generated launcher scripts
const ScriptPrefix = "ecs-exec-"

// Stdio is the terminal handed to the child process
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// OSStdio returns the process's own terminal
func OSStdio() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// CommandLine renders name and args as a single bash command line
func CommandLine(name string, args []string) (string, error) {
	words := make([]string, 0, len(args)+1)
	for _, w := range append([]string{name}, args...) {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", w, err)
		}
		words = append(words, q)
	}
	return strings.Join(words, " "), nil
}

// DirectRunner executes the binary in-process with the terminal attached
type DirectRunner struct {
	Stdio Stdio
}

// Run starts name and waits for it.
// The child is not bound to ctx so an interrupt reaches the remote shell
// instead of killing the session.
func (r *DirectRunner) Run(ctx context.Context, name string, args []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	cmd := exec.Command(name, args...)
	attach(cmd, r.Stdio)
	return exitStatus(name, cmd.Run())
}

// ScriptRunner writes the invocation to an executable bash script and runs
// that script, which keeps interactive terminal attachment intact where
// piping the command through a shell does not.
type ScriptRunner struct {
	Dir   string
	Keep  bool
	Stdio Stdio

	newID func() string
}

// Run writes, chmods and executes the script, then removes it unless Keep is set
func (r *ScriptRunner) Run(ctx context.Context, name string, args []string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	script, err := r.writeScript(name, args)
	if err != nil {
		return 0, &LaunchError{Command: name, Err: err}
	}
	if !r.Keep {
		defer os.Remove(script)
	}

	cmd := exec.Command(script)
	attach(cmd, r.Stdio)
	return exitStatus(script, cmd.Run())
}

func (r *ScriptRunner) writeScript(name string, args []string) (string, error) {
	line, err := CommandLine(name, args)
	if err != nil {
		return "", err
	}

	dir := r.Dir
	if dir == "" {
		dir = "."
	}
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve script dir: %w", err)
	}

	newID := r.newID
	if newID == nil {
		newID = func() string { return uuid.NewString()[:8] }
	}
	path := filepath.Join(dir, ScriptPrefix+newID()+".sh")

	if err := os.WriteFile(path, []byte("#!/bin/bash\n"+line+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write script: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat script: %w", err)
	}
	if err := os.Chmod(path, st.Mode()|0o100); err != nil {
		return "", fmt.Errorf("chmod script: %w", err)
	}
	return path, nil
}

// DryRunner prints the command line instead of running it
type DryRunner struct {
	Out io.Writer
}

// Run writes the shell-quoted command and reports success
func (r *DryRunner) Run(ctx context.Context, name string, args []string) (int, error) {
	line, err := CommandLine(name, args)
	if err != nil {
		return 0, err
	}
	if _, err := fmt.Fprintln(r.Out, line); err != nil {
		return 0, err
	}
	return 0, nil
}

func attach(cmd *exec.Cmd, stdio Stdio) {
	cmd.Stdin = stdio.In
	cmd.Stdout = stdio.Out
	cmd.Stderr = stdio.Err
}

// exitStatus separates a session that ran from one that never started
func exitStatus(command string, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			return 128 + int(ws.Signal()), nil
		}
		return exitErr.ExitCode(), nil
	}
	return 0, &LaunchError{Command: command, Err: err}
}
