package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tapcraft-io/ecsexec/internal/aws"
	"github.com/tapcraft-io/ecsexec/internal/config"
	"github.com/tapcraft-io/ecsexec/internal/history"
	"github.com/tapcraft-io/ecsexec/internal/resolve"
	"github.com/tapcraft-io/ecsexec/internal/session"
	"github.com/tapcraft-io/ecsexec/pkg/types"
)

const jobsCluster = "arn:aws:ecs:us-west-2:111111111111:cluster/jobs"

// isolate points config and history at a temp dir and keeps spinners off
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("ECSEXEC_HOME", home)
	t.Setenv("ECSEXEC_SPINNER", "false")
	return home
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRoot_DemoResolvesWithoutPrompting(t *testing.T) {
	isolate(t)

	out, err := execute(t, "--demo", "--profile", "production", "--region", "us-west-2", "--cluster", jobsCluster)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	expected := "aws --profile production --region us-west-2 ecs execute-command --cluster " + jobsCluster +
		" --task arn:aws:ecs:us-west-2:111111111111:task/jobs/5c9d3amno90 --container app --command /bin/bash --interactive"
	if strings.TrimSpace(out) != expected {
		t.Errorf("Unexpected command line:\n%s\nwant\n%s", out, expected)
	}
}

func TestRoot_ClusterArnAlias(t *testing.T) {
	isolate(t)

	for _, flag := range []string{"--cluster-arn", "--cluster_arn"} {
		t.Run(flag, func(t *testing.T) {
			out, err := execute(t, "--demo", "--profile", "production", "--region", "us-west-2", flag, jobsCluster)
			if err != nil {
				t.Fatalf("execute failed: %v", err)
			}
			if !strings.Contains(out, "--cluster "+jobsCluster) {
				t.Errorf("Expected alias to set the cluster, got %q", out)
			}
		})
	}
}

func TestRoot_CommandFlag(t *testing.T) {
	isolate(t)

	out, err := execute(t, "--demo", "--profile", "production", "--region", "us-west-2",
		"--cluster", jobsCluster, "--command", "/bin/sh -l")
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if !strings.Contains(out, "--command '/bin/sh -l' --interactive") {
		t.Errorf("Expected quoted remote command, got %q", out)
	}
}

func TestRoot_EmptyCandidates(t *testing.T) {
	isolate(t)

	// Nothing is deployed for staging in us-west-2
	_, err := execute(t, "--demo", "--profile", "staging", "--region", "us-west-2")
	if !errors.Is(err, resolve.ErrEmptyCandidates) {
		t.Fatalf("Expected ErrEmptyCandidates, got %v", err)
	}
	if !strings.Contains(describeError(err), "nothing to connect to") {
		t.Errorf("Unexpected message %q", describeError(err))
	}
}

func TestRoot_DryRunSkipsHistory(t *testing.T) {
	home := isolate(t)

	if _, err := execute(t, "--demo", "--profile", "production", "--region", "us-west-2", "--cluster", jobsCluster); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "history.json")); !os.IsNotExist(err) {
		t.Errorf("Expected no history file after dry run, got %v", err)
	}
}

func TestApplyFlags(t *testing.T) {
	isolate(t)

	cmd := newRootCmd()
	if err := cmd.ParseFlags([]string{"--launcher", "direct", "--demo"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	cfg.KeepScript = true
	cfg.RemoteCommand = "/bin/zsh"

	opts := &rootOptions{}
	opts.launcher, _ = cmd.Flags().GetString("launcher")
	opts.demo, _ = cmd.Flags().GetBool("demo")
	applyFlags(cfg, cmd.Flags(), opts)

	if cfg.Launcher != config.LauncherDirect {
		t.Errorf("Expected launcher from flag, got %s", cfg.Launcher)
	}
	if !cfg.KeepScript {
		t.Error("Expected unset keep-script flag to leave config alone")
	}
	if cfg.RemoteCommand != "/bin/zsh" {
		t.Errorf("Expected unset command flag to leave config alone, got %s", cfg.RemoteCommand)
	}
	if !opts.dryRun {
		t.Error("Expected --demo to imply dry run")
	}
}

func TestNewRunner(t *testing.T) {
	isolate(t)
	cfg, err := config.NewConfig()
	if err != nil {
		t.Fatal(err)
	}

	if _, ok := newRunner(cfg, &rootOptions{dryRun: true}, &bytes.Buffer{}).(*session.DryRunner); !ok {
		t.Error("Expected DryRunner for dry run")
	}

	r, ok := newRunner(cfg, &rootOptions{}, &bytes.Buffer{}).(*session.ScriptRunner)
	if !ok {
		t.Fatal("Expected ScriptRunner by default")
	}
	if r.Dir != cfg.ScriptDir || r.Keep {
		t.Errorf("Unexpected script runner %+v", r)
	}

	cfg.Launcher = config.LauncherDirect
	if _, ok := newRunner(cfg, &rootOptions{}, &bytes.Buffer{}).(*session.DirectRunner); !ok {
		t.Error("Expected DirectRunner for direct launcher")
	}
}

func TestRecordHistory(t *testing.T) {
	isolate(t)
	cfg, err := config.NewConfig()
	if err != nil {
		t.Fatal(err)
	}

	path := types.ResourcePath{
		Profile: "production", Region: "us-west-2", Cluster: jobsCluster,
		Service: "worker", Task: "task-1", Container: "app",
	}
	recordHistory(cfg, path, 130, newLogger(&bytes.Buffer{}, "info", false))

	hist, err := history.NewHistory(cfg.HistorySize, cfg.HistoryFile)
	if err != nil {
		t.Fatal(err)
	}
	entries := hist.GetAll()
	if len(entries) != 1 || entries[0].ExitCode != 130 || entries[0].Path != path {
		t.Errorf("Unexpected history %+v", entries)
	}
}

func TestHistoryCmd(t *testing.T) {
	isolate(t)
	cfg, err := config.NewConfig()
	if err != nil {
		t.Fatal(err)
	}
	logger := newLogger(&bytes.Buffer{}, "info", false)
	for i, service := range []string{"checkout", "search", "billing"} {
		path := types.ResourcePath{
			Profile: "production", Region: "us-west-2", Cluster: "web",
			Service: service, Task: fmt.Sprintf("task-%d", i), Container: "app",
		}
		recordHistory(cfg, path, i, logger)
	}

	out, err := execute(t, "history")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	for _, service := range []string{"checkout", "search", "billing"} {
		if !strings.Contains(out, service) {
			t.Errorf("Expected %s in output", service)
		}
	}

	out, err = execute(t, "history", "--success")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "checkout") || strings.Contains(out, "search") {
		t.Errorf("Expected only the clean exit, got %q", out)
	}

	out, err = execute(t, "history", "--limit", "1")
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if !strings.Contains(out, "billing") || strings.Contains(out, "checkout") {
		t.Errorf("Expected only the newest session, got %q", out)
	}

	if _, err := execute(t, "history", "--delete", "1"); err != nil {
		t.Fatalf("history --delete failed: %v", err)
	}
	out, _ = execute(t, "history")
	if strings.Contains(out, "billing") || !strings.Contains(out, "search") {
		t.Errorf("Expected newest session deleted, got %q", out)
	}
	if _, err := execute(t, "history", "--delete", "9"); err == nil {
		t.Error("Expected out of range delete to fail")
	}

	if _, err := execute(t, "history", "--clear"); err != nil {
		t.Fatalf("history --clear failed: %v", err)
	}
	out, _ = execute(t, "history")
	if !strings.Contains(out, "No sessions recorded") {
		t.Errorf("Expected empty history, got %q", out)
	}
}

func TestConfigCmd(t *testing.T) {
	home := isolate(t)

	out, err := execute(t, "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(out, filepath.Join(home, config.ConfigFileName)) {
		t.Errorf("Expected written path in output, got %q", out)
	}
	if _, err := execute(t, "config", "init"); err == nil {
		t.Error("Expected second init without --force to fail")
	}
	if _, err := execute(t, "config", "init", "--force"); err != nil {
		t.Errorf("Expected init --force to succeed, got %v", err)
	}

	out, err = execute(t, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v", err)
	}
	if !strings.Contains(out, "launcher: script") {
		t.Errorf("Expected launcher in output, got %q", out)
	}
}

func TestCompletion_Clusters(t *testing.T) {
	isolate(t)

	out, err := execute(t, "__complete", "--demo", "--profile", "production", "--region", "us-west-2", "--cluster", "")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if !strings.Contains(out, jobsCluster) || !strings.Contains(out, "cluster/web") {
		t.Errorf("Expected both clusters offered, got %q", out)
	}
}

func TestCompletion_NeedsUpperLevels(t *testing.T) {
	isolate(t)

	out, err := execute(t, "__complete", "--demo", "--cluster", "")
	if err != nil {
		t.Fatalf("completion failed: %v", err)
	}
	if strings.Contains(out, "arn:aws:ecs") {
		t.Errorf("Expected no clusters without profile and region, got %q", out)
	}
}

func TestMatchPrefix(t *testing.T) {
	got := matchPrefix([]string{"prod", "production", "staging"}, "prod")
	if strings.Join(got, ",") != "prod,production" {
		t.Errorf("Unexpected matches %v", got)
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"aborted", fmt.Errorf("choose region: %w", resolve.ErrPromptAborted), "aborted"},
		{"canceled", context.Canceled, "interrupted"},
		{"aws", fmt.Errorf("list clusters: %w", &aws.CommandError{Args: []string{"ecs"}, Stderr: "expired token", ExitCode: 255}), "aws command failed (exit 255)"},
		{"launch", &session.LaunchError{Command: "aws", Err: os.ErrPermission}, "could not start session"},
		{"other", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := describeError(tt.err); !strings.Contains(got, tt.want) {
				t.Errorf("describeError() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	err := fmt.Errorf("session: %w", &ExitError{Code: 130})

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 130 {
		t.Fatalf("Expected ExitError 130, got %v", err)
	}
	if exitErr.Error() != "exit status 130" {
		t.Errorf("Unexpected message %q", exitErr.Error())
	}
}
