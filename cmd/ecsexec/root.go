package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tapcraft-io/ecsexec/internal/aws"
	"github.com/tapcraft-io/ecsexec/internal/config"
	"github.com/tapcraft-io/ecsexec/internal/history"
	"github.com/tapcraft-io/ecsexec/internal/resolve"
	"github.com/tapcraft-io/ecsexec/internal/session"
	"github.com/tapcraft-io/ecsexec/internal/tui"
	"github.com/tapcraft-io/ecsexec/pkg/types"
)

// rootOptions holds the flags shared by every command
type rootOptions struct {
	profile string
	region  string
	cluster string

	cfgFile    string
	launcher   string
	command    string
	keepScript bool
	dryRun     bool
	demo       bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ecsexec",
		Short: "Open a shell in a running ECS container",
		Long: `Open a shell in a running ECS container.

ecsexec walks you from an AWS CLI profile down to a single container,
asking only when there is more than one answer, then hands the terminal
to 'aws ecs execute-command'.

Profile, region and cluster may be given up front to skip those questions.`,
		Example: `  ecsexec
  ecsexec --profile production --region us-west-2
  ecsexec --cluster arn:aws:ecs:us-west-2:111111111111:cluster/web --dry-run
  ecsexec --demo`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd.Context(), cmd.Flags(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.profile, "profile", "", "AWS CLI profile (skips the profile question)")
	flags.StringVar(&opts.region, "region", "", "AWS region (skips the region question)")
	flags.StringVar(&opts.cluster, "cluster", "", "ECS cluster ARN (skips the cluster question)")
	flags.StringVar(&opts.launcher, "launcher", config.LauncherScript, "how to start the session: script or direct")
	flags.StringVar(&opts.command, "command", session.DefaultRemoteCommand, "command to run in the container")
	flags.BoolVar(&opts.keepScript, "keep-script", false, "leave the generated launch script on disk")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the aws command instead of running it")
	flags.BoolVar(&opts.demo, "demo", false, "resolve against built-in sample data (implies --dry-run)")
	flags.SetNormalizeFunc(normalizeFlagName)
	registerCompletions(cmd, opts)

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&opts.cfgFile, "config", "", "config file (default is $HOME/.ecsexec/config.yaml)")
	persistent.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newHistoryCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))

	return cmd
}

// normalizeFlagName accepts the older cluster ARN spellings
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "cluster-arn", "cluster_arn":
		name = "cluster"
	}
	return pflag.NormalizedName(name)
}

func runExec(ctx context.Context, flags *pflag.FlagSet, out io.Writer, opts *rootOptions) error {
	cfg, err := config.Load(opts.cfgFile)
	if err != nil {
		return err
	}
	applyFlags(cfg, flags, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg.LogLevel, opts.verbose)

	lister, awsPath, err := buildLister(cfg, opts)
	if err != nil {
		return err
	}
	if cfg.Spinner && isTerminal(os.Stderr) {
		lister = tui.NewSpinningLister(lister, os.Stderr)
	}

	pipeline := resolve.New(lister, tui.NewChooser(), resolve.WithLogger(logger))
	path, err := pipeline.Resolve(ctx, overrides(opts))
	if err != nil {
		return err
	}
	logger.Debug("resolved", "path", path.String())

	launcher := session.NewLauncher(
		newRunner(cfg, opts, out),
		session.WithAWSPath(awsPath),
		session.WithRemoteCommand(cfg.RemoteCommand),
		session.WithLogger(logger),
	)

	code, err := launcher.Launch(ctx, path)
	if err != nil {
		return err
	}

	if !opts.dryRun {
		recordHistory(cfg, path, code, logger)
	}

	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// applyFlags lays explicitly set flags over the loaded config
func applyFlags(cfg *config.Config, flags *pflag.FlagSet, opts *rootOptions) {
	if flags.Changed("launcher") {
		cfg.Launcher = opts.launcher
	}
	if flags.Changed("command") {
		cfg.RemoteCommand = opts.command
	}
	if flags.Changed("keep-script") {
		cfg.KeepScript = opts.keepScript
	}
	if opts.demo {
		opts.dryRun = true
	}
}

func overrides(opts *rootOptions) types.ResourcePath {
	return types.ResourcePath{
		Profile: opts.profile,
		Region:  opts.region,
		Cluster: opts.cluster,
	}
}

// buildLister picks the data source and returns the aws binary to launch with
func buildLister(cfg *config.Config, opts *rootOptions) (resolve.Lister, string, error) {
	ttl := time.Duration(cfg.CacheTTL) * time.Second

	if opts.demo {
		return aws.NewResourceCache(aws.NewMockLister(), ttl), cfg.AWSPath, nil
	}

	executor, err := aws.NewExecutor(cfg.AWSPath)
	if err != nil {
		return nil, "", err
	}

	cli := aws.NewCLILister(executor,
		aws.WithRegions(cfg.Regions),
		aws.WithLiveRegions(cfg.LiveRegions),
	)
	return aws.NewResourceCache(cli, ttl), executor.Path(), nil
}

func newRunner(cfg *config.Config, opts *rootOptions, out io.Writer) session.Runner {
	if opts.dryRun {
		return &session.DryRunner{Out: out}
	}
	if cfg.Launcher == config.LauncherDirect {
		return &session.DirectRunner{Stdio: session.OSStdio()}
	}
	return &session.ScriptRunner{
		Dir:   cfg.ScriptDir,
		Keep:  cfg.KeepScript,
		Stdio: session.OSStdio(),
	}
}

func recordHistory(cfg *config.Config, path types.ResourcePath, code int, logger *log.Logger) {
	if cfg.HistorySize == 0 {
		return
	}

	hist, err := history.NewHistory(cfg.HistorySize, cfg.HistoryFile)
	if err != nil {
		logger.Warn("could not load history", "err", err)
		return
	}
	hist.Add(path, code)
	if err := hist.Save(); err != nil {
		logger.Warn("could not save history", "err", err)
	}
}

func newLogger(w io.Writer, level string, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
	})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}
	logger.SetLevel(lvl)
	return logger
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// describeError turns the error taxonomy into a one-line message
func describeError(err error) string {
	var (
		empty   *resolve.EmptyCandidatesError
		cmdErr  *aws.CommandError
		launchE *session.LaunchError
	)

	switch {
	case errors.Is(err, resolve.ErrPromptAborted):
		return "aborted"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	case errors.As(err, &empty):
		return fmt.Sprintf("%s; nothing to connect to", empty.Error())
	case errors.As(err, &cmdErr):
		return fmt.Sprintf("aws command failed (exit %d): %s", cmdErr.ExitCode, err)
	case errors.As(err, &launchE):
		return fmt.Sprintf("could not start session: %s", err)
	default:
		return err.Error()
	}
}
