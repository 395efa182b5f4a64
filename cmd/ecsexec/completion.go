package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/ecsexec/internal/config"
	"github.com/tapcraft-io/ecsexec/internal/resolve"
	"github.com/tapcraft-io/ecsexec/pkg/types"
)

type completeFunc func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective)

// registerCompletions offers live values for the override flags
func registerCompletions(cmd *cobra.Command, opts *rootOptions) {
	_ = cmd.RegisterFlagCompletionFunc("profile", completeLevel(opts, types.LevelProfile))
	_ = cmd.RegisterFlagCompletionFunc("region", completeLevel(opts, types.LevelRegion))
	_ = cmd.RegisterFlagCompletionFunc("cluster", completeLevel(opts, types.LevelCluster))
	_ = cmd.RegisterFlagCompletionFunc("launcher", cobra.FixedCompletions(
		[]string{config.LauncherScript, config.LauncherDirect},
		cobra.ShellCompDirectiveNoFileComp,
	))
}

// completeLevel lists candidates for level once every level above it is
// given on the command line
func completeLevel(opts *rootOptions, level types.Level) completeFunc {
	return func(cmd *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		path := overrides(opts)
		for _, l := range types.Levels() {
			if l == level {
				break
			}
			if path.Get(l) == "" {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
		}

		cfg, err := config.Load(opts.cfgFile)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		lister, _, err := buildLister(cfg, opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		for _, step := range resolve.DefaultSteps() {
			if step.Level != level {
				continue
			}
			items, err := step.Fetch(ctx, lister, path)
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return matchPrefix(items, toComplete), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
}

func matchPrefix(items []string, prefix string) []string {
	if prefix == "" {
		return items
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.HasPrefix(item, prefix) {
			out = append(out, item)
		}
	}
	return out
}
