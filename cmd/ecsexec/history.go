package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/ecsexec/internal/config"
	"github.com/tapcraft-io/ecsexec/internal/history"
	"github.com/tapcraft-io/ecsexec/internal/tui"
	"github.com/tapcraft-io/ecsexec/pkg/types"
)

type historyOptions struct {
	profile     string
	region      string
	successOnly bool
	limit       int
	clear       bool
	delete      int
}

func newHistoryCmd(root *rootOptions) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history [query]",
		Short: "List past sessions",
		Long: `List past sessions, newest first.

An optional query fuzzy matches against the full resource path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.cfgFile)
			if err != nil {
				return err
			}

			hist, err := history.NewHistory(cfg.HistorySize, cfg.HistoryFile)
			if err != nil {
				return fmt.Errorf("load history: %w", err)
			}

			if opts.clear {
				hist.Clear()
				if err := hist.Save(); err != nil {
					return fmt.Errorf("save history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSuccess("History cleared"))
				return nil
			}

			if opts.delete > 0 {
				if !hist.Delete(opts.delete - 1) {
					return fmt.Errorf("no session #%d in history", opts.delete)
				}
				if err := hist.Save(); err != nil {
					return fmt.Errorf("save history: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSuccess(fmt.Sprintf("Deleted session #%d", opts.delete)))
				return nil
			}

			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			entries := selectEntries(hist, query, opts)
			printHistory(cmd.OutOrStdout(), hist, entries)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.profile, "profile", "", "only sessions using this profile")
	cmd.Flags().StringVar(&opts.region, "region", "", "only sessions in this region")
	cmd.Flags().BoolVar(&opts.successOnly, "success", false, "only sessions that exited cleanly")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 20, "maximum number of sessions to show (0 for all)")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "delete all recorded sessions")
	cmd.Flags().IntVar(&opts.delete, "delete", 0, "delete the Nth most recent session (1 is newest)")
	cmd.MarkFlagsMutuallyExclusive("clear", "delete")

	return cmd
}

// selectEntries applies the query, then the filters, then the limit
func selectEntries(hist *history.History, query string, opts *historyOptions) []types.HistoryEntry {
	if query == "" && opts.profile == "" && opts.region == "" && !opts.successOnly {
		if opts.limit > 0 {
			return hist.Get(opts.limit)
		}
		return hist.GetAll()
	}

	matched := hist.Search(query)

	filtered := make(map[string]bool)
	for _, e := range hist.Filter(opts.profile, opts.region, opts.successOnly) {
		filtered[e.ID] = true
	}

	result := make([]types.HistoryEntry, 0, len(matched))
	for _, e := range matched {
		if !filtered[e.ID] {
			continue
		}
		result = append(result, e)
		if opts.limit > 0 && len(result) == opts.limit {
			break
		}
	}
	return result
}

func printHistory(w io.Writer, hist *history.History, entries []types.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, tui.RenderInfo("No sessions recorded"))
		return
	}

	for i, item := range hist.ToListItems(entries) {
		fmt.Fprintln(w, tui.RenderHistoryRow(item.Title, item.Description, entries[i].ExitCode))
		fmt.Fprintln(w, "    "+tui.RenderHelp(entries[i].Path.Cluster+" "+entries[i].Path.Task))
	}
}
