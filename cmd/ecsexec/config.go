package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tapcraft-io/ecsexec/internal/config"
	"github.com/tapcraft-io/ecsexec/internal/tui"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ecsexec configuration",
		Long: `Manage ecsexec configuration.

Configuration is read from $HOME/.ecsexec/config.yaml (or $ECSEXEC_HOME)
and every key can be overridden with an ECSEXEC_<KEY> environment variable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}

			path := cfg.ConfigFile
			if root.cfgFile != "" {
				path = root.cfgFile
			}
			if err := cfg.WriteFile(path, force); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSuccess("Wrote "+path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(root.cfgFile)
			if err != nil {
				return err
			}

			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tui.RenderHelp("# "+cfg.ConfigFile))
			fmt.Fprint(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cfgCmd.AddCommand(initCmd, showCmd)
	return cfgCmd
}
